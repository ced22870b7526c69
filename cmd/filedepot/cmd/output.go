package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/filedepot/filedepot/internal/search"
	"github.com/filedepot/filedepot/internal/tree"
)

// Terminal styles for command output.
var (
	pathStyle  = lipgloss.NewStyle().Bold(true)
	scoreStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dirStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// printResults renders search results, best match first.
func printResults(w io.Writer, results []search.Result) {
	if len(results) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no matches"))
		return
	}

	for _, r := range results {
		fmt.Fprintf(w, "%s  %s %s\n",
			pathStyle.Render(r.File.Path),
			scoreStyle.Render(fmt.Sprintf("score=%.3f", r.Score)),
			dimStyle.Render(r.File.ID))
	}
}

// printTree renders a directory tree with indentation. Directories and files
// are sorted alphabetically for presentation; the index itself only
// guarantees grouping, not order.
func printTree(w io.Writer, node *tree.Node) {
	if node.IsEmpty() {
		fmt.Fprintln(w, dimStyle.Render("no files"))
		return
	}
	printTreeNode(w, node, 0)
}

func printTreeNode(w io.Writer, node *tree.Node, depth int) {
	indent := strings.Repeat("  ", depth)

	dirs := make([]string, 0, len(node.Children))
	for name := range node.Children {
		dirs = append(dirs, name)
	}
	sort.Strings(dirs)

	for _, name := range dirs {
		fmt.Fprintf(w, "%s%s\n", indent, dirStyle.Render(name+"/"))
		printTreeNode(w, node.Children[name], depth+1)
	}

	files := make([]string, 0, len(node.Files))
	for _, f := range node.Files {
		files = append(files, f.Name)
	}
	sort.Strings(files)

	for _, name := range files {
		fmt.Fprintf(w, "%s%s\n", indent, name)
	}
}
