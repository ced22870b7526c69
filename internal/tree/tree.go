// Package tree projects an index snapshot into a nested directory tree for
// presentation.
package tree

import (
	"strings"

	"github.com/filedepot/filedepot/internal/metadata"
)

// Node is one directory in the tree. Children maps child directory names to
// their subtrees; Files holds the files that live directly in this directory,
// in the order they were encountered. Consumers sort for presentation.
type Node struct {
	Children map[string]*Node        `json:"children,omitempty"`
	Files    []metadata.FileMetadata `json:"files,omitempty"`
}

// Build projects the given files into a directory tree. Each file's path is
// split on "/": intermediate segments become nested nodes, the final segment
// places the file into that node's file list. An empty input yields an empty
// root node.
func Build(files []metadata.FileMetadata) *Node {
	root := &Node{}

	for _, f := range files {
		node := root
		segments := strings.Split(f.Path, "/")
		for _, dir := range segments[:len(segments)-1] {
			if node.Children == nil {
				node.Children = make(map[string]*Node)
			}
			child, ok := node.Children[dir]
			if !ok {
				child = &Node{}
				node.Children[dir] = child
			}
			node = child
		}
		node.Files = append(node.Files, f)
	}

	return root
}

// IsEmpty reports whether the node has no children and no files.
func (n *Node) IsEmpty() bool {
	return len(n.Children) == 0 && len(n.Files) == 0
}

// FileCount returns the total number of files in this subtree.
func (n *Node) FileCount() int {
	count := len(n.Files)
	for _, child := range n.Children {
		count += child.FileCount()
	}
	return count
}
