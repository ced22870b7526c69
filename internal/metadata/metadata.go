// Package metadata builds per-file metadata records for the index.
package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	deperr "github.com/filedepot/filedepot/internal/errors"
)

// FileMetadata describes one indexed file.
type FileMetadata struct {
	// ID is a deterministic identifier derived from Path. Identical relative
	// paths always produce identical ids, across process restarts.
	ID string `json:"id"`

	// Name is the final path segment (basename).
	Name string `json:"name"`

	// Path is the path relative to the indexed root with forward slashes.
	// It is the primary matching key for search.
	Path string `json:"path"`

	// AbsolutePath is the resolved filesystem path, used only for opening
	// or streaming the file, never for matching.
	AbsolutePath string `json:"absolutePath"`

	Size     int64     `json:"size"`
	ModTime  time.Time `json:"mtime"`
	MIMEType string    `json:"mimeType"`
}

// Builder produces FileMetadata records by querying the filesystem.
type Builder struct {
	root string
}

// NewBuilder creates a Builder rooted at the given absolute directory.
func NewBuilder(root string) *Builder {
	return &Builder{root: root}
}

// Build produces the metadata record for the file at relPath below the root.
// relPath uses forward slashes regardless of platform.
func (b *Builder) Build(relPath string) (FileMetadata, error) {
	relPath = filepath.ToSlash(relPath)
	absPath := filepath.Join(b.root, filepath.FromSlash(relPath))

	info, err := os.Stat(absPath)
	if err != nil {
		return FileMetadata{}, deperr.New(deperr.ErrCodeFileStat,
			fmt.Sprintf("stat %s", relPath), err)
	}
	if info.IsDir() {
		return FileMetadata{}, deperr.New(deperr.ErrCodeInvalidPath,
			fmt.Sprintf("%s is a directory", relPath), nil)
	}

	return FileMetadata{
		ID:           ID(relPath),
		Name:         baseName(relPath),
		Path:         relPath,
		AbsolutePath: absPath,
		Size:         info.Size(),
		ModTime:      info.ModTime(),
		MIMEType:     MIMETypeForPath(relPath),
	}, nil
}

// baseName returns the final slash-separated segment of a path.
func baseName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
