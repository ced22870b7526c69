// Package scanner discovers indexable files under a root directory.
// It walks the tree recursively, keeps files whose extension is on the
// configured allow-list, and builds a metadata record for each match.
package scanner

import (
	"github.com/filedepot/filedepot/internal/metadata"
)

// Options configures a scan.
type Options struct {
	// RootDir is the directory to scan.
	RootDir string

	// Extensions is the allow-list of extensions, lowercase with leading
	// dots (e.g. ".pdf"). Matching is case-insensitive over file names.
	Extensions []string

	// Workers is the number of concurrent metadata workers (0 = NumCPU).
	Workers int

	// FollowSymlinks enables following symbolic links (default: false).
	FollowSymlinks bool
}

// Result is returned from the scanner channel. Exactly one of File or Err is
// set for per-file results; a Result with Err set and an empty Path reports a
// walk-level failure that invalidates the whole scan.
type Result struct {
	File *metadata.FileMetadata
	Path string
	Err  error
}
