// Package index maintains the in-memory file index: one immutable snapshot
// per scan, replaced atomically on rescan, plus the search engine primed
// from the current snapshot.
package index

import (
	"sort"
	"time"

	"github.com/filedepot/filedepot/internal/metadata"
)

// Snapshot is one complete, immutable view of the index as of a specific
// scan. It is never mutated after construction; rescans build a replacement
// and swap the current pointer.
type Snapshot struct {
	files   map[string]metadata.FileMetadata
	takenAt time.Time
}

// newSnapshot wraps a finished id -> metadata map. The map must not be
// mutated after this call.
func newSnapshot(files map[string]metadata.FileMetadata) *Snapshot {
	return &Snapshot{
		files:   files,
		takenAt: time.Now(),
	}
}

// Get returns the metadata for the given file id.
func (s *Snapshot) Get(id string) (metadata.FileMetadata, bool) {
	f, ok := s.files[id]
	return f, ok
}

// All returns every file in the snapshot sorted by path.
func (s *Snapshot) All() []metadata.FileMetadata {
	out := make([]metadata.FileMetadata, 0, len(s.files))
	for _, f := range s.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Len returns the number of files in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.files)
}

// TakenAt returns when the snapshot's scan completed.
func (s *Snapshot) TakenAt() time.Time {
	return s.takenAt
}
