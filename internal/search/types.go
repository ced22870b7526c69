// Package search implements the hybrid query engine: quoted phrases are
// matched as literal case-insensitive substrings of file paths, unquoted
// terms are matched approximately, and both passes merge into one
// deterministically ordered result list.
package search

import (
	"github.com/filedepot/filedepot/internal/metadata"
)

// ParsedQuery is the output of ParseQuery.
type ParsedQuery struct {
	// ExactPhrases are quoted substrings, quotes stripped, order preserved.
	ExactPhrases []string

	// FuzzyTerms are unquoted whitespace-separated tokens.
	FuzzyTerms []string
}

// IsEmpty reports whether the query carries no phrases and no terms.
func (q ParsedQuery) IsEmpty() bool {
	return len(q.ExactPhrases) == 0 && len(q.FuzzyTerms) == 0
}

// Result is one scored search hit. Score is in [0, 1]: 0 is an exact match,
// values approaching 1 are the weakest fuzzy matches accepted under the
// configured threshold.
type Result struct {
	File  metadata.FileMetadata `json:"file"`
	Score float64               `json:"score"`
}
