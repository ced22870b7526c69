package search

import (
	"strings"

	"github.com/filedepot/filedepot/internal/metadata"
)

// Matcher scores a query approximately against a collection of file paths.
//
// The scorer is a Sellers substring edit distance: the pattern is aligned
// against every position of the candidate path (free leading and trailing
// text) and the minimum edit count is normalized by the pattern length in
// runes. The resulting score is in [0, 1], lower is closer, 0 is a literal
// substring hit. Comparison is case-insensitive. A candidate is a hit iff
// its score does not exceed the configured threshold, so a higher threshold
// is more permissive.
type Matcher struct {
	threshold float64
	entries   []matchEntry
}

type matchEntry struct {
	id      string
	lowered []rune
}

// Hit is one fuzzy match against the collection.
type Hit struct {
	ID    string
	Score float64
}

// NewMatcher creates a Matcher with the given threshold in (0, 1].
func NewMatcher(threshold float64) *Matcher {
	return &Matcher{threshold: threshold}
}

// SetCollection replaces the working collection. Entries keep the order of
// the given slice, which determines hit order for equal scores.
func (m *Matcher) SetCollection(files []metadata.FileMetadata) {
	entries := make([]matchEntry, len(files))
	for i, f := range files {
		entries[i] = matchEntry{
			id:      f.ID,
			lowered: []rune(strings.ToLower(f.Path)),
		}
	}
	m.entries = entries
}

// Match scores the pattern against every entry in the collection and returns
// the hits within the threshold, in collection order.
func (m *Matcher) Match(pattern string) []Hit {
	p := []rune(strings.ToLower(pattern))
	if len(p) == 0 {
		return nil
	}

	var hits []Hit
	for _, e := range m.entries {
		score := substringScore(p, e.lowered)
		if score <= m.threshold {
			hits = append(hits, Hit{ID: e.id, Score: score})
		}
	}
	return hits
}

// substringScore returns the minimum edit distance between the pattern and
// any substring of the text, normalized by pattern length and clamped to 1.
func substringScore(pattern, text []rune) float64 {
	dist := substringDistance(pattern, text)
	score := float64(dist) / float64(len(pattern))
	if score > 1 {
		score = 1
	}
	return score
}

// substringDistance computes the Sellers variant of the Levenshtein distance:
// deletions of leading and trailing text characters are free, so the result
// is the cheapest alignment of the whole pattern inside the text.
func substringDistance(pattern, text []rune) int {
	m, n := len(pattern), len(text)
	if n == 0 {
		return m
	}

	prev := make([]int, n+1)
	curr := make([]int, n+1)
	// First row zero: the match may start at any offset in the text.

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 1
			if pattern[i-1] == text[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // delete from pattern
				curr[j-1]+1,    // insert into pattern
				prev[j-1]+cost, // substitute or match
			)
		}
		prev, curr = curr, prev
	}

	best := prev[0]
	for j := 1; j <= n; j++ {
		if prev[j] < best {
			best = prev[j]
		}
	}
	return best
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
