package search

import (
	"sort"
	"strings"
	"sync"

	"github.com/filedepot/filedepot/internal/metadata"
)

// blendFactor weights the fuzzy score when blending it into an existing
// exact-phrase hit. The blended score never exceeds the raw fuzzy score, so a
// phrase+fuzzy intersection always ranks at or above a pure fuzzy match of
// equal quality.
const blendFactor = 0.1

// Engine merges exact-phrase and fuzzy matching into ranked results.
// It holds its own copy of the indexed collection; SetCollection is called
// whenever the index snapshot is replaced. Safe for concurrent use.
type Engine struct {
	mu      sync.RWMutex
	matcher *Matcher
	files   []metadata.FileMetadata
	lowered []string
	byID    map[string]int
	primed  bool
}

// NewEngine creates an Engine with the given fuzzy threshold.
func NewEngine(threshold float64) *Engine {
	return &Engine{
		matcher: NewMatcher(threshold),
		byID:    make(map[string]int),
	}
}

// SetCollection primes the engine with the files of the current snapshot.
// The collection is sorted by path so iteration order, and therefore tie
// order in results, is deterministic within a process run.
func (e *Engine) SetCollection(files []metadata.FileMetadata) {
	sorted := make([]metadata.FileMetadata, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	lowered := make([]string, len(sorted))
	byID := make(map[string]int, len(sorted))
	for i, f := range sorted {
		lowered[i] = strings.ToLower(f.Path)
		byID[f.ID] = i
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.files = sorted
	e.lowered = lowered
	e.byID = byID
	e.matcher.SetCollection(sorted)
	e.primed = true
}

// Search runs the full query pipeline: parse, exact-phrase pass, fuzzy pass
// with score blending, suppression of phrase-only hits when fuzzy terms were
// present, then an ascending stable sort by score. An empty or whitespace
// query, or an engine that was never primed, yields an empty result list.
func (e *Engine) Search(raw string) []Result {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.primed {
		return nil
	}

	parsed := ParseQuery(raw)
	if parsed.IsEmpty() {
		return nil
	}

	phrases := make([]string, len(parsed.ExactPhrases))
	for i, p := range parsed.ExactPhrases {
		phrases[i] = strings.ToLower(p)
	}

	// Ordered accumulation: ids slice preserves insertion order, which
	// follows collection order and keeps ties deterministic.
	scores := make(map[string]float64)
	var order []string

	// Exact-phrase pass: a file qualifies only if its path contains every
	// phrase as a case-insensitive substring.
	if len(phrases) > 0 {
		for i, f := range e.files {
			if containsAll(e.lowered[i], phrases) {
				scores[f.ID] = 0
				order = append(order, f.ID)
			}
		}
	}

	// Fuzzy pass: all fuzzy terms joined into one pattern.
	if len(parsed.FuzzyTerms) > 0 {
		pattern := strings.Join(parsed.FuzzyTerms, " ")
		for _, hit := range e.matcher.Match(pattern) {
			if len(phrases) == 0 {
				if _, seen := scores[hit.ID]; !seen {
					order = append(order, hit.ID)
				}
				scores[hit.ID] = hit.Score
				continue
			}
			// With phrases present the query is a conjunction: fuzzy
			// hits only refine files that already passed the phrase test.
			old, ok := scores[hit.ID]
			if !ok {
				continue
			}
			blended := old + hit.Score*blendFactor
			if blended > hit.Score {
				blended = hit.Score
			}
			scores[hit.ID] = blended
		}
	}

	// Suppression pass: with both phrases and fuzzy terms present, a file
	// still at score 0 never registered a fuzzy hit; keep it only if its
	// path contains at least one fuzzy term literally.
	if len(phrases) > 0 && len(parsed.FuzzyTerms) > 0 {
		kept := order[:0]
		for _, id := range order {
			if scores[id] == 0 && !e.containsAnyTerm(id, parsed.FuzzyTerms) {
				delete(scores, id)
				continue
			}
			kept = append(kept, id)
		}
		order = kept
	}

	results := make([]Result, 0, len(order))
	for _, id := range order {
		results = append(results, Result{
			File:  e.files[e.byID[id]],
			Score: scores[id],
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})

	return results
}

// containsAnyTerm reports whether the file's path contains any of the terms
// as a case-insensitive substring.
func (e *Engine) containsAnyTerm(id string, terms []string) bool {
	idx, ok := e.byID[id]
	if !ok {
		return false
	}
	path := e.lowered[idx]
	for _, term := range terms {
		if strings.Contains(path, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// containsAll reports whether the path contains every phrase.
func containsAll(path string, phrases []string) bool {
	for _, p := range phrases {
		if !strings.Contains(path, p) {
			return false
		}
	}
	return true
}
