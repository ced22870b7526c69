package search

import (
	"strings"
)

// ParseQuery splits a raw query into quoted exact phrases and unquoted fuzzy
// terms. Text between matching double quotes becomes one exact phrase; the
// remainder is tokenized on whitespace. No case normalization or trimming is
// applied here, that is the matching stage's responsibility.
//
// An unterminated quote degrades gracefully: the text after the lone quote is
// treated as ordinary unquoted tokens, the quote itself is dropped.
func ParseQuery(raw string) ParsedQuery {
	var parsed ParsedQuery

	segments := strings.Split(raw, `"`)
	terminated := len(segments)%2 == 1

	for i, seg := range segments {
		inQuotes := i%2 == 1
		if inQuotes && (terminated || i < len(segments)-1) {
			if seg != "" {
				parsed.ExactPhrases = append(parsed.ExactPhrases, seg)
			}
			continue
		}
		parsed.FuzzyTerms = append(parsed.FuzzyTerms, strings.Fields(seg)...)
	}

	return parsed
}
