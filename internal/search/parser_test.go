package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantPhrases []string
		wantTerms   []string
	}{
		{
			name:      "single term",
			raw:       "dragon",
			wantTerms: []string{"dragon"},
		},
		{
			name:      "multiple terms",
			raw:       "fire dragon pdf",
			wantTerms: []string{"fire", "dragon", "pdf"},
		},
		{
			name:        "single phrase",
			raw:         `"dragon.pdf"`,
			wantPhrases: []string{"dragon.pdf"},
		},
		{
			name:        "phrase with spaces",
			raw:         `"fire dragon"`,
			wantPhrases: []string{"fire dragon"},
		},
		{
			name:        "phrase and term",
			raw:         `"patterns/" dragon`,
			wantPhrases: []string{"patterns/"},
			wantTerms:   []string{"dragon"},
		},
		{
			name:        "multiple phrases",
			raw:         `"a/" "b/" c`,
			wantPhrases: []string{"a/", "b/"},
			wantTerms:   []string{"c"},
		},
		{
			name:        "term before phrase",
			raw:         `dragon "patterns/"`,
			wantPhrases: []string{"patterns/"},
			wantTerms:   []string{"dragon"},
		},
		{
			name: "empty string",
			raw:  "",
		},
		{
			name: "whitespace only",
			raw:  "   ",
		},
		{
			name: "empty quotes",
			raw:  `""`,
		},
		{
			name:      "unterminated quote degrades to terms",
			raw:       `"dragon fire`,
			wantTerms: []string{"dragon", "fire"},
		},
		{
			name:        "unterminated quote after phrase",
			raw:         `"a/" "dragon fire`,
			wantPhrases: []string{"a/"},
			wantTerms:   []string{"dragon", "fire"},
		},
		{
			name:      "no normalization of case",
			raw:       "DrAgOn",
			wantTerms: []string{"DrAgOn"},
		},
		{
			name:        "phrase keeps inner whitespace",
			raw:         `" padded "`,
			wantPhrases: []string{" padded "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseQuery(tt.raw)
			assert.Equal(t, tt.wantPhrases, got.ExactPhrases)
			assert.Equal(t, tt.wantTerms, got.FuzzyTerms)
		})
	}
}

func TestParsedQueryIsEmpty(t *testing.T) {
	assert.True(t, ParseQuery("").IsEmpty())
	assert.True(t, ParseQuery(`""`).IsEmpty())
	assert.False(t, ParseQuery("x").IsEmpty())
	assert.False(t, ParseQuery(`"x"`).IsEmpty())
}
