package search

import (
	"strings"
	"unicode/utf8"
)

const (
	maxQueryLength = 100
	minWordLength  = 2
)

// Words splits a search pattern into distinct lower-case words. The pattern
// is cut at maxQueryLength runes and words shorter than minWordLength are
// dropped.
func Words(pattern string) []string {
	pattern = strings.TrimSpace(pattern)
	if utf8.RuneCountInString(pattern) > maxQueryLength {
		pattern = string([]rune(pattern)[:maxQueryLength])
	}

	seen := map[string]struct{}{}
	var words []string
	for _, w := range strings.Fields(strings.ToLower(pattern)) {
		if utf8.RuneCountInString(w) < minWordLength {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words
}
