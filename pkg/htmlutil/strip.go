// Package htmlutil turns the HTML fragments stored in descriptions and
// biographies into plain text.
package htmlutil

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blockElements = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.Br:         true,
	atom.Li:         true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Blockquote: true,
	atom.Tr:         true,
}

// StripTags removes all HTML tags from a string and normalizes whitespace.
// Block-level elements become line breaks; entities are decoded.
func StripTags(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a tokenizer error; either way the text so far is
			// all there is.
			return normalize(b.String())
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Script || a == atom.Style {
				if tt == html.StartTagToken {
					skip++
				}
				continue
			}
			if a == atom.Br {
				b.WriteByte('\n')
			} else if a == atom.Img {
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if (a == atom.Script || a == atom.Style) && skip > 0 {
				skip--
				continue
			}
			if blockElements[a] {
				b.WriteByte('\n')
			}
		}
	}
}

// normalize collapses runs of whitespace (non-breaking spaces included)
// within lines and drops empty lines.
func normalize(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// Snippet returns up to radius runes of plain text on both sides of the
// first case-insensitive match of pattern, with ellipses where text was cut.
// It returns "" when pattern doesn't occur.
func Snippet(text, pattern string, radius int) string {
	plain := strings.ReplaceAll(StripTags(text), "\n", " ")
	if pattern == "" {
		return ""
	}
	runes := []rune(plain)
	lower := []rune(strings.ToLower(plain))
	needle := []rune(strings.ToLower(pattern))
	idx := indexRunes(lower, needle)
	if idx < 0 {
		return ""
	}

	start := max(idx-radius, 0)
	end := min(idx+len(needle)+radius, len(runes))

	var b strings.Builder
	if start > 0 {
		b.WriteString("…")
	}
	b.WriteString(string(runes[start:end]))
	if end < len(runes) {
		b.WriteString("…")
	}
	return b.String()
}

func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// Truncate shortens plain text to at most n runes, appending an ellipsis
// when text was cut.
func Truncate(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:n])) + "…"
}
