package database

import (
	"strings"
	"unicode"
)

// SQLite's LIKE and LOWER fold ASCII only, so text is matched with GLOB
// patterns in which every letter becomes a class of its case variants:
// "Öh" becomes "[öÖ][hH]". The GLOB wildcards in the text are put in classes
// of their own and match literally.

// GlobEqual matches s whole, ignoring case.
func GlobEqual(s string) string {
	return glob("", s, "")
}

// GlobPrefix matches values starting with s, ignoring case.
func GlobPrefix(s string) string {
	return glob("", s, "*")
}

// GlobContains matches values containing s, ignoring case.
func GlobContains(s string) string {
	return glob("*", s, "*")
}

func glob(prefix, s, suffix string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, r := range s {
		writeRune(&b, r)
	}
	b.WriteString(suffix)
	return b.String()
}

func writeRune(b *strings.Builder, r rune) {
	variants := []rune{r}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		variants = append(variants, f)
	}
	if len(variants) == 1 {
		switch r {
		case '*', '?', '[':
			b.WriteByte('[')
			b.WriteRune(r)
			b.WriteByte(']')
		default:
			b.WriteRune(r)
		}
		return
	}
	b.WriteByte('[')
	for _, v := range variants {
		b.WriteRune(v)
	}
	b.WriteByte(']')
}
