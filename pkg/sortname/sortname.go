// Package sortname orders and normalises names the way Finnish
// bibliographies do: Finnish collation (å, ä and ö after z), initials for
// letter buckets and "Last, First" canonical person names.
package sortname

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// A collator keeps internal buffers and isn't safe for concurrent use.
var collators = sync.Pool{
	New: func() any {
		return collate.New(language.Finnish, collate.IgnoreCase)
	},
}

var upper = cases.Upper(language.Finnish)

// Compare orders a and b by Finnish collation.
func Compare(a, b string) int {
	c := collators.Get().(*collate.Collator)
	defer collators.Put(c)
	return c.CompareString(a, b)
}

// Less reports whether a sorts before b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// Sort sorts names in place by Finnish collation.
func Sort(names []string) {
	c := collators.Get().(*collate.Collator)
	defer collators.Put(c)
	sort.SliceStable(names, func(i, j int) bool {
		return c.CompareString(names[i], names[j]) < 0
	})
}

// Initial returns the upper-cased first letter of s, or "" for an empty
// string.
func Initial(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(s)
	return upper.String(string(r))
}

// JoinAuthors joins distinct names with " & " in collation order.
func JoinAuthors(names []string) string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok || n == "" {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	Sort(out)
	return strings.Join(out, " & ")
}

// GenerationalSuffixes are preserved in the sort name as they distinguish different people.
var GenerationalSuffixes = []string{
	"Jr.",
	"Jr",
	"Sr.",
	"Sr",
	"nuorempi",
	"vanhempi",
	"II",
	"III",
	"IV",
}

// Prefixes are honorifics and titles that are stripped from the name.
var Prefixes = []string{
	"Dr.",
	"Dr",
	"Prof.",
	"Prof",
	"tri",
	"Sir",
	"Dame",
}

// Particles move to the end with the given name.
// Example: "Ludwig van Beethoven" -> "Beethoven, Ludwig van".
var Particles = []string{
	"van",
	"von",
	"de",
	"da",
	"di",
	"du",
	"del",
	"della",
	"le",
	"la",
}

// ForPerson turns a display name into the canonical "Last, First" form the
// catalog stores as a person's name. Names that already contain a comma
// are returned trimmed.
//
// Examples:
//   - "Isaac Asimov" -> "Asimov, Isaac"
//   - "Ursula K. Le Guin" -> "Guin, Ursula K. Le"
//   - "Ludwig van Beethoven" -> "Beethoven, Ludwig van"
//   - "Walter M. Miller Jr." -> "Miller, Walter M., Jr."
func ForPerson(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, ",") {
		return name
	}

	parts := strings.Fields(name)
	if len(parts) == 1 {
		return name
	}

	for len(parts) > 1 && isPrefix(parts[0]) {
		parts = parts[1:]
	}

	var suffixes []string
	for len(parts) > 1 && isGenerationalSuffix(parts[len(parts)-1]) {
		suffixes = append([]string{parts[len(parts)-1]}, suffixes...)
		parts = parts[:len(parts)-1]
	}

	if len(parts) == 1 {
		if len(suffixes) > 0 {
			return parts[0] + ", " + strings.Join(suffixes, ", ")
		}
		return parts[0]
	}

	surname := parts[len(parts)-1]
	given := parts[:len(parts)-1]

	var particles []string
	for len(given) > 0 && isParticle(given[len(given)-1]) {
		particles = append([]string{given[len(given)-1]}, particles...)
		given = given[:len(given)-1]
	}

	var b strings.Builder
	b.WriteString(surname)
	if rest := append(append([]string{}, given...), particles...); len(rest) > 0 {
		b.WriteString(", ")
		b.WriteString(strings.Join(rest, " "))
	}
	if len(suffixes) > 0 {
		b.WriteString(", ")
		b.WriteString(strings.Join(suffixes, ", "))
	}
	return b.String()
}

// DisplayName reverses a canonical "Last, First" name into "First Last".
func DisplayName(name string) string {
	last, first, ok := strings.Cut(name, ",")
	if !ok {
		return strings.TrimSpace(name)
	}
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	if first == "" {
		return last
	}
	return first + " " + last
}

func isPrefix(word string) bool {
	for _, prefix := range Prefixes {
		if strings.EqualFold(word, prefix) {
			return true
		}
	}
	return false
}

func isGenerationalSuffix(word string) bool {
	word = strings.TrimSuffix(word, ",")
	for _, suffix := range GenerationalSuffixes {
		if strings.EqualFold(word, suffix) {
			return true
		}
	}
	return false
}

func isParticle(word string) bool {
	for _, particle := range Particles {
		if strings.EqualFold(word, particle) {
			return true
		}
	}
	return false
}
