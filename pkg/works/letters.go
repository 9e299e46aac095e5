package works

import (
	"context"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/suomisf/suomisf/pkg/sortname"
	"github.com/uptrace/bun"
)

// OtherLetter is the bucket of names that do not start with a letter.
const OtherLetter = "#"

// LetterBucket is the page of works whose author string starts with Letter.
type LetterBucket struct {
	Letter   string         `json:"letter"`
	Previous *string        `json:"previous"`
	Next     *string        `json:"next"`
	Works    []*models.Work `json:"works"`
	Genres   map[string]int `json:"genres"`
}

// Bucket returns the letter a name is listed under.
func Bucket(name string) string {
	initial := sortname.Initial(name)
	r, _ := utf8.DecodeRuneInString(initial)
	if initial == "" || !unicode.IsLetter(r) {
		return OtherLetter
	}
	return initial
}

// sortLetters orders letters in Finnish collation with the other bucket
// first.
func sortLetters(letters []string) {
	sortname.Sort(letters)
	sort.SliceStable(letters, func(i, j int) bool {
		return letters[i] == OtherLetter && letters[j] != OtherLetter
	})
}

type authorRow struct {
	ID        int
	AuthorStr string
}

func (svc *Service) authorRows(ctx context.Context, model any) ([]authorRow, error) {
	var rows []authorRow
	err := svc.db.NewSelect().
		Model(model).
		Column("id", "author_str").
		Scan(ctx, &rows)
	return rows, errors.WithStack(err)
}

// ByInitial returns the works listed under letter together with the
// neighboring letters and a genre summary of the bucket.
func (svc *Service) ByInitial(ctx context.Context, letter string) (*LetterBucket, error) {
	letter = Bucket(letter)
	rows, err := svc.authorRows(ctx, (*models.Work)(nil))
	if err != nil {
		return nil, err
	}

	var ids []int
	seen := map[string]struct{}{letter: {}}
	letters := []string{letter}
	for _, r := range rows {
		b := Bucket(r.AuthorStr)
		if b == letter {
			ids = append(ids, r.ID)
		}
		if _, ok := seen[b]; !ok {
			seen[b] = struct{}{}
			letters = append(letters, b)
		}
	}
	sortLetters(letters)

	bucket := &LetterBucket{Letter: letter, Works: []*models.Work{}, Genres: map[string]int{}}
	for i, l := range letters {
		if l != letter {
			continue
		}
		if i > 0 {
			prev := letters[i-1]
			bucket.Previous = &prev
		}
		if i < len(letters)-1 {
			next := letters[i+1]
			bucket.Next = &next
		}
	}
	if len(ids) == 0 {
		return bucket, nil
	}

	var works []*models.Work
	err = svc.db.NewSelect().
		Model(&works).
		Relation("Genres").
		Relation("WorkType").
		Relation("Bookseries").
		Where("w.id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	sortWorks(works)
	bucket.Works = works
	for _, w := range works {
		for _, g := range w.Genres {
			bucket.Genres[g.Abbr]++
		}
	}
	return bucket, nil
}

// sortWorks orders works by author string and title in Finnish collation.
func sortWorks(works []*models.Work) {
	sort.SliceStable(works, func(i, j int) bool {
		if c := sortname.Compare(works[i].AuthorStr, works[j].AuthorStr); c != 0 {
			return c < 0
		}
		return sortname.Less(works[i].Title, works[j].Title)
	})
}

// LetterVector counts the works or stories listed under every letter.
func (svc *Service) LetterVector(ctx context.Context, target string) (map[string]int, error) {
	var model any
	switch target {
	case "works":
		model = (*models.Work)(nil)
	case "stories":
		model = (*models.ShortStory)(nil)
	default:
		return nil, errcodes.BadRequest("Tuntematon kohde: " + target)
	}
	rows, err := svc.authorRows(ctx, model)
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, r := range rows {
		counts[Bucket(r.AuthorStr)]++
	}
	return counts, nil
}
