// Package filter serves the substring pickers the editing forms use: given a
// kind and a pattern it returns matching {id, text} pairs.
package filter

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/database"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/links"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/suomisf/suomisf/pkg/sortname"
	"github.com/uptrace/bun"
)

// MinPatternLength is the shortest pattern that is matched at all.
const MinPatternLength = 2

// KindLinkNames matches link descriptions instead of a named table.
const KindLinkNames = "linknames"

// sources maps a filter kind to the table whose name column is matched.
var sources = map[string]string{
	"people":     "persons",
	"tags":       "tags",
	"publishers": "publishers",
	"countries":  "countries",
	"languages":  "languages",
	"bookseries": "bookseries",
	"pubseries":  "pubseries",
	"magazines":  "magazines",
	"awards":     "awards",
}

// Kinds lists every supported filter kind.
func Kinds() []string {
	kinds := []string{KindLinkNames}
	for k := range sources {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// Filter returns the rows of kind whose name contains pattern, ignoring
// case, in Finnish name order. Patterns shorter than MinPatternLength match
// nothing.
func (svc *Service) Filter(ctx context.Context, kind, pattern string) ([]models.Brief, error) {
	if kind != KindLinkNames {
		if _, ok := sources[kind]; !ok {
			return nil, errcodes.BadRequest("Tuntematon suodatin: " + kind + ".")
		}
	}
	if len([]rune(pattern)) < MinPatternLength {
		return []models.Brief{}, nil
	}
	glob := database.GlobContains(pattern)

	if kind == KindLinkNames {
		return svc.linkNames(ctx, glob)
	}

	out := []models.Brief{}
	err := svc.db.NewSelect().
		TableExpr(sources[kind]).
		ColumnExpr("id, name AS text").
		Where("name GLOB ?", glob).
		Order("name").
		Scan(ctx, &out)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return sortname.Less(out[i].Text, out[j].Text)
	})
	return out, nil
}

// linkNames returns the distinct link descriptions of every link table. The
// ids number the descriptions in result order.
func (svc *Service) linkNames(ctx context.Context, glob string) ([]models.Brief, error) {
	seen := map[string]struct{}{}
	var names []string
	for _, o := range links.All {
		var found []string
		err := svc.db.NewSelect().
			TableExpr(o.Table).
			ColumnExpr("DISTINCT description").
			Where("description IS NOT NULL AND description GLOB ?", glob).
			Scan(ctx, &found)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		for _, name := range found {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sortname.Sort(names)

	out := make([]models.Brief, 0, len(names))
	for i, name := range names {
		out = append(out, models.Brief{ID: i + 1, Text: name})
	}
	return out, nil
}
