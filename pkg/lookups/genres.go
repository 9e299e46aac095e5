package lookups

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

// GenreOwner names a genre join table and its owner column.
type GenreOwner struct {
	Table  string
	Column string
}

var (
	WorkGenres  = GenreOwner{"work_genres", "work_id"}
	StoryGenres = GenreOwner{"story_genres", "shortstory_id"}
)

// ReplaceGenres sets the genres of one owner and reports whether the set
// changed. Unknown genre ids are NOT_FOUND.
func ReplaceGenres(ctx context.Context, db bun.IDB, o GenreOwner, ownerID int, genreIDs []int) (bool, error) {
	var current []int
	err := db.NewSelect().
		TableExpr(o.Table).
		Column("genre_id").
		Where(o.Column+" = ?", ownerID).
		Order("genre_id").
		Scan(ctx, &current)
	if err != nil {
		return false, errors.WithStack(err)
	}

	seen := map[int]struct{}{}
	want := make([]int, 0, len(genreIDs))
	for _, id := range genreIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		want = append(want, id)
	}
	sort.Ints(want)
	if equalInts(current, want) {
		return false, nil
	}

	if len(want) > 0 {
		n, err := db.NewSelect().Model((*models.Genre)(nil)).Where("g.id IN (?)", bun.In(want)).Count(ctx)
		if err != nil {
			return false, errors.WithStack(err)
		}
		if n != len(want) {
			return false, errcodes.NotFound("Genre")
		}
	}
	if _, err := db.NewRaw("DELETE FROM "+o.Table+" WHERE "+o.Column+" = ?", ownerID).Exec(ctx); err != nil {
		return false, errors.WithStack(err)
	}
	for _, id := range want {
		_, err := db.NewRaw("INSERT INTO "+o.Table+" ("+o.Column+", genre_id) VALUES (?, ?)", ownerID, id).Exec(ctx)
		if err != nil {
			return false, errors.WithStack(err)
		}
	}
	return true, nil
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
