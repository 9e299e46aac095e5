// Package links stores the external web links of works, editions, people
// and publishers.
package links

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Link is one external link with an optional description.
type Link struct {
	Link        string  `json:"link" mod:"trim" validate:"required,url,max=500"`
	Description *string `json:"description" mod:"trim,sanitize" validate:"omitempty,max=200"`
}

// Owner names a link table and its owner column.
type Owner struct {
	Table  string
	Column string
}

var (
	Work      = Owner{"work_links", "work_id"}
	Edition   = Owner{"edition_links", "edition_id"}
	Person    = Owner{"person_links", "person_id"}
	Publisher = Owner{"publisher_links", "publisher_id"}
)

// All lists every link table.
var All = []Owner{Work, Edition, Person, Publisher}

// List returns the links of one owner in insertion order.
func List(ctx context.Context, db bun.IDB, o Owner, id int) ([]Link, error) {
	var out []Link
	err := db.NewSelect().
		TableExpr(o.Table).
		Column("link", "description").
		Where(o.Column+" = ?", id).
		Order("id").
		Scan(ctx, &out)
	return out, errors.WithStack(err)
}

// Replace sets the links of one owner. It reports whether they changed.
func Replace(ctx context.Context, db bun.IDB, o Owner, id int, list []Link) (bool, error) {
	current, err := List(ctx, db, o, id)
	if err != nil {
		return false, err
	}
	if equal(current, list) {
		return false, nil
	}
	if _, err := db.NewRaw("DELETE FROM "+o.Table+" WHERE "+o.Column+" = ?", id).Exec(ctx); err != nil {
		return false, errors.WithStack(err)
	}
	for _, l := range list {
		_, err := db.NewRaw(
			"INSERT INTO "+o.Table+" ("+o.Column+", link, description) VALUES (?, ?, ?)",
			id, l.Link, l.Description,
		).Exec(ctx)
		if err != nil {
			return false, errors.WithStack(err)
		}
	}
	return true, nil
}

// Delete removes every link of one owner.
func Delete(ctx context.Context, db bun.IDB, o Owner, id int) error {
	_, err := db.NewRaw("DELETE FROM "+o.Table+" WHERE "+o.Column+" = ?", id).Exec(ctx)
	return errors.WithStack(err)
}

func equal(a, b []Link) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Link != b[i].Link || deref(a[i].Description) != deref(b[i].Description) {
			return false
		}
	}
	return true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
