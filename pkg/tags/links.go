package tags

import (
	"context"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/changes"
	"github.com/suomisf/suomisf/pkg/database"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

// fieldLabel is the audit log field name of tag changes.
const fieldLabel = "Asiasanat"

// Link describes one join table tying tags to an entity.
type Link struct {
	Kind     string
	table    string
	column   string
	owner    string
	resource string
	logTable string
	nameExpr string
}

const (
	KindWork    = "work"
	KindShort   = "story"
	KindPerson  = "person"
	KindIssue   = "issue"
	KindArticle = "article"
)

var links = []Link{
	{KindWork, "work_tags", "work_id", "works", "Teos", changes.TableWork, "title"},
	{KindShort, "story_tags", "shortstory_id", "shortstories", "Novelli", changes.TableShort, "title"},
	{KindPerson, "person_tags", "person_id", "persons", "Henkilö", changes.TablePerson, "name"},
	{KindIssue, "issue_tags", "issue_id", "issues", "Irtonumero", changes.TableIssue, "COALESCE(cover_number, title, CAST(id AS TEXT))"},
	{KindArticle, "article_tags", "article_id", "articles", "Artikkeli", changes.TableArticle, "title"},
}

// LinkFor returns the link of kind.
func LinkFor(kind string) (Link, bool) {
	for _, l := range links {
		if l.Kind == kind {
			return l, true
		}
	}
	return Link{}, false
}

func (l Link) ownerName(ctx context.Context, db bun.IDB, id int) (string, error) {
	var names []string
	err := db.NewSelect().
		TableExpr(l.owner).
		ColumnExpr(l.nameExpr).
		Where("id = ?", id).
		Scan(ctx, &names)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if len(names) == 0 {
		return "", errcodes.NotFound(l.resource)
	}
	return names[0], nil
}

// Attach tags the entity. It reports whether the tag was newly added.
func (svc *Service) Attach(ctx context.Context, l Link, ownerID, tagID int) (bool, error) {
	var added bool
	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		name, err := l.ownerName(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		tag := &models.Tag{}
		if err := tx.NewSelect().Model(tag).Where("t.id = ?", tagID).Scan(ctx); err != nil {
			return errcodes.FromDB(err, "Asiasana")
		}

		res, err := tx.NewRaw(
			"INSERT INTO "+l.table+" ("+l.column+", tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
			ownerID, tagID,
		).Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return nil
		}
		added = true

		tr := &changes.Tracker{}
		tr.Touch(fieldLabel, "")
		return changes.LogUpdate(ctx, tx, l.logTable, ownerID, name, tr)
	})
	return added, err
}

// Detach removes the tag from the entity.
func (svc *Service) Detach(ctx context.Context, l Link, ownerID, tagID int) error {
	return database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		name, err := l.ownerName(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		tag := &models.Tag{}
		if err := tx.NewSelect().Model(tag).Where("t.id = ?", tagID).Scan(ctx); err != nil {
			return errcodes.FromDB(err, "Asiasana")
		}

		res, err := tx.NewRaw(
			"DELETE FROM "+l.table+" WHERE "+l.column+" = ? AND tag_id = ?",
			ownerID, tagID,
		).Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errcodes.NotFound("Asiasana")
		}

		tr := &changes.Tracker{}
		tr.Touch(fieldLabel, tag.Name)
		return changes.LogUpdate(ctx, tx, l.logTable, ownerID, name, tr)
	})
}

// TagsOf returns the tags of one entity ordered by name.
func (svc *Service) TagsOf(ctx context.Context, l Link, ownerID int) ([]*models.Tag, error) {
	if _, err := l.ownerName(ctx, svc.db, ownerID); err != nil {
		return nil, err
	}
	var tags []*models.Tag
	err := svc.db.NewSelect().
		Model(&tags).
		Relation("Type").
		Join("JOIN "+l.table+" AS lnk ON lnk.tag_id = t.id").
		Where("lnk."+l.column+" = ?", ownerID).
		Order("t.name").
		Scan(ctx)
	return tags, errors.WithStack(err)
}

// Replace sets the tags of one entity to tagIDs inside the caller's
// transaction. It reports whether the set changed.
func Replace(ctx context.Context, db bun.IDB, kind string, ownerID int, tagIDs []int) (bool, error) {
	l, ok := LinkFor(kind)
	if !ok {
		return false, errcodes.BadRequest("Tuntematon kohde: " + kind)
	}
	var current []int
	err := db.NewSelect().
		TableExpr(l.table).
		Column("tag_id").
		Where(l.column+" = ?", ownerID).
		Order("tag_id").
		Scan(ctx, &current)
	if err != nil {
		return false, errors.WithStack(err)
	}
	want := map[int]struct{}{}
	for _, id := range tagIDs {
		want[id] = struct{}{}
	}
	if len(want) == len(current) {
		same := true
		for _, id := range current {
			if _, ok := want[id]; !ok {
				same = false
				break
			}
		}
		if same {
			return false, nil
		}
	}

	if _, err := db.NewRaw("DELETE FROM "+l.table+" WHERE "+l.column+" = ?", ownerID).Exec(ctx); err != nil {
		return false, errors.WithStack(err)
	}
	for id := range want {
		_, err := db.NewRaw("INSERT INTO "+l.table+" ("+l.column+", tag_id) VALUES (?, ?)", ownerID, id).Exec(ctx)
		if err != nil {
			return false, errcodes.FromDB(err, "Asiasana")
		}
	}
	return true, nil
}
