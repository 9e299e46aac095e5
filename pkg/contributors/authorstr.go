package contributors

import (
	"context"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/suomisf/suomisf/pkg/sortname"
	"github.com/uptrace/bun"
)

const editorSuffix = " (toim.)"

// Recompute refreshes the derived author strings touched by a change to
// target's contributions.
func Recompute(ctx context.Context, db bun.IDB, target Target) error {
	switch target.Kind {
	case models.TargetWork:
		_, err := RecomputeWork(ctx, db, target.ID)
		return err
	case models.TargetShort:
		_, err := RecomputeShort(ctx, db, target.ID)
		return err
	case models.TargetEdition:
		var workIDs []int
		err := db.NewSelect().
			Model((*models.Part)(nil)).
			ColumnExpr("DISTINCT pt.work_id").
			Where("pt.edition_id = ?", target.ID).
			Where("pt.work_id IS NOT NULL").
			Where("pt.shortstory_id IS NULL").
			Scan(ctx, &workIDs)
		if err != nil {
			return errors.WithStack(err)
		}
		for _, id := range workIDs {
			if _, err := RecomputeWork(ctx, db, id); err != nil {
				return err
			}
		}
	}
	return nil
}

// FirstEditionID returns the edition of workID with the lowest publication
// year, then version, then edition number, then id. Unknown values sort
// last. ok is false when the work has no edition.
func FirstEditionID(ctx context.Context, db bun.IDB, workID int) (id int, ok bool, err error) {
	var ids []int
	err = db.NewSelect().
		Model((*models.Edition)(nil)).
		Column("e.id").
		Join("JOIN parts AS pt ON pt.edition_id = e.id").
		Where("pt.work_id = ?", workID).
		Where("pt.shortstory_id IS NULL").
		OrderExpr("e.pubyear IS NULL, e.pubyear").
		OrderExpr("e.version IS NULL, e.version").
		OrderExpr("e.editionnum IS NULL, e.editionnum").
		OrderExpr("e.id").
		Limit(1).
		Scan(ctx, &ids)
	if err != nil {
		return 0, false, errors.WithStack(err)
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[0], true, nil
}

func names(ctx context.Context, q *bun.SelectQuery) ([]string, error) {
	var out []string
	if err := q.Scan(ctx, &out); err != nil {
		return nil, errors.WithStack(err)
	}
	return out, nil
}

// WorkAuthorString computes the author string of a work: its authors
// joined with " & ", or the editors of its first edition followed by
// " (toim.)", or "" when neither exist.
func WorkAuthorString(ctx context.Context, db bun.IDB, workID int) (string, error) {
	authors, err := names(ctx, db.NewSelect().
		Model((*models.Contributor)(nil)).
		ColumnExpr("DISTINCT p.name").
		Join("JOIN parts AS pt ON pt.id = c.part_id").
		Join("JOIN persons AS p ON p.id = c.person_id").
		Where("pt.work_id = ?", workID).
		Where("pt.shortstory_id IS NULL").
		Where("c.role_id = ?", models.RoleAuthor))
	if err != nil {
		return "", err
	}
	if len(authors) > 0 {
		return sortname.JoinAuthors(authors), nil
	}

	editionID, ok, err := FirstEditionID(ctx, db, workID)
	if err != nil || !ok {
		return "", err
	}
	editors, err := names(ctx, db.NewSelect().
		Model((*models.Contributor)(nil)).
		ColumnExpr("DISTINCT p.name").
		Join("JOIN parts AS pt ON pt.id = c.part_id").
		Join("JOIN persons AS p ON p.id = c.person_id").
		Where("pt.work_id = ?", workID).
		Where("pt.edition_id = ?", editionID).
		Where("pt.shortstory_id IS NULL").
		Where("c.role_id = ?", models.RoleEditor))
	if err != nil {
		return "", err
	}
	if len(editors) == 0 {
		return "", nil
	}
	return sortname.JoinAuthors(editors) + editorSuffix, nil
}

// ShortAuthorString computes the author string of a short story.
func ShortAuthorString(ctx context.Context, db bun.IDB, shortID int) (string, error) {
	authors, err := names(ctx, db.NewSelect().
		Model((*models.Contributor)(nil)).
		ColumnExpr("DISTINCT p.name").
		Join("JOIN parts AS pt ON pt.id = c.part_id").
		Join("JOIN persons AS p ON p.id = c.person_id").
		Where("pt.shortstory_id = ?", shortID).
		Where("c.role_id = ?", models.RoleAuthor))
	if err != nil {
		return "", err
	}
	return sortname.JoinAuthors(authors), nil
}

// RecomputeWork stores the current author string of workID.
func RecomputeWork(ctx context.Context, db bun.IDB, workID int) (string, error) {
	s, err := WorkAuthorString(ctx, db, workID)
	if err != nil {
		return "", err
	}
	_, err = db.NewUpdate().
		Model((*models.Work)(nil)).
		Set("author_str = ?", s).
		Where("id = ?", workID).
		Exec(ctx)
	return s, errors.WithStack(err)
}

// RecomputeShort stores the current author string of shortID.
func RecomputeShort(ctx context.Context, db bun.IDB, shortID int) (string, error) {
	s, err := ShortAuthorString(ctx, db, shortID)
	if err != nil {
		return "", err
	}
	_, err = db.NewUpdate().
		Model((*models.ShortStory)(nil)).
		Set("author_str = ?", s).
		Where("id = ?", shortID).
		Exec(ctx)
	return s, errors.WithStack(err)
}

// RecomputeForPerson refreshes every author string the person appears in,
// used after a rename.
func RecomputeForPerson(ctx context.Context, db bun.IDB, personID int) error {
	var parts []*models.Part
	err := db.NewSelect().
		Model(&parts).
		ColumnExpr("pt.work_id, pt.shortstory_id").
		Join("JOIN contributors AS c ON c.part_id = pt.id").
		Where("c.person_id = ?", personID).
		Where("c.role_id IN (?)", bun.In([]int{models.RoleAuthor, models.RoleEditor})).
		Scan(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	works := map[int]struct{}{}
	shorts := map[int]struct{}{}
	for _, p := range parts {
		if p.ShortstoryID != nil {
			shorts[*p.ShortstoryID] = struct{}{}
		} else if p.WorkID != nil {
			works[*p.WorkID] = struct{}{}
		}
	}
	for id := range works {
		if _, err := RecomputeWork(ctx, db, id); err != nil {
			return err
		}
	}
	for id := range shorts {
		if _, err := RecomputeShort(ctx, db, id); err != nil {
			return err
		}
	}
	return nil
}
