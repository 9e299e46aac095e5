package contributors

import (
	"context"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

// Saved holds the story contributions of short stories whose parts are about
// to be removed, keyed by story id.
type Saved map[int][]Contribution

// SaveShorts records the author, translator and subject contributions of
// every story carried by partIDs.
func SaveShorts(ctx context.Context, db bun.IDB, partIDs []int) (Saved, error) {
	if len(partIDs) == 0 {
		return Saved{}, nil
	}
	var shortIDs []int
	err := db.NewSelect().
		Model((*models.Part)(nil)).
		ColumnExpr("DISTINCT pt.shortstory_id").
		Where("pt.id IN (?)", bun.In(partIDs)).
		Where("pt.shortstory_id IS NOT NULL").
		Scan(ctx, &shortIDs)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return SaveShortsByID(ctx, db, shortIDs)
}

// SaveShortsByID is SaveShorts for the given stories.
func SaveShortsByID(ctx context.Context, db bun.IDB, shortIDs []int) (Saved, error) {
	saved := Saved{}
	if len(shortIDs) == 0 {
		return saved, nil
	}
	for _, id := range shortIDs {
		saved[id] = nil
	}
	var rows []struct {
		ShortstoryID int
		PersonID     int
		RoleID       int
		RealPersonID *int
		Description  *string
	}
	err := db.NewSelect().
		TableExpr("contributors AS c").
		ColumnExpr("pt.shortstory_id, c.person_id, c.role_id, c.real_person_id, c.description").
		Join("JOIN parts AS pt ON pt.id = c.part_id").
		Where("pt.shortstory_id IN (?)", bun.In(shortIDs)).
		Where("c.role_id IN (?)", bun.In(models.RolesFor(models.TargetShort))).
		Order("c.part_id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	for _, r := range rows {
		saved[r.ShortstoryID] = append(saved[r.ShortstoryID], Contribution{
			PersonID:     r.PersonID,
			RoleID:       r.RoleID,
			RealPersonID: r.RealPersonID,
			Description:  r.Description,
		})
	}
	for id, list := range saved {
		saved[id] = dedupe(list)
	}
	return saved, nil
}

// DeleteParts removes partIDs and every contribution anchored on them.
func DeleteParts(ctx context.Context, db bun.IDB, partIDs []int) error {
	if len(partIDs) == 0 {
		return nil
	}
	if _, err := db.NewDelete().
		Model((*models.Contributor)(nil)).
		Where("part_id IN (?)", bun.In(partIDs)).
		Exec(ctx); err != nil {
		return errors.WithStack(err)
	}
	_, err := db.NewDelete().
		Model((*models.Part)(nil)).
		Where("id IN (?)", bun.In(partIDs)).
		Exec(ctx)
	return errors.WithStack(err)
}

// RehomeOrphans gives every saved story that no longer has any part a
// synthetic part holding its saved contributions. It returns the ids of
// the stories that were rehomed.
func RehomeOrphans(ctx context.Context, db bun.IDB, saved Saved) ([]int, error) {
	var rehomed []int
	for shortID, list := range saved {
		exists, err := db.NewSelect().
			Model((*models.Part)(nil)).
			Where("pt.shortstory_id = ?", shortID).
			Exists(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if exists {
			continue
		}
		id := shortID
		part := &models.Part{ShortstoryID: &id}
		if _, err := db.NewInsert().Model(part).Exec(ctx); err != nil {
			return nil, errors.WithStack(err)
		}
		if _, err := insertOnParts(ctx, db, []int{part.ID}, list); err != nil {
			return nil, err
		}
		rehomed = append(rehomed, shortID)
	}
	return rehomed, nil
}

// Restore puts the saved contributions of shortID on partIDs.
func (s Saved) Restore(ctx context.Context, db bun.IDB, shortID int, partIDs []int) error {
	_, err := insertOnParts(ctx, db, partIDs, s[shortID])
	return err
}
