// Package awards serves prizes, their categories and the wins given to
// people, works and short stories.
package awards

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/changes"
	"github.com/suomisf/suomisf/pkg/database"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

const resource = "Palkinto"

// categoryTypes maps a target kind to the category type given to it.
var categoryTypes = map[models.AwardTargetKind]int{
	models.AwardTargetPerson: models.AwardCategoryPerson,
	models.AwardTargetWork:   models.AwardCategoryWork,
	models.AwardTargetStory:  models.AwardCategoryStory,
}

// CategoryType parses a target kind name as used in paths.
func CategoryType(name string) (int, bool) {
	switch strings.ToLower(name) {
	case "person", "people":
		return models.AwardCategoryPerson, true
	case "work", "works":
		return models.AwardCategoryWork, true
	case "story", "short", "shorts":
		return models.AwardCategoryStory, true
	}
	return 0, false
}

// AwardDetail is an award with its categories and winners.
type AwardDetail struct {
	*models.Award
	Winners []*models.Awarded `json:"winners"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) ListAwards(ctx context.Context) ([]*models.Award, error) {
	var awards []*models.Award
	if err := svc.db.NewSelect().Model(&awards).Order("aw.name").Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return awards, nil
}

func (svc *Service) RetrieveAward(ctx context.Context, id int) (*AwardDetail, error) {
	award := &models.Award{}
	err := svc.db.NewSelect().
		Model(award).
		Relation("Categories").
		Where("aw.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, errcodes.FromDB(err, resource)
	}

	detail := &AwardDetail{Award: award}
	err = winners(svc.db, &detail.Winners).
		Where("ad.award_id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return detail, nil
}

// AwardsForType lists the awards having at least one category of the given
// type.
func (svc *Service) AwardsForType(ctx context.Context, categoryType int) ([]*models.Award, error) {
	var awards []*models.Award
	err := svc.db.NewSelect().
		Model(&awards).
		Where("EXISTS (SELECT 1 FROM award_category_awards AS aca JOIN award_categories AS ac ON ac.id = aca.category_id WHERE aca.award_id = aw.id AND ac.type = ?)", categoryType).
		Order("aw.name").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return awards, nil
}

func (svc *Service) CategoriesForType(ctx context.Context, categoryType int) ([]*models.AwardCategory, error) {
	var categories []*models.AwardCategory
	err := svc.db.NewSelect().
		Model(&categories).
		Where("ac.type = ?", categoryType).
		Order("ac.name").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return categories, nil
}

func (svc *Service) CategoriesForAward(ctx context.Context, awardID int) ([]*models.AwardCategory, error) {
	exists, err := svc.db.NewSelect().Model((*models.Award)(nil)).Where("aw.id = ?", awardID).Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !exists {
		return nil, errcodes.NotFound(resource)
	}

	var categories []*models.AwardCategory
	err = svc.db.NewSelect().
		Model(&categories).
		Join("JOIN award_category_awards AS aca ON aca.category_id = ac.id").
		Where("aca.award_id = ?", awardID).
		Order("ac.id").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return categories, nil
}

func (svc *Service) FilterAwards(ctx context.Context, pattern string) ([]*models.Award, error) {
	var awards []*models.Award
	err := svc.db.NewSelect().
		Model(&awards).
		Where("aw.name GLOB ?", database.GlobContains(pattern)).
		Order("aw.name").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return awards, nil
}

func winners(db bun.IDB, dst *[]*models.Awarded) *bun.SelectQuery {
	return db.NewSelect().
		Model(dst).
		Relation("Award").
		Relation("Category").
		Relation("Person").
		Relation("Work").
		Relation("Story").
		OrderExpr("ad.year IS NULL, ad.year, ad.id")
}

// AwardedTo lists the wins given directly to target.
func (svc *Service) AwardedTo(ctx context.Context, target models.AwardTarget) ([]*models.Awarded, error) {
	if _, err := targetName(ctx, svc.db, target); err != nil {
		return nil, err
	}
	rows := []*models.Awarded{}
	err := winners(svc.db, &rows).
		Where("ad."+targetColumn(target.Kind)+" = ?", target.ID).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return rows, nil
}

// PersonAwards is the roll-up of a person: personal wins plus the wins of
// works and short stories the person wrote, under their own name or a
// pseudonym.
func (svc *Service) PersonAwards(ctx context.Context, personID int) ([]*models.Awarded, error) {
	if _, err := targetName(ctx, svc.db, models.AwardTarget{Kind: models.AwardTargetPerson, ID: personID}); err != nil {
		return nil, err
	}

	authored := func(column, storyCond string) *bun.SelectQuery {
		return svc.db.NewSelect().
			TableExpr("parts AS pt").
			Column("pt."+column).
			Join("JOIN contributors AS c ON c.part_id = pt.id").
			Where("c.role_id = ?", models.RoleAuthor).
			Where("(c.person_id = ? OR c.real_person_id = ?)", personID, personID).
			Where("pt." + column + " IS NOT NULL").
			Where("pt.shortstory_id " + storyCond)
	}

	rows := []*models.Awarded{}
	err := winners(svc.db, &rows).
		WhereOr("ad.person_id = ?", personID).
		WhereOr("ad.work_id IN (?)", authored("work_id", "IS NULL")).
		WhereOr("ad.story_id IN (?)", authored("shortstory_id", "IS NOT NULL")).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return rows, nil
}

// ReplaceAwards sets the wins of a work or person to list.
func (svc *Service) ReplaceAwards(ctx context.Context, target models.AwardTarget, list []Win) error {
	return database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		name, err := targetName(ctx, tx, target)
		if err != nil {
			return err
		}
		for _, w := range list {
			if err := checkCategory(ctx, tx, w, target.Kind); err != nil {
				return err
			}
		}

		var current []*models.Awarded
		err = tx.NewSelect().
			Model(&current).
			Where("ad."+targetColumn(target.Kind)+" = ?", target.ID).
			Scan(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if sameWins(current, list) {
			return nil
		}

		_, err = tx.NewDelete().
			Model((*models.Awarded)(nil)).
			Where(targetColumn(target.Kind)+" = ?", target.ID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		for _, w := range list {
			row := &models.Awarded{AwardID: w.AwardID, CategoryID: w.CategoryID, Year: w.Year}
			row.SetTarget(target)
			if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
				return errcodes.FromDB(err, resource)
			}
		}

		tr := &changes.Tracker{}
		tr.Touch("Palkinnot", "")
		return changes.LogUpdate(ctx, tx, logTables[target.Kind], target.ID, name, tr)
	})
}

// CreateAwarded adds one win. The payload must name exactly one target.
func (svc *Service) CreateAwarded(ctx context.Context, payload CreateAwardedPayload) (*models.Awarded, error) {
	row := &models.Awarded{
		AwardID:    payload.AwardID,
		CategoryID: payload.CategoryID,
		Year:       payload.Year,
		PersonID:   payload.PersonID,
		WorkID:     payload.WorkID,
		StoryID:    payload.StoryID,
	}
	target, ok := row.Target()
	if !ok {
		return nil, errcodes.BadRequest("Palkinnolla on oltava täsmälleen yksi saaja.")
	}

	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		name, err := targetName(ctx, tx, target)
		if err != nil {
			return err
		}
		if err := checkCategory(ctx, tx, payload.Win, target.Kind); err != nil {
			return err
		}
		if _, err := tx.NewInsert().Model(row).Returning("*").Exec(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}
		tr := &changes.Tracker{}
		tr.Touch("Palkinnot", "")
		return changes.LogUpdate(ctx, tx, logTables[target.Kind], target.ID, name, tr)
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

var logTables = map[models.AwardTargetKind]string{
	models.AwardTargetPerson: changes.TablePerson,
	models.AwardTargetWork:   changes.TableWork,
	models.AwardTargetStory:  changes.TableShort,
}

func targetColumn(kind models.AwardTargetKind) string {
	switch kind {
	case models.AwardTargetPerson:
		return "person_id"
	case models.AwardTargetWork:
		return "work_id"
	default:
		return "story_id"
	}
}

func targetName(ctx context.Context, db bun.IDB, target models.AwardTarget) (string, error) {
	var (
		q        *bun.SelectQuery
		resource string
	)
	switch target.Kind {
	case models.AwardTargetPerson:
		q = db.NewSelect().Model((*models.Person)(nil)).Column("p.name").Where("p.id = ?", target.ID)
		resource = "Henkilö"
	case models.AwardTargetWork:
		q = db.NewSelect().Model((*models.Work)(nil)).Column("w.title").Where("w.id = ?", target.ID)
		resource = "Teos"
	case models.AwardTargetStory:
		q = db.NewSelect().Model((*models.ShortStory)(nil)).Column("s.title").Where("s.id = ?", target.ID)
		resource = "Novelli"
	default:
		return "", errcodes.BadRequest(fmt.Sprintf("Tuntematon kohde %q.", target.Kind))
	}
	var name string
	if err := q.Scan(ctx, &name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", errcodes.NotFound(resource)
		}
		return "", errors.WithStack(err)
	}
	return name, nil
}

func checkCategory(ctx context.Context, db bun.IDB, w Win, kind models.AwardTargetKind) error {
	category := &models.AwardCategory{}
	err := db.NewSelect().
		Model(category).
		Join("JOIN award_category_awards AS aca ON aca.category_id = ac.id").
		Where("ac.id = ?", w.CategoryID).
		Where("aca.award_id = ?", w.AwardID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errcodes.NotFound("Palkintokategoria")
		}
		return errors.WithStack(err)
	}
	if category.Type != categoryTypes[kind] {
		return errcodes.BadRequest(fmt.Sprintf("Kategoria %s ei sovi kohteelle %s.", category.Name, kind))
	}
	return nil
}

func winKey(awardID, categoryID int, year *int) string {
	y := "-"
	if year != nil {
		y = fmt.Sprint(*year)
	}
	return fmt.Sprintf("%d/%d/%s", awardID, categoryID, y)
}

func sameWins(current []*models.Awarded, list []Win) bool {
	if len(current) != len(list) {
		return false
	}
	a := make([]string, 0, len(current))
	for _, r := range current {
		a = append(a, winKey(r.AwardID, r.CategoryID, r.Year))
	}
	b := make([]string, 0, len(list))
	for _, w := range list {
		b = append(b, winKey(w.AwardID, w.CategoryID, w.Year))
	}
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
