package works

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/database"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

// ForeignNationality matches authors whose nationality is anything but
// Finnish.
const ForeignNationality = "foreign"

// authorSubquery selects the works on which a person matching where is an
// author, directly or through a pseudonym.
func (svc *Service) authorSubquery(where string, args ...any) *bun.SelectQuery {
	return svc.db.NewSelect().
		TableExpr("parts AS pt").
		ColumnExpr("pt.work_id").
		Join("JOIN contributors AS c ON c.part_id = pt.id").
		Join("JOIN persons AS p ON p.id = c.person_id OR p.id = c.real_person_id").
		Where("c.role_id = ?", models.RoleAuthor).
		Where("pt.shortstory_id IS NULL").
		Where(where, args...)
}

// SearchWorks returns the works matching every given criterion ordered by
// author string and title.
func (svc *Service) SearchWorks(ctx context.Context, p SearchWorksPayload) ([]*models.Work, error) {
	var works []*models.Work
	q := svc.db.NewSelect().
		Model(&works).
		Relation("WorkType").
		Relation("Language").
		Relation("Bookseries").
		Relation("Genres")

	if p.Title != nil && *p.Title != "" {
		q = q.Where("w.title GLOB ?", database.GlobContains(*p.Title))
	}
	if p.OrigName != nil && *p.OrigName != "" {
		q = q.Where("w.orig_title GLOB ?", database.GlobContains(*p.OrigName))
	}
	if p.PubYearFirst != nil {
		q = q.Where("w.pubyear >= ?", *p.PubYearFirst)
	}
	if p.PubYearLast != nil {
		q = q.Where("w.pubyear <= ?", *p.PubYearLast)
	}
	if p.Type != nil {
		q = q.Where("w.type = ?", *p.Type)
	}
	if len(p.Genre) > 0 {
		q = q.Where("w.id IN (SELECT wg.work_id FROM work_genres AS wg WHERE wg.genre_id IN (?))", bun.In(p.Genre))
	}
	if p.PrintYearFirst != nil || p.PrintYearLast != nil || p.EditionNum != nil {
		eq := svc.db.NewSelect().
			TableExpr("parts AS pt").
			ColumnExpr("pt.work_id").
			Join("JOIN editions AS e ON e.id = pt.edition_id").
			Where("pt.shortstory_id IS NULL")
		if p.PrintYearFirst != nil {
			eq = eq.Where("e.pubyear >= ?", *p.PrintYearFirst)
		}
		if p.PrintYearLast != nil {
			eq = eq.Where("e.pubyear <= ?", *p.PrintYearLast)
		}
		if p.EditionNum != nil {
			eq = eq.Where("e.editionnum = ?", *p.EditionNum)
		}
		q = q.Where("w.id IN (?)", eq)
	}
	if p.Author != nil && *p.Author != "" {
		pattern := database.GlobContains(*p.Author)
		q = q.Where("w.id IN (?)", svc.authorSubquery("p.name GLOB ? OR p.alt_name GLOB ?", pattern, pattern))
	}
	if p.DobFirst != nil {
		q = q.Where("w.id IN (?)", svc.authorSubquery("p.dob >= ?", *p.DobFirst))
	}
	if p.DobLast != nil {
		q = q.Where("w.id IN (?)", svc.authorSubquery("p.dob <= ?", *p.DobLast))
	}
	if len(p.Nationality) > 0 {
		where, args, err := nationalityFilter(p.Nationality)
		if err != nil {
			return nil, err
		}
		q = q.Where("w.id IN (?)", svc.authorSubquery(where, args...))
	}

	if err := q.OrderExpr("w.author_str, w.title").Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	sortWorks(works)
	return works, nil
}

// nationalityFilter builds the person condition for a list of country ids
// and the foreign pseudo value.
func nationalityFilter(values []string) (string, []any, error) {
	var (
		conds []string
		args  []any
		ids   []int
	)
	for _, v := range values {
		if v == ForeignNationality {
			conds = append(conds, "(p.nationality_id IS NOT NULL AND p.nationality_id <> ?)")
			args = append(args, models.FinlandCountryID)
			continue
		}
		id, err := strconv.Atoi(v)
		if err != nil || id < 1 {
			return "", nil, errcodes.BadRequest("Tuntematon kansallisuus: " + v)
		}
		ids = append(ids, id)
	}
	if len(ids) > 0 {
		conds = append(conds, "p.nationality_id IN (?)")
		args = append(args, bun.In(ids))
	}
	return strings.Join(conds, " OR "), args, nil
}
