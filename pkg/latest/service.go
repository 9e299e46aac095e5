// Package latest lists the most recently added catalog rows.
package latest

import (
	"context"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

// MaxCount bounds n on every latest query.
const MaxCount = 100

// EditionBrief is an edition with the work it prints.
type EditionBrief struct {
	*models.Edition
	Work *WorkBrief `json:"work"`
}

type WorkBrief struct {
	ID        int    `bun:"work_id" json:"id"`
	Title     string `bun:"title" json:"title"`
	AuthorStr string `bun:"author_str" json:"author_str"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// newest returns the n rows of T with the highest ids, newest first.
func newest[T any](ctx context.Context, db bun.IDB, n int, idColumn string, relations ...string) ([]*T, error) {
	rows := []*T{}
	if n <= 0 {
		return rows, nil
	}
	q := db.NewSelect().Model(&rows)
	for _, r := range relations {
		q = q.Relation(r)
	}
	err := q.OrderExpr(idColumn + " DESC").Limit(min(n, MaxCount)).Scan(ctx)
	return rows, errors.WithStack(err)
}

func (svc *Service) Covers(ctx context.Context, n int) ([]*models.EditionImage, error) {
	return newest[models.EditionImage](ctx, svc.db, n, "ei.id")
}

func (svc *Service) Works(ctx context.Context, n int) ([]*models.Work, error) {
	return newest[models.Work](ctx, svc.db, n, "w.id", "WorkType")
}

func (svc *Service) People(ctx context.Context, n int) ([]*models.Person, error) {
	return newest[models.Person](ctx, svc.db, n, "p.id", "Nationality")
}

func (svc *Service) Shorts(ctx context.Context, n int) ([]*models.ShortStory, error) {
	return newest[models.ShortStory](ctx, svc.db, n, "s.id", "Type")
}

func (svc *Service) Editions(ctx context.Context, n int) ([]*EditionBrief, error) {
	editions, err := newest[models.Edition](ctx, svc.db, n, "e.id", "Publisher")
	if err != nil {
		return nil, err
	}
	return svc.withWorks(ctx, editions)
}

// EditionsOfDistinctWorks returns the newest edition of each of the n works
// whose newest edition is the most recent.
func (svc *Service) EditionsOfDistinctWorks(ctx context.Context, n int) ([]*EditionBrief, error) {
	editions := []*models.Edition{}
	if n <= 0 {
		return []*EditionBrief{}, nil
	}
	newestPerWork := svc.db.NewSelect().
		TableExpr("parts AS pt").
		ColumnExpr("MAX(pt.edition_id)").
		Where("pt.work_id IS NOT NULL AND pt.edition_id IS NOT NULL AND pt.shortstory_id IS NULL").
		Group("pt.work_id")
	err := svc.db.NewSelect().
		Model(&editions).
		Relation("Publisher").
		Relation("Images").
		Where("e.id IN (?)", newestPerWork).
		OrderExpr("e.id DESC").
		Limit(min(n, MaxCount)).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return svc.withWorks(ctx, editions)
}

// withWorks pairs every edition with the first work it prints.
func (svc *Service) withWorks(ctx context.Context, editions []*models.Edition) ([]*EditionBrief, error) {
	out := make([]*EditionBrief, 0, len(editions))
	if len(editions) == 0 {
		return out, nil
	}
	ids := make([]int, 0, len(editions))
	for _, e := range editions {
		ids = append(ids, e.ID)
	}

	var rows []struct {
		EditionID int `bun:"edition_id"`
		WorkBrief
	}
	err := svc.db.NewSelect().
		TableExpr("parts AS pt").
		Join("JOIN works AS w ON w.id = pt.work_id").
		ColumnExpr("pt.edition_id, w.id AS work_id, w.title, w.author_str").
		Where("pt.edition_id IN (?)", bun.In(ids)).
		Where("pt.shortstory_id IS NULL").
		OrderExpr("pt.id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	works := make(map[int]*WorkBrief, len(rows))
	for i := range rows {
		if _, ok := works[rows[i].EditionID]; !ok {
			works[rows[i].EditionID] = &rows[i].WorkBrief
		}
	}

	for _, e := range editions {
		out = append(out, &EditionBrief{Edition: e, Work: works[e.ID]})
	}
	return out, nil
}
