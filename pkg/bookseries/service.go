package bookseries

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/changes"
	"github.com/suomisf/suomisf/pkg/database"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

const resource = "Kirjasarja"

// seriesOrder is the reading order of works in a book series.
const seriesOrder = "w.bookseriesorder IS NULL, w.bookseriesorder, w.pubyear IS NULL, w.pubyear, w.id"

type ListBookseriesOptions struct {
	Search *string
}

// BookseriesRow is one series of the series list.
type BookseriesRow struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	OrigName  *string `json:"orig_name"`
	Important bool    `json:"important"`
	WorkCount int     `json:"work_count"`
}

// BookseriesDetail is a series with its works in reading order.
type BookseriesDetail struct {
	*models.Bookseries
	Works []*models.Work `json:"works"`
}

// Neighbors are the works before and after a work in its series.
type Neighbors struct {
	Prev *int `json:"bookseries_prev"`
	Next *int `json:"bookseries_next"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateBookseries(ctx context.Context, payload CreateBookseriesPayload) (*models.Bookseries, error) {
	series := &models.Bookseries{
		Name:      payload.Name,
		OrigName:  payload.OrigName,
		Important: payload.Important,
	}
	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(series).Returning("*").Exec(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}
		return changes.LogCreate(ctx, tx, changes.TableBookseries, series.ID, series.Name)
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}

func (svc *Service) RetrieveBookseries(ctx context.Context, id int) (*BookseriesDetail, error) {
	series := &models.Bookseries{}
	err := svc.db.NewSelect().Model(series).Where("bs.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound(resource)
		}
		return nil, errors.WithStack(err)
	}

	detail := &BookseriesDetail{Bookseries: series}
	err = svc.db.NewSelect().
		Model(&detail.Works).
		Relation("Genres").
		Where("w.bookseries_id = ?", id).
		OrderExpr(seriesOrder).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return detail, nil
}

func (svc *Service) ListBookseries(ctx context.Context, opts ListBookseriesOptions) ([]*BookseriesRow, error) {
	var rows []*BookseriesRow

	q := svc.db.
		NewSelect().
		Model((*models.Bookseries)(nil)).
		Column("bs.id", "bs.name", "bs.orig_name", "bs.important").
		ColumnExpr("(SELECT COUNT(*) FROM works AS w WHERE w.bookseries_id = bs.id) AS work_count").
		Order("bs.name ASC")

	if opts.Search != nil && *opts.Search != "" {
		q = q.Where("bs.name GLOB ?", database.GlobContains(*opts.Search))
	}

	if err := q.Scan(ctx, &rows); err != nil {
		return nil, errors.WithStack(err)
	}
	return rows, nil
}

func (svc *Service) UpdateBookseries(ctx context.Context, payload UpdateBookseriesPayload) (*models.Bookseries, error) {
	series := &models.Bookseries{}
	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(series).Where("bs.id = ?", payload.ID).Scan(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}

		tr := &changes.Tracker{}
		changes.Set(tr, "name", "Nimi", &series.Name, payload.Name)
		changes.SetPtr(tr, "orig_name", "Alkuperäinen nimi", &series.OrigName, payload.OrigName)
		changes.Set(tr, "important", "Tärkeä", &series.Important, payload.Important)

		if cols := tr.Columns(); len(cols) > 0 {
			_, err := tx.NewUpdate().Model(series).Column(cols...).WherePK().Exec(ctx)
			if err != nil {
				return errcodes.FromDB(err, resource)
			}
		}
		return changes.LogUpdate(ctx, tx, changes.TableBookseries, series.ID, series.Name, tr)
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}

// DeleteBookseries removes a series without works.
func (svc *Service) DeleteBookseries(ctx context.Context, id int) error {
	return database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		series := &models.Bookseries{}
		if err := tx.NewSelect().Model(series).Where("bs.id = ?", id).Scan(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}
		used, err := tx.NewSelect().Model((*models.Work)(nil)).Where("bookseries_id = ?", id).Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if used {
			return errcodes.UnprocessableEntity("Kirjasarjassa on teoksia, sitä ei voi poistaa.")
		}
		if _, err := tx.NewDelete().Model((*models.UserBookseries)(nil)).Where("series_id = ?", id).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		if _, err := tx.NewDelete().Model((*models.Bookseries)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		return changes.LogDelete(ctx, tx, changes.TableBookseries, id, series.Name)
	})
}

// MergeBookseries moves every work of source into target and removes source.
func (svc *Service) MergeBookseries(ctx context.Context, targetID, sourceID int) error {
	if targetID == sourceID {
		return errcodes.BadRequest("Kirjasarjaa ei voi yhdistää itseensä.")
	}
	return database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		var target, source models.Bookseries
		if err := tx.NewSelect().Model(&target).Where("bs.id = ?", targetID).Scan(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}
		if err := tx.NewSelect().Model(&source).Where("bs.id = ?", sourceID).Scan(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}

		_, err := tx.NewUpdate().
			Model((*models.Work)(nil)).
			Set("bookseries_id = ?", targetID).
			Where("bookseries_id = ?", sourceID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = tx.NewRaw(
			"INSERT OR IGNORE INTO user_bookseries (user_id, series_id) SELECT user_id, ? FROM user_bookseries WHERE series_id = ?",
			targetID, sourceID,
		).Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if _, err := tx.NewDelete().Model((*models.UserBookseries)(nil)).Where("series_id = ?", sourceID).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		if _, err := tx.NewDelete().Model((*models.Bookseries)(nil)).Where("id = ?", sourceID).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		return changes.LogDelete(ctx, tx, changes.TableBookseries, sourceID, source.Name)
	})
}

// NeighborsOf returns the ids of the works before and after workID in its
// book series. The ends of the series have no neighbor on that side.
func NeighborsOf(ctx context.Context, db bun.IDB, work *models.Work) (Neighbors, error) {
	var n Neighbors
	if work.BookseriesID == nil {
		return n, nil
	}
	var ids []int
	err := db.NewSelect().
		Model((*models.Work)(nil)).
		Column("w.id").
		Where("w.bookseries_id = ?", *work.BookseriesID).
		OrderExpr(seriesOrder).
		Scan(ctx, &ids)
	if err != nil {
		return n, errors.WithStack(err)
	}
	for i, id := range ids {
		if id != work.ID {
			continue
		}
		if i > 0 {
			prev := ids[i-1]
			n.Prev = &prev
		}
		if i < len(ids)-1 {
			next := ids[i+1]
			n.Next = &next
		}
		break
	}
	return n, nil
}
