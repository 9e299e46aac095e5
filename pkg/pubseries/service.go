package pubseries

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

const resource = "Kustantajan sarja"

type ListPubseriesOptions struct {
	Search      *string
	PublisherID *int
}

// PubseriesRow is one series of the series list.
type PubseriesRow struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Important     bool   `json:"important"`
	PublisherID   int    `json:"publisher_id"`
	PublisherName string `json:"publisher_name"`
	EditionCount  int    `json:"edition_count"`
}

// PubseriesDetail is a series with its editions in series order.
type PubseriesDetail struct {
	*models.Pubseries
	Editions []*models.Edition `json:"editions"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreatePubseries(ctx context.Context, payload CreatePubseriesPayload) (*models.Pubseries, error) {
	series := &models.Pubseries{
		Name:        payload.Name,
		PublisherID: payload.PublisherID,
		Important:   payload.Important,
	}
	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		if err := checkPublisher(ctx, tx, payload.PublisherID); err != nil {
			return err
		}
		if _, err := tx.NewInsert().Model(series).Returning("*").Exec(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}
		return changes.LogCreate(ctx, tx, changes.TablePubseries, series.ID, series.Name)
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}

func (svc *Service) RetrievePubseries(ctx context.Context, id int) (*PubseriesDetail, error) {
	series := &models.Pubseries{}
	err := svc.db.NewSelect().Model(series).Relation("Publisher").Where("ps.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound(resource)
		}
		return nil, errors.WithStack(err)
	}

	detail := &PubseriesDetail{Pubseries: series}
	err = svc.db.NewSelect().
		Model(&detail.Editions).
		Where("e.pubseries_id = ?", id).
		OrderExpr("e.pubseriesnum IS NULL, e.pubseriesnum, e.pubyear, e.id").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return detail, nil
}

func (svc *Service) ListPubseries(ctx context.Context, opts ListPubseriesOptions) ([]*PubseriesRow, error) {
	var rows []*PubseriesRow

	q := svc.db.
		NewSelect().
		Model((*models.Pubseries)(nil)).
		Column("ps.id", "ps.name", "ps.important", "ps.publisher_id").
		ColumnExpr("pb.name AS publisher_name").
		ColumnExpr("(SELECT COUNT(*) FROM editions AS e WHERE e.pubseries_id = ps.id) AS edition_count").
		Join("JOIN publishers AS pb ON pb.id = ps.publisher_id").
		Order("ps.name ASC")

	if opts.Search != nil && *opts.Search != "" {
		q = q.Where("ps.name GLOB ?", database.GlobContains(*opts.Search))
	}
	if opts.PublisherID != nil {
		q = q.Where("ps.publisher_id = ?", *opts.PublisherID)
	}

	if err := q.Scan(ctx, &rows); err != nil {
		return nil, errors.WithStack(err)
	}
	return rows, nil
}

func (svc *Service) UpdatePubseries(ctx context.Context, payload UpdatePubseriesPayload) (*models.Pubseries, error) {
	series := &models.Pubseries{}
	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(series).Where("ps.id = ?", payload.ID).Scan(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}
		if err := checkPublisher(ctx, tx, payload.PublisherID); err != nil {
			return err
		}

		tr := &changes.Tracker{}
		changes.Set(tr, "name", "Nimi", &series.Name, payload.Name)
		changes.Set(tr, "publisher_id", "Kustantaja", &series.PublisherID, payload.PublisherID)
		changes.Set(tr, "important", "Tärkeä", &series.Important, payload.Important)

		if cols := tr.Columns(); len(cols) > 0 {
			_, err := tx.NewUpdate().Model(series).Column(cols...).WherePK().Exec(ctx)
			if err != nil {
				return errcodes.FromDB(err, resource)
			}
		}
		return changes.LogUpdate(ctx, tx, changes.TablePubseries, series.ID, series.Name, tr)
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}

// DeletePubseries removes a series without editions.
func (svc *Service) DeletePubseries(ctx context.Context, id int) error {
	return database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		series := &models.Pubseries{}
		if err := tx.NewSelect().Model(series).Where("ps.id = ?", id).Scan(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}
		used, err := tx.NewSelect().Model((*models.Edition)(nil)).Where("pubseries_id = ?", id).Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if used {
			return errcodes.UnprocessableEntity("Sarjassa on painoksia, sitä ei voi poistaa.")
		}
		if _, err := tx.NewDelete().Model((*models.UserPubseries)(nil)).Where("series_id = ?", id).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		if _, err := tx.NewDelete().Model((*models.Pubseries)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		return changes.LogDelete(ctx, tx, changes.TablePubseries, id, series.Name)
	})
}

func checkPublisher(ctx context.Context, db bun.IDB, id int) error {
	ok, err := db.NewSelect().Model((*models.Publisher)(nil)).Where("id = ?", id).Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !ok {
		return errcodes.NotFound("Kustantaja")
	}
	return nil
}
