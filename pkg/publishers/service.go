package publishers

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/changes"
	"github.com/suomisf/suomisf/pkg/database"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/links"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

const resource = "Kustantaja"

type ListPublishersOptions struct {
	Search *string
}

// PublisherRow is one publisher of the publisher list.
type PublisherRow struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	FullName     string `bun:"fullname" json:"fullname"`
	EditionCount int    `json:"edition_count"`
	FirstYear    *int   `json:"first_year"`
	LastYear     *int   `json:"last_year"`
}

// PublisherDetail is a publisher with its series and editions.
type PublisherDetail struct {
	*models.Publisher
	Links     []links.Link        `json:"links"`
	Pubseries []*models.Pubseries `json:"pubseries"`
	Editions  []*models.Edition   `json:"editions"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreatePublisher(ctx context.Context, payload CreatePublisherPayload) (*models.Publisher, error) {
	publisher := &models.Publisher{
		Name:        payload.Name,
		FullName:    payload.FullName,
		Description: payload.Description,
	}
	if publisher.FullName == "" {
		publisher.FullName = publisher.Name
	}
	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(publisher).Returning("*").Exec(ctx); err != nil {
			return errcodes.FromDB(err, resource+" "+publisher.Name)
		}
		if _, err := links.Replace(ctx, tx, links.Publisher, publisher.ID, payload.Links); err != nil {
			return err
		}
		return changes.LogCreate(ctx, tx, changes.TablePublisher, publisher.ID, publisher.Name)
	})
	if err != nil {
		return nil, err
	}
	return publisher, nil
}

func (svc *Service) RetrievePublisher(ctx context.Context, id int) (*PublisherDetail, error) {
	publisher := &models.Publisher{}
	err := svc.db.NewSelect().Model(publisher).Where("pb.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound(resource)
		}
		return nil, errors.WithStack(err)
	}

	detail := &PublisherDetail{Publisher: publisher}
	detail.Links, err = links.List(ctx, svc.db, links.Publisher, id)
	if err != nil {
		return nil, err
	}
	err = svc.db.NewSelect().
		Model(&detail.Pubseries).
		Where("ps.publisher_id = ?", id).
		Order("ps.name").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	err = svc.db.NewSelect().
		Model(&detail.Editions).
		Relation("Pubseries").
		Where("e.publisher_id = ?", id).
		OrderExpr("e.pubyear IS NULL, e.pubyear, e.title").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return detail, nil
}

// ListPublishers returns publishers ordered by name with edition counts and
// the span of their publishing years.
func (svc *Service) ListPublishers(ctx context.Context, opts ListPublishersOptions) ([]*PublisherRow, error) {
	var rows []*PublisherRow

	q := svc.db.
		NewSelect().
		Model((*models.Publisher)(nil)).
		Column("pb.id", "pb.name", "pb.fullname").
		ColumnExpr("COUNT(e.id) AS edition_count").
		ColumnExpr("MIN(e.pubyear) AS first_year").
		ColumnExpr("MAX(e.pubyear) AS last_year").
		Join("LEFT JOIN editions AS e ON e.publisher_id = pb.id").
		Group("pb.id").
		Order("pb.name ASC")

	if opts.Search != nil && *opts.Search != "" {
		search := database.GlobContains(*opts.Search)
		q = q.Where("pb.name GLOB ? OR pb.fullname GLOB ?", search, search)
	}

	if err := q.Scan(ctx, &rows); err != nil {
		return nil, errors.WithStack(err)
	}
	return rows, nil
}

func (svc *Service) UpdatePublisher(ctx context.Context, payload UpdatePublisherPayload) (*models.Publisher, error) {
	publisher := &models.Publisher{}
	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(publisher).Where("pb.id = ?", payload.ID).Scan(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}

		tr := &changes.Tracker{}
		changes.Set(tr, "name", "Nimi", &publisher.Name, payload.Name)
		if payload.FullName != "" {
			changes.Set(tr, "fullname", "Koko nimi", &publisher.FullName, payload.FullName)
		}
		changes.SetPtr(tr, "description", "Kuvaus", &publisher.Description, payload.Description)

		if cols := tr.Columns(); len(cols) > 0 {
			_, err := tx.NewUpdate().Model(publisher).Column(cols...).WherePK().Exec(ctx)
			if err != nil {
				return errcodes.FromDB(err, resource+" "+publisher.Name)
			}
		}
		if payload.Links != nil {
			changed, err := links.Replace(ctx, tx, links.Publisher, publisher.ID, payload.Links)
			if err != nil {
				return err
			}
			if changed {
				tr.Touch("Linkit", "")
			}
		}
		return changes.LogUpdate(ctx, tx, changes.TablePublisher, publisher.ID, publisher.Name, tr)
	})
	if err != nil {
		return nil, err
	}
	return publisher, nil
}

// DeletePublisher removes a publisher that no edition, series or magazine
// refers to.
func (svc *Service) DeletePublisher(ctx context.Context, id int) error {
	return database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		publisher := &models.Publisher{}
		if err := tx.NewSelect().Model(publisher).Where("pb.id = ?", id).Scan(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}
		for _, model := range []any{(*models.Edition)(nil), (*models.Pubseries)(nil), (*models.Magazine)(nil)} {
			used, err := tx.NewSelect().Model(model).Where("publisher_id = ?", id).Exists(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
			if used {
				return errcodes.UnprocessableEntity("Kustantajalla on julkaisuja, sitä ei voi poistaa.")
			}
		}
		if err := links.Delete(ctx, tx, links.Publisher, id); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*models.Publisher)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		return changes.LogDelete(ctx, tx, changes.TablePublisher, id, publisher.Name)
	})
}
