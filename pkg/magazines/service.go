package magazines

import (
	"context"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/changes"
	"github.com/suomisf/suomisf/pkg/database"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

const resource = "Lehti"

// MagazineRow is one magazine of the magazine list.
type MagazineRow struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	TypeID     *int    `json:"type_id"`
	ISSN       *string `bun:"issn" json:"issn"`
	IssueCount int     `json:"issue_count"`
	FirstYear  *int    `json:"first_year"`
	LastYear   *int    `json:"last_year"`
}

// MagazineDetail is a magazine with its issues in publishing order.
type MagazineDetail struct {
	*models.Magazine
	Issues []*models.Issue `json:"issues"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) ListMagazines(ctx context.Context) ([]*MagazineRow, error) {
	var rows []*MagazineRow
	err := svc.db.
		NewSelect().
		Model((*models.Magazine)(nil)).
		Column("m.id", "m.name", "m.type_id", "m.issn").
		ColumnExpr("COUNT(i.id) AS issue_count").
		ColumnExpr("MIN(i.year) AS first_year").
		ColumnExpr("MAX(i.year) AS last_year").
		Join("LEFT JOIN issues AS i ON i.magazine_id = m.id").
		Group("m.id").
		Order("m.name ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return rows, nil
}

func (svc *Service) RetrieveMagazine(ctx context.Context, id int) (*MagazineDetail, error) {
	magazine := &models.Magazine{}
	err := svc.db.NewSelect().
		Model(magazine).
		Relation("Publisher").
		Relation("Type").
		Where("m.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, errcodes.FromDB(err, resource)
	}

	detail := &MagazineDetail{Magazine: magazine}
	err = svc.db.NewSelect().
		Model(&detail.Issues).
		Where("i.magazine_id = ?", id).
		OrderExpr("i.year IS NULL, i.year, i.number IS NULL, i.number, i.count, i.id").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return detail, nil
}

func (f MagazineFields) apply(m *models.Magazine) {
	m.Name = f.Name
	m.PublisherID = f.PublisherID
	m.Description = f.Description
	m.Link = f.Link
	m.ISSN = f.ISSN
	m.TypeID = f.TypeID
}

func (svc *Service) CreateMagazine(ctx context.Context, payload CreateMagazinePayload) (*models.Magazine, error) {
	magazine := &models.Magazine{}
	payload.apply(magazine)
	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(magazine).Returning("*").Exec(ctx); err != nil {
			return errcodes.FromDB(err, resource+" "+magazine.Name)
		}
		return changes.LogCreate(ctx, tx, changes.TableMagazine, magazine.ID, magazine.Name)
	})
	if err != nil {
		return nil, err
	}
	return magazine, nil
}

func (svc *Service) UpdateMagazine(ctx context.Context, payload UpdateMagazinePayload) (*models.Magazine, error) {
	magazine := &models.Magazine{}
	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(magazine).Where("m.id = ?", payload.ID).Scan(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}

		tr := &changes.Tracker{}
		changes.Set(tr, "name", "Nimi", &magazine.Name, payload.Name)
		changes.SetPtr(tr, "publisher_id", "Kustantaja", &magazine.PublisherID, payload.PublisherID)
		changes.SetPtr(tr, "description", "Kuvaus", &magazine.Description, payload.Description)
		changes.SetPtr(tr, "link", "Linkki", &magazine.Link, payload.Link)
		changes.SetPtr(tr, "issn", "ISSN", &magazine.ISSN, payload.ISSN)
		changes.SetPtr(tr, "type_id", "Tyyppi", &magazine.TypeID, payload.TypeID)

		if cols := tr.Columns(); len(cols) > 0 {
			_, err := tx.NewUpdate().Model(magazine).Column(cols...).WherePK().Exec(ctx)
			if err != nil {
				return errcodes.FromDB(err, resource+" "+magazine.Name)
			}
		}
		return changes.LogUpdate(ctx, tx, changes.TableMagazine, magazine.ID, magazine.Name, tr)
	})
	if err != nil {
		return nil, err
	}
	return magazine, nil
}

// DeleteMagazine removes a magazine without issues.
func (svc *Service) DeleteMagazine(ctx context.Context, id int) error {
	return database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		magazine := &models.Magazine{}
		if err := tx.NewSelect().Model(magazine).Where("m.id = ?", id).Scan(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}
		used, err := tx.NewSelect().Model((*models.Issue)(nil)).Where("i.magazine_id = ?", id).Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if used {
			return errcodes.UnprocessableEntity("Lehdellä on irtonumeroita, sitä ei voi poistaa.")
		}
		if _, err := tx.NewDelete().Model((*models.Magazine)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		return changes.LogDelete(ctx, tx, changes.TableMagazine, id, magazine.Name)
	})
}
