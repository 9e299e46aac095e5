package editions

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/changes"
	"github.com/suomisf/suomisf/pkg/contributors"
	"github.com/suomisf/suomisf/pkg/database"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/links"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

const resource = "Painos"

// EditionDetail is an edition with the works it prints and its
// contributors.
type EditionDetail struct {
	*models.Edition
	Works         []*models.Work       `json:"works"`
	Contributions []*contributors.View `json:"contributions"`
	Links         []links.Link         `json:"links"`
	OwnerCount    int                  `json:"owner_count"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) RetrieveEdition(ctx context.Context, id int) (*EditionDetail, error) {
	edition := &models.Edition{}
	err := svc.db.NewSelect().
		Model(edition).
		Relation("Publisher").
		Relation("Pubseries").
		Relation("Binding").
		Relation("Format").
		Relation("Images").
		Where("e.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound(resource)
		}
		return nil, errors.WithStack(err)
	}

	detail := &EditionDetail{Edition: edition}
	if detail.Works, err = svc.works(ctx, id); err != nil {
		return nil, err
	}
	if detail.Contributions, err = contributors.List(ctx, svc.db, contributors.EditionTarget(id)); err != nil {
		return nil, err
	}
	if detail.Links, err = links.List(ctx, svc.db, links.Edition, id); err != nil {
		return nil, err
	}
	detail.OwnerCount, err = svc.db.NewSelect().
		Model((*models.UserBook)(nil)).
		Where("ub.edition_id = ?", id).
		Where("ub.condition_id IS NULL OR ub.condition_id <> ?", models.WishlistConditionID).
		Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return detail, nil
}

func (svc *Service) works(ctx context.Context, editionID int) ([]*models.Work, error) {
	var works []*models.Work
	err := svc.db.NewSelect().
		Model(&works).
		Relation("WorkType").
		Relation("Language").
		Where("w.id IN (SELECT pt.work_id FROM parts AS pt WHERE pt.edition_id = ? AND pt.shortstory_id IS NULL)", editionID).
		OrderExpr("w.author_str, w.title").
		Scan(ctx)
	return works, errors.WithStack(err)
}

// Work returns the work an edition prints. For an omnibus the first work
// by author and title is returned.
func (svc *Service) Work(ctx context.Context, editionID int) (*models.Work, error) {
	if err := svc.exists(ctx, editionID); err != nil {
		return nil, err
	}
	works, err := svc.works(ctx, editionID)
	if err != nil {
		return nil, err
	}
	if len(works) == 0 {
		return nil, errcodes.NotFound("Teos")
	}
	return works[0], nil
}

// Shorts returns the short stories printed in an edition in print order.
func (svc *Service) Shorts(ctx context.Context, editionID int) ([]*models.ShortStory, error) {
	if err := svc.exists(ctx, editionID); err != nil {
		return nil, err
	}
	var shorts []*models.ShortStory
	err := svc.db.NewSelect().
		Model(&shorts).
		Relation("Type").
		Relation("Language").
		Where("s.id IN (SELECT pt.shortstory_id FROM parts AS pt WHERE pt.edition_id = ?)", editionID).
		OrderExpr("(SELECT MIN(pt.order_num) FROM parts AS pt WHERE pt.shortstory_id = s.id AND pt.edition_id = ?) IS NULL", editionID).
		OrderExpr("(SELECT MIN(pt.order_num) FROM parts AS pt WHERE pt.shortstory_id = s.id AND pt.edition_id = ?)", editionID).
		OrderExpr("s.title").
		Scan(ctx)
	return shorts, errors.WithStack(err)
}

func (svc *Service) CreateEdition(ctx context.Context, payload CreateEditionPayload) (*models.Edition, error) {
	edition := &models.Edition{}
	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		work := &models.Work{}
		if err := tx.NewSelect().Model(work).Where("w.id = ?", payload.WorkID).Scan(ctx); err != nil {
			return errcodes.FromDB(err, "Teos")
		}
		if err := checkReferences(ctx, tx, payload.EditionFields); err != nil {
			return err
		}

		payload.apply(edition)
		if edition.Title == "" {
			edition.Title = work.Title
		}
		if _, err := tx.NewInsert().Model(edition).Returning("*").Exec(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}

		part := &models.Part{EditionID: &edition.ID, WorkID: &work.ID}
		if _, err := tx.NewInsert().Model(part).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		if err := contributors.CopyWorkContributions(ctx, tx, work.ID, part.ID); err != nil {
			return err
		}
		if len(payload.Contributions) > 0 {
			if _, err := contributors.Replace(ctx, tx, contributors.EditionTarget(edition.ID), payload.Contributions); err != nil {
				return err
			}
		}
		if _, err := links.Replace(ctx, tx, links.Edition, edition.ID, payload.Links); err != nil {
			return err
		}
		if _, err := contributors.RecomputeWork(ctx, tx, work.ID); err != nil {
			return err
		}
		return changes.LogCreate(ctx, tx, changes.TableEdition, edition.ID, edition.Title)
	})
	if err != nil {
		return nil, err
	}
	return edition, nil
}

// UpdateEdition replaces the editable fields of an edition. Contributions
// and links are left alone when omitted.
func (svc *Service) UpdateEdition(ctx context.Context, payload UpdateEditionPayload) (*models.Edition, error) {
	edition := &models.Edition{}
	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(edition).Where("e.id = ?", payload.ID).Scan(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}
		if err := checkReferences(ctx, tx, payload.EditionFields); err != nil {
			return err
		}

		p := payload.EditionFields
		tr := &changes.Tracker{}
		if p.Title != "" {
			changes.Set(tr, "title", "Nimeke", &edition.Title, p.Title)
		}
		changes.SetPtr(tr, "subtitle", "Alaotsikko", &edition.Subtitle, p.Subtitle)
		changes.SetPtr(tr, "pubyear", "Julkaisuvuosi", &edition.PubYear, p.PubYear)
		changes.SetPtr(tr, "editionnum", "Painos", &edition.EditionNum, p.EditionNum)
		changes.SetPtr(tr, "version", "Laitos", &edition.Version, p.Version)
		changes.SetPtr(tr, "publisher_id", "Kustantaja", &edition.PublisherID, p.PublisherID)
		changes.SetPtr(tr, "pubseries_id", "Kustantajan sarja", &edition.PubseriesID, p.PubseriesID)
		changes.SetPtr(tr, "pubseriesnum", "Sarjan numero", &edition.PubseriesNum, p.PubseriesNum)
		changes.SetPtr(tr, "isbn", "ISBN", &edition.ISBN, p.ISBN)
		changes.SetPtr(tr, "printedin", "Painopaikka", &edition.PrintedIn, p.PrintedIn)
		changes.SetPtr(tr, "coll_info", "Kokoelmatieto", &edition.CollInfo, p.CollInfo)
		changes.SetPtr(tr, "pages", "Sivuja", &edition.Pages, p.Pages)
		changes.SetPtr(tr, "binding_id", "Sidonta", &edition.BindingID, p.BindingID)
		changes.SetPtr(tr, "format_id", "Muoto", &edition.FormatID, p.FormatID)
		changes.SetPtr(tr, "size", "Koko", &edition.Size, p.Size)
		if p.Dustcover != 0 {
			changes.Set(tr, "dustcover", "Kansipaperi", &edition.Dustcover, p.Dustcover)
		}
		if p.CoverImage != 0 {
			changes.Set(tr, "coverimage", "Kuvaliepeet", &edition.CoverImage, p.CoverImage)
		}
		changes.SetPtr(tr, "misc", "Muuta", &edition.Misc, p.Misc)
		changes.Set(tr, "verified", "Tarkistettu", &edition.Verified, p.Verified)

		if cols := tr.Columns(); len(cols) > 0 {
			if _, err := tx.NewUpdate().Model(edition).Column(cols...).WherePK().Exec(ctx); err != nil {
				return errcodes.FromDB(err, resource)
			}
		}
		if p.Contributions != nil {
			changed, err := contributors.Replace(ctx, tx, contributors.EditionTarget(edition.ID), p.Contributions)
			if err != nil {
				return err
			}
			if changed {
				tr.Touch("Tekijät", "")
			}
		}
		if p.Links != nil {
			changed, err := links.Replace(ctx, tx, links.Edition, edition.ID, p.Links)
			if err != nil {
				return err
			}
			if changed {
				tr.Touch("Linkit", "")
			}
		}
		return changes.LogUpdate(ctx, tx, changes.TableEdition, edition.ID, edition.Title, tr)
	})
	if err != nil {
		return nil, err
	}
	return edition, nil
}

func (svc *Service) DeleteEdition(ctx context.Context, id int) error {
	return database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		return Remove(ctx, tx, id)
	})
}

// Remove deletes an edition inside the caller's transaction together with
// its parts, contributions, images and links. An edition in any user's
// collection is UNPROCESSABLE_ENTITY. Short stories left without any part
// keep their contributors on a synthetic part.
func Remove(ctx context.Context, db bun.IDB, id int) error {
	edition := &models.Edition{}
	if err := db.NewSelect().Model(edition).Where("e.id = ?", id).Scan(ctx); err != nil {
		return errcodes.FromDB(err, resource)
	}
	owned, err := db.NewSelect().
		Model((*models.UserBook)(nil)).
		Where("ub.edition_id = ?", id).
		Where("ub.condition_id IS NULL OR ub.condition_id <> ?", models.WishlistConditionID).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if owned {
		return errcodes.UnprocessableEntity("Painos on käyttäjän kokoelmassa, sitä ei voi poistaa.")
	}

	var parts []*models.Part
	if err := db.NewSelect().Model(&parts).Where("pt.edition_id = ?", id).Scan(ctx); err != nil {
		return errors.WithStack(err)
	}
	partIDs := make([]int, 0, len(parts))
	workIDs := map[int]struct{}{}
	for _, p := range parts {
		partIDs = append(partIDs, p.ID)
		if p.WorkID != nil {
			workIDs[*p.WorkID] = struct{}{}
		}
	}

	saved, err := contributors.SaveShorts(ctx, db, partIDs)
	if err != nil {
		return err
	}
	if err := contributors.DeleteParts(ctx, db, partIDs); err != nil {
		return err
	}
	for _, model := range []any{(*models.EditionImage)(nil), (*models.UserBook)(nil)} {
		if _, err := db.NewDelete().Model(model).Where("edition_id = ?", id).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
	}
	if err := links.Delete(ctx, db, links.Edition, id); err != nil {
		return err
	}
	if _, err := db.NewDelete().Model((*models.Edition)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
		return errors.WithStack(err)
	}
	if _, err := contributors.RehomeOrphans(ctx, db, saved); err != nil {
		return err
	}
	for workID := range workIDs {
		if _, err := contributors.RecomputeWork(ctx, db, workID); err != nil {
			return err
		}
	}
	return changes.LogDelete(ctx, db, changes.TableEdition, id, editionName(edition))
}

func editionName(e *models.Edition) string {
	name := e.Title
	if e.EditionNum != nil {
		name += " " + strconv.Itoa(*e.EditionNum) + ".p"
	}
	if e.Version != nil && *e.Version > 1 {
		name += " " + strconv.Itoa(*e.Version) + ".l"
	}
	return name
}

func (svc *Service) exists(ctx context.Context, id int) error {
	exists, err := svc.db.NewSelect().Model((*models.Edition)(nil)).Where("e.id = ?", id).Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.NotFound(resource)
	}
	return nil
}

// checkReferences verifies that the publisher and publisher series exist
// and that the series belongs to the publisher.
func checkReferences(ctx context.Context, db bun.IDB, p EditionFields) error {
	if p.PublisherID != nil {
		exists, err := db.NewSelect().Model((*models.Publisher)(nil)).Where("pb.id = ?", *p.PublisherID).Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("Kustantaja")
		}
	}
	if p.PubseriesID != nil {
		series := &models.Pubseries{}
		if err := db.NewSelect().Model(series).Where("ps.id = ?", *p.PubseriesID).Scan(ctx); err != nil {
			return errcodes.FromDB(err, "Kustantajan sarja")
		}
		if p.PublisherID != nil && series.PublisherID != *p.PublisherID {
			return errcodes.BadRequest("Kustantajan sarja ei kuulu kustantajalle.")
		}
	}
	return nil
}
