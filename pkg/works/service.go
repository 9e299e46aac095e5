package works

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/suomisf/suomisf/pkg/bookseries"
	"github.com/suomisf/suomisf/pkg/changes"
	"github.com/suomisf/suomisf/pkg/contributors"
	"github.com/suomisf/suomisf/pkg/database"
	"github.com/suomisf/suomisf/pkg/editions"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/links"
	"github.com/suomisf/suomisf/pkg/lookups"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/suomisf/suomisf/pkg/tags"
	"github.com/uptrace/bun"
)

const resource = "Teos"

// WorkDetail is a work with its editions, stories and contributors.
type WorkDetail struct {
	*models.Work
	Contributions []*contributors.View `json:"contributions"`
	Editions      []*EditionView       `json:"editions"`
	Stories       []*StoryView         `json:"stories"`
	Links         []links.Link         `json:"links"`
	bookseries.Neighbors
}

type EditionView struct {
	*models.Edition
	Contributions []*contributors.View `json:"contributions"`
}

type StoryView struct {
	*models.ShortStory
	Contributors []*contributors.View `json:"contributors"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) RetrieveWork(ctx context.Context, id int) (*WorkDetail, error) {
	work := &models.Work{}
	err := svc.db.NewSelect().
		Model(work).
		Relation("Language").
		Relation("WorkType").
		Relation("Bookseries").
		Relation("Genres").
		Relation("Tags").
		Where("w.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound(resource)
		}
		return nil, errors.WithStack(err)
	}

	detail := &WorkDetail{Work: work}
	if detail.Contributions, err = contributors.List(ctx, svc.db, contributors.WorkTarget(id)); err != nil {
		return nil, err
	}
	if detail.Links, err = links.List(ctx, svc.db, links.Work, id); err != nil {
		return nil, err
	}
	if detail.Neighbors, err = bookseries.NeighborsOf(ctx, svc.db, work); err != nil {
		return nil, err
	}

	var eds []*models.Edition
	err = svc.db.NewSelect().
		Model(&eds).
		Relation("Publisher").
		Relation("Pubseries").
		Relation("Binding").
		Relation("Images").
		Where("e.id IN (SELECT pt.edition_id FROM parts AS pt WHERE pt.work_id = ? AND pt.shortstory_id IS NULL)", id).
		OrderExpr("e.pubyear IS NULL, e.pubyear").
		OrderExpr("e.version IS NULL, e.version").
		OrderExpr("e.editionnum IS NULL, e.editionnum").
		OrderExpr("e.id").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	detail.Editions = make([]*EditionView, 0, len(eds))
	for _, e := range eds {
		view := &EditionView{Edition: e}
		if view.Contributions, err = contributors.List(ctx, svc.db, contributors.EditionTarget(e.ID)); err != nil {
			return nil, err
		}
		detail.Editions = append(detail.Editions, view)
	}

	shorts, err := svc.shorts(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Stories = make([]*StoryView, 0, len(shorts))
	for _, s := range shorts {
		view := &StoryView{ShortStory: s}
		if view.Contributors, err = contributors.List(ctx, svc.db, contributors.ShortTarget(s.ID)); err != nil {
			return nil, err
		}
		detail.Stories = append(detail.Stories, view)
	}
	return detail, nil
}

// Shorts returns the short stories printed in any edition of a work in
// print order.
func (svc *Service) Shorts(ctx context.Context, workID int) ([]*models.ShortStory, error) {
	if err := svc.exists(ctx, workID); err != nil {
		return nil, err
	}
	return svc.shorts(ctx, workID)
}

func (svc *Service) shorts(ctx context.Context, workID int) ([]*models.ShortStory, error) {
	var shorts []*models.ShortStory
	err := svc.db.NewSelect().
		Model(&shorts).
		Relation("Type").
		Relation("Language").
		Where("s.id IN (SELECT pt.shortstory_id FROM parts AS pt WHERE pt.work_id = ?)", workID).
		OrderExpr("(SELECT MIN(pt.order_num) FROM parts AS pt WHERE pt.shortstory_id = s.id AND pt.work_id = ?) IS NULL", workID).
		OrderExpr("(SELECT MIN(pt.order_num) FROM parts AS pt WHERE pt.shortstory_id = s.id AND pt.work_id = ?)", workID).
		OrderExpr("s.title").
		Scan(ctx)
	return shorts, errors.WithStack(err)
}

// splitContributions separates the work-level contributions from those
// that belong on an edition.
func splitContributions(list []contributors.Contribution) (work, edition []contributors.Contribution) {
	for _, c := range list {
		if models.IsWorkRole(c.RoleID) {
			work = append(work, c)
		} else {
			edition = append(edition, c)
		}
	}
	return work, edition
}

func hasAuthorOrEditor(list []contributors.Contribution) bool {
	for _, c := range list {
		if c.RoleID == models.RoleAuthor || c.RoleID == models.RoleEditor {
			return true
		}
	}
	return false
}

// CreateWork inserts a work together with its first edition and the part
// joining them. Contributions in edition roles go on that edition.
func (svc *Service) CreateWork(ctx context.Context, payload CreateWorkPayload) (*models.Work, error) {
	if !hasAuthorOrEditor(payload.Contributions) {
		return nil, errcodes.BadRequest("Ei kirjoittajaa tai toimittajaa")
	}
	work := &models.Work{}
	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		payload.apply(work)
		if _, err := tx.NewInsert().Model(work).Returning("*").Exec(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}

		one := 1
		edition := &models.Edition{
			Title:      work.Title,
			Subtitle:   work.Subtitle,
			PubYear:    work.PubYear,
			EditionNum: &one,
			Version:    &one,
			Dustcover:  models.FlagUnknown,
			CoverImage: models.FlagUnknown,
		}
		if _, err := tx.NewInsert().Model(edition).Exec(ctx); err != nil {
			return errcodes.FromDB(err, "Painos")
		}
		part := &models.Part{EditionID: &edition.ID, WorkID: &work.ID}
		if _, err := tx.NewInsert().Model(part).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}

		workList, editionList := splitContributions(payload.Contributions)
		if _, err := contributors.Replace(ctx, tx, contributors.WorkTarget(work.ID), workList); err != nil {
			return err
		}
		if len(editionList) > 0 {
			if _, err := contributors.Replace(ctx, tx, contributors.EditionTarget(edition.ID), editionList); err != nil {
				return err
			}
		}
		if _, err := lookups.ReplaceGenres(ctx, tx, lookups.WorkGenres, work.ID, payload.Genres); err != nil {
			return err
		}
		if _, err := tags.Replace(ctx, tx, tags.KindWork, work.ID, payload.Tags); err != nil {
			return err
		}
		if _, err := links.Replace(ctx, tx, links.Work, work.ID, payload.Links); err != nil {
			return err
		}
		if err := changes.LogCreate(ctx, tx, changes.TableEdition, edition.ID, edition.Title); err != nil {
			return err
		}
		return changes.LogCreate(ctx, tx, changes.TableWork, work.ID, work.Title)
	})
	if err != nil {
		return nil, err
	}
	return work, nil
}

// UpdateWork replaces the editable fields of a work. Only work-level
// contributions can be set here; edition contributors are edited through
// the edition.
func (svc *Service) UpdateWork(ctx context.Context, payload UpdateWorkPayload) (*models.Work, error) {
	p := payload.WorkFields
	if p.Contributions != nil && !hasAuthorOrEditor(p.Contributions) {
		return nil, errcodes.BadRequest("Ei kirjoittajaa tai toimittajaa")
	}
	work := &models.Work{}
	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(work).Where("w.id = ?", payload.ID).Scan(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}

		tr := &changes.Tracker{}
		changes.Set(tr, "title", "Nimeke", &work.Title, p.Title)
		changes.SetPtr(tr, "subtitle", "Alaotsikko", &work.Subtitle, p.Subtitle)
		changes.SetPtr(tr, "orig_title", "Alkuperäinen nimi", &work.OrigTitle, p.OrigTitle)
		changes.SetPtr(tr, "pubyear", "Julkaisuvuosi", &work.PubYear, p.PubYear)
		changes.SetPtr(tr, "language", "Kieli", &work.LanguageID, p.LanguageID)
		changes.SetPtr(tr, "bookseries_id", "Kirjasarja", &work.BookseriesID, p.BookseriesID)
		changes.SetPtr(tr, "bookseriesnum", "Kirjasarjan numero", &work.BookseriesNum, p.BookseriesNum)
		changes.SetPtr(tr, "bookseriesorder", "Kirjasarjan järjestys", &work.BookseriesOrder, p.BookseriesOrder)
		changes.SetPtr(tr, "type", "Tyyppi", &work.TypeID, p.TypeID)
		changes.SetPtr(tr, "misc", "Muuta", &work.Misc, p.Misc)
		changes.SetPtr(tr, "description", "Kuvaus", &work.Description, p.Description)
		changes.SetPtr(tr, "descr_attr", "Kuvauksen lähde", &work.DescrAttr, p.DescrAttr)

		if cols := tr.Columns(); len(cols) > 0 {
			if _, err := tx.NewUpdate().Model(work).Column(cols...).WherePK().Exec(ctx); err != nil {
				return errcodes.FromDB(err, resource)
			}
		}
		if p.Contributions != nil {
			changed, err := contributors.Replace(ctx, tx, contributors.WorkTarget(work.ID), p.Contributions)
			if err != nil {
				return err
			}
			if changed {
				tr.Touch("Tekijät", work.AuthorStr)
			}
		}
		if p.Genres != nil {
			changed, err := lookups.ReplaceGenres(ctx, tx, lookups.WorkGenres, work.ID, p.Genres)
			if err != nil {
				return err
			}
			if changed {
				tr.Touch("Genret", "")
			}
		}
		if p.Tags != nil {
			changed, err := tags.Replace(ctx, tx, tags.KindWork, work.ID, p.Tags)
			if err != nil {
				return err
			}
			if changed {
				tr.Touch("Asiasanat", "")
			}
		}
		if p.Links != nil {
			changed, err := links.Replace(ctx, tx, links.Work, work.ID, p.Links)
			if err != nil {
				return err
			}
			if changed {
				tr.Touch("Linkit", "")
			}
		}
		return changes.LogUpdate(ctx, tx, changes.TableWork, work.ID, work.Title, tr)
	})
	if err != nil {
		return nil, err
	}
	return work, nil
}

// DeleteWork removes a work with every edition that prints nothing else.
// Editions shared with other works only lose this work's parts. Owned
// editions block the delete.
func (svc *Service) DeleteWork(ctx context.Context, id int) error {
	return database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		work := &models.Work{}
		if err := tx.NewSelect().Model(work).Where("w.id = ?", id).Scan(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}

		var editionIDs []int
		err := tx.NewSelect().
			Model((*models.Part)(nil)).
			ColumnExpr("DISTINCT pt.edition_id").
			Where("pt.work_id = ?", id).
			Where("pt.edition_id IS NOT NULL").
			Where("NOT EXISTS (SELECT 1 FROM parts AS p2 WHERE p2.edition_id = pt.edition_id AND p2.work_id <> ?)", id).
			Scan(ctx, &editionIDs)
		if err != nil {
			return errors.WithStack(err)
		}
		for _, editionID := range editionIDs {
			if err := editions.Remove(ctx, tx, editionID); err != nil {
				return err
			}
		}

		var partIDs []int
		err = tx.NewSelect().
			Model((*models.Part)(nil)).
			Column("pt.id").
			Where("pt.work_id = ?", id).
			Scan(ctx, &partIDs)
		if err != nil {
			return errors.WithStack(err)
		}
		saved, err := contributors.SaveShorts(ctx, tx, partIDs)
		if err != nil {
			return err
		}
		if err := contributors.DeleteParts(ctx, tx, partIDs); err != nil {
			return err
		}

		for _, model := range []any{(*models.WorkGenre)(nil), (*models.WorkTag)(nil), (*models.Awarded)(nil)} {
			if _, err := tx.NewDelete().Model(model).Where("work_id = ?", id).Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}
		if err := links.Delete(ctx, tx, links.Work, id); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*models.Work)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}
		if _, err := contributors.RehomeOrphans(ctx, tx, saved); err != nil {
			return err
		}
		return changes.LogDelete(ctx, tx, changes.TableWork, id, work.Title)
	})
}

// SaveShorts replaces the short stories of a work in every edition of the
// work. Stories keep their contributors; a story that no longer appears
// anywhere keeps them on a synthetic part.
func (svc *Service) SaveShorts(ctx context.Context, payload SaveShortsPayload) error {
	want := uniqueIDs(payload.Shorts)
	return database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		work := &models.Work{}
		if err := tx.NewSelect().Model(work).Where("w.id = ?", payload.WorkID).Scan(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}
		if len(want) > 0 {
			n, err := tx.NewSelect().Model((*models.ShortStory)(nil)).Where("s.id IN (?)", bun.In(want)).Count(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
			if n != len(want) {
				return errcodes.NotFound("Novelli")
			}
		}

		var current []int
		err := tx.NewSelect().
			Model((*models.Part)(nil)).
			Column("pt.shortstory_id").
			Where("pt.work_id = ?", work.ID).
			Where("pt.shortstory_id IS NOT NULL").
			Group("pt.shortstory_id").
			OrderExpr("MIN(pt.order_num) IS NULL, MIN(pt.order_num), pt.shortstory_id").
			Scan(ctx, &current)
		if err != nil {
			return errors.WithStack(err)
		}
		if equalIDs(current, want) {
			return nil
		}

		var editionIDs []int
		err = tx.NewSelect().
			Model((*models.Part)(nil)).
			ColumnExpr("DISTINCT pt.edition_id").
			Where("pt.work_id = ?", work.ID).
			Where("pt.shortstory_id IS NULL").
			Where("pt.edition_id IS NOT NULL").
			Order("pt.edition_id").
			Scan(ctx, &editionIDs)
		if err != nil {
			return errors.WithStack(err)
		}
		if len(editionIDs) == 0 && len(want) > 0 {
			return errcodes.UnprocessableEntity("Teoksella ei ole painoksia.")
		}

		saved, err := contributors.SaveShortsByID(ctx, tx, append(append([]int{}, current...), want...))
		if err != nil {
			return err
		}
		// Old appearances in this work and the synthetic parts of the
		// incoming stories are replaced by the new parts.
		q := tx.NewSelect().
			Model((*models.Part)(nil)).
			Column("pt.id").
			Where("pt.work_id = ? AND pt.shortstory_id IS NOT NULL", work.ID)
		if len(want) > 0 {
			q = q.WhereOr("pt.shortstory_id IN (?) AND pt.edition_id IS NULL AND pt.work_id IS NULL", bun.In(want))
		}
		var oldParts []int
		err = q.Scan(ctx, &oldParts)
		if err != nil {
			return errors.WithStack(err)
		}
		if err := contributors.DeleteParts(ctx, tx, oldParts); err != nil {
			return err
		}

		for i, shortID := range want {
			partIDs := make([]int, 0, len(editionIDs))
			for _, editionID := range editionIDs {
				part := &models.Part{
					EditionID:    &editionID,
					WorkID:       &work.ID,
					ShortstoryID: &shortID,
					OrderNum:     pointerutil.Int(i + 1),
				}
				if _, err := tx.NewInsert().Model(part).Exec(ctx); err != nil {
					return errors.WithStack(err)
				}
				partIDs = append(partIDs, part.ID)
			}
			if err := saved.Restore(ctx, tx, shortID, partIDs); err != nil {
				return err
			}
		}
		if _, err := contributors.RehomeOrphans(ctx, tx, saved); err != nil {
			return err
		}

		tr := &changes.Tracker{}
		tr.Touch("Novellit", "")
		return changes.LogUpdate(ctx, tx, changes.TableWork, work.ID, work.Title, tr)
	})
}

func uniqueIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (svc *Service) exists(ctx context.Context, id int) error {
	exists, err := svc.db.NewSelect().Model((*models.Work)(nil)).Where("w.id = ?", id).Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.NotFound(resource)
	}
	return nil
}
