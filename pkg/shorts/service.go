package shorts

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/suomisf/suomisf/pkg/changes"
	"github.com/suomisf/suomisf/pkg/contributors"
	"github.com/suomisf/suomisf/pkg/database"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/lookups"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/suomisf/suomisf/pkg/sortname"
	"github.com/suomisf/suomisf/pkg/tags"
	"github.com/uptrace/bun"
)

const resource = "Novelli"

// ShortDetail is a short story with its contributors and every edition and
// issue it appears in.
type ShortDetail struct {
	*models.ShortStory
	Contributors []*contributors.View `json:"contributors"`
	Editions     []*models.Edition    `json:"editions"`
	Issues       []*models.Issue      `json:"issues"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) RetrieveShort(ctx context.Context, id int) (*ShortDetail, error) {
	short := &models.ShortStory{}
	err := svc.db.NewSelect().
		Model(short).
		Relation("Language").
		Relation("Type").
		Relation("Tags").
		Relation("Genres").
		Where("s.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound(resource)
		}
		return nil, errors.WithStack(err)
	}

	detail := &ShortDetail{ShortStory: short}
	if detail.Contributors, err = contributors.List(ctx, svc.db, contributors.ShortTarget(id)); err != nil {
		return nil, err
	}
	err = svc.db.NewSelect().
		Model(&detail.Editions).
		Relation("Publisher").
		Where("e.id IN (SELECT pt.edition_id FROM parts AS pt WHERE pt.shortstory_id = ?)", id).
		OrderExpr("e.pubyear IS NULL, e.pubyear, e.id").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	err = svc.db.NewSelect().
		Model(&detail.Issues).
		Relation("Magazine").
		Where("i.id IN (SELECT ic.issue_id FROM issue_contents AS ic WHERE ic.shortstory_id = ?)", id).
		OrderExpr("i.year, i.number, i.id").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return detail, nil
}

func (svc *Service) CreateShort(ctx context.Context, payload CreateShortPayload) (*models.ShortStory, error) {
	short := &models.ShortStory{}
	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		payload.apply(short)
		if _, err := tx.NewInsert().Model(short).Returning("*").Exec(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}
		if len(payload.Contributions) > 0 {
			if _, err := contributors.Replace(ctx, tx, contributors.ShortTarget(short.ID), payload.Contributions); err != nil {
				return err
			}
		}
		if _, err := lookups.ReplaceGenres(ctx, tx, lookups.StoryGenres, short.ID, payload.Genres); err != nil {
			return err
		}
		if _, err := tags.Replace(ctx, tx, tags.KindShort, short.ID, payload.Tags); err != nil {
			return err
		}
		return changes.LogCreate(ctx, tx, changes.TableShort, short.ID, short.Title)
	})
	if err != nil {
		return nil, err
	}
	return short, nil
}

func (svc *Service) UpdateShort(ctx context.Context, payload UpdateShortPayload) (*models.ShortStory, error) {
	p := payload.ShortFields
	short := &models.ShortStory{}
	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(short).Where("s.id = ?", payload.ID).Scan(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}

		tr := &changes.Tracker{}
		changes.Set(tr, "title", "Nimeke", &short.Title, p.Title)
		changes.SetPtr(tr, "orig_title", "Alkuperäinen nimi", &short.OrigTitle, p.OrigTitle)
		changes.SetPtr(tr, "pubyear", "Julkaisuvuosi", &short.PubYear, p.PubYear)
		changes.SetPtr(tr, "language", "Kieli", &short.LanguageID, p.LanguageID)
		changes.SetPtr(tr, "story_type", "Tyyppi", &short.StoryType, p.TypeID)
		if cols := tr.Columns(); len(cols) > 0 {
			if _, err := tx.NewUpdate().Model(short).Column(cols...).WherePK().Exec(ctx); err != nil {
				return errcodes.FromDB(err, resource)
			}
		}

		if p.Contributions != nil {
			changed, err := contributors.Replace(ctx, tx, contributors.ShortTarget(short.ID), p.Contributions)
			if err != nil {
				return err
			}
			if changed {
				tr.Touch("Tekijät", short.AuthorStr)
			}
		}
		if p.Genres != nil {
			changed, err := lookups.ReplaceGenres(ctx, tx, lookups.StoryGenres, short.ID, p.Genres)
			if err != nil {
				return err
			}
			if changed {
				tr.Touch("Genret", "")
			}
		}
		if p.Tags != nil {
			changed, err := tags.Replace(ctx, tx, tags.KindShort, short.ID, p.Tags)
			if err != nil {
				return err
			}
			if changed {
				tr.Touch("Asiasanat", "")
			}
		}
		return changes.LogUpdate(ctx, tx, changes.TableShort, short.ID, short.Title, tr)
	})
	if err != nil {
		return nil, err
	}
	return short, nil
}

// DeleteShort removes a story from every edition and issue it appears in
// together with its contributors, tags, genres and awards.
func (svc *Service) DeleteShort(ctx context.Context, id int) error {
	return database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		short := &models.ShortStory{}
		if err := tx.NewSelect().Model(short).Where("s.id = ?", id).Scan(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}
		partIDs, err := contributors.PartIDs(ctx, tx, contributors.ShortTarget(id))
		if err != nil {
			return err
		}
		if err := contributors.DeleteParts(ctx, tx, partIDs); err != nil {
			return err
		}
		for _, model := range []any{(*models.StoryTag)(nil), (*models.StoryGenre)(nil), (*models.IssueContent)(nil)} {
			if _, err := tx.NewDelete().Model(model).Where("shortstory_id = ?", id).Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}
		if _, err := tx.NewDelete().Model((*models.Awarded)(nil)).Where("story_id = ?", id).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		if _, err := tx.NewDelete().Model((*models.ShortStory)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}
		return changes.LogDelete(ctx, tx, changes.TableShort, id, short.Title)
	})
}

// SearchShorts filters stories in SQL and then by author string. An author
// string holds every author of the story, so the author filter also finds
// stories written together with someone else.
func (svc *Service) SearchShorts(ctx context.Context, p SearchShortsPayload) ([]*models.ShortStory, error) {
	var shorts []*models.ShortStory
	q := svc.db.NewSelect().
		Model(&shorts).
		Relation("Type").
		Relation("Language")
	if p.Title != nil && *p.Title != "" {
		q = q.Where("s.title GLOB ?", database.GlobContains(*p.Title))
	}
	if p.OrigName != nil && *p.OrigName != "" {
		q = q.Where("s.orig_title GLOB ?", database.GlobContains(*p.OrigName))
	}
	if p.PubYearFirst != nil {
		q = q.Where("s.pubyear >= ?", *p.PubYearFirst)
	}
	if p.PubYearLast != nil {
		q = q.Where("s.pubyear <= ?", *p.PubYearLast)
	}
	if p.Type != nil {
		q = q.Where("s.story_type = ?", *p.Type)
	}
	if p.Language != nil {
		q = q.Where("s.language = ?", *p.Language)
	}
	if len(p.Genre) > 0 {
		q = q.Where("s.id IN (SELECT sg.shortstory_id FROM story_genres AS sg WHERE sg.genre_id IN (?))", bun.In(p.Genre))
	}
	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	if p.Author != nil && *p.Author != "" {
		needle := strings.ToLower(*p.Author)
		filtered := shorts[:0]
		for _, s := range shorts {
			if strings.Contains(strings.ToLower(s.AuthorStr), needle) {
				filtered = append(filtered, s)
			}
		}
		shorts = filtered
	}
	sort.SliceStable(shorts, func(i, j int) bool {
		if c := sortname.Compare(shorts[i].AuthorStr, shorts[j].AuthorStr); c != 0 {
			return c < 0
		}
		return sortname.Less(shorts[i].Title, shorts[j].Title)
	})
	return shorts, nil
}

// AddToWork prints a story in every edition of a work after the stories
// already there. The story keeps its contributors.
func (svc *Service) AddToWork(ctx context.Context, shortID, workID int) error {
	return database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		short := &models.ShortStory{}
		if err := tx.NewSelect().Model(short).Where("s.id = ?", shortID).Scan(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}
		exists, err := tx.NewSelect().Model((*models.Work)(nil)).Where("w.id = ?", workID).Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("Teos")
		}
		present, err := tx.NewSelect().
			Model((*models.Part)(nil)).
			Where("pt.work_id = ? AND pt.shortstory_id = ?", workID, shortID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if present {
			return nil
		}

		var editionIDs []int
		err = tx.NewSelect().
			Model((*models.Part)(nil)).
			ColumnExpr("DISTINCT pt.edition_id").
			Where("pt.work_id = ?", workID).
			Where("pt.shortstory_id IS NULL").
			Where("pt.edition_id IS NOT NULL").
			Order("pt.edition_id").
			Scan(ctx, &editionIDs)
		if err != nil {
			return errors.WithStack(err)
		}
		if len(editionIDs) == 0 {
			return errcodes.UnprocessableEntity("Teoksella ei ole painoksia.")
		}
		var last sql.NullInt64
		err = tx.NewSelect().
			Model((*models.Part)(nil)).
			ColumnExpr("MAX(pt.order_num)").
			Where("pt.work_id = ?", workID).
			Scan(ctx, &last)
		if err != nil {
			return errors.WithStack(err)
		}

		saved, err := contributors.SaveShortsByID(ctx, tx, []int{shortID})
		if err != nil {
			return err
		}
		var synthetic []int
		err = tx.NewSelect().
			Model((*models.Part)(nil)).
			Column("pt.id").
			Where("pt.shortstory_id = ? AND pt.edition_id IS NULL AND pt.work_id IS NULL", shortID).
			Scan(ctx, &synthetic)
		if err != nil {
			return errors.WithStack(err)
		}
		if err := contributors.DeleteParts(ctx, tx, synthetic); err != nil {
			return err
		}

		partIDs := make([]int, 0, len(editionIDs))
		for _, editionID := range editionIDs {
			part := &models.Part{
				EditionID:    &editionID,
				WorkID:       &workID,
				ShortstoryID: &shortID,
				OrderNum:     pointerutil.Int(int(last.Int64) + 1),
			}
			if _, err := tx.NewInsert().Model(part).Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
			partIDs = append(partIDs, part.ID)
		}
		if err := saved.Restore(ctx, tx, shortID, partIDs); err != nil {
			return err
		}
		tr := &changes.Tracker{}
		tr.Touch("Teokset", "")
		return changes.LogUpdate(ctx, tx, changes.TableShort, shortID, short.Title, tr)
	})
}

// RemoveFromWork drops a story from every edition of a work. A story left
// without any appearance keeps its contributors on a synthetic part.
func (svc *Service) RemoveFromWork(ctx context.Context, shortID, workID int) error {
	return database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		short := &models.ShortStory{}
		if err := tx.NewSelect().Model(short).Where("s.id = ?", shortID).Scan(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}
		var partIDs []int
		err := tx.NewSelect().
			Model((*models.Part)(nil)).
			Column("pt.id").
			Where("pt.work_id = ? AND pt.shortstory_id = ?", workID, shortID).
			Scan(ctx, &partIDs)
		if err != nil {
			return errors.WithStack(err)
		}
		if len(partIDs) == 0 {
			return errcodes.NotFound("Teoksen novelli")
		}
		saved, err := contributors.SaveShorts(ctx, tx, partIDs)
		if err != nil {
			return err
		}
		if err := contributors.DeleteParts(ctx, tx, partIDs); err != nil {
			return err
		}
		if _, err := contributors.RehomeOrphans(ctx, tx, saved); err != nil {
			return err
		}
		tr := &changes.Tracker{}
		tr.Touch("Teokset", "")
		return changes.LogUpdate(ctx, tx, changes.TableShort, shortID, short.Title, tr)
	})
}

// AddToIssue records a story as printed in a magazine issue.
func (svc *Service) AddToIssue(ctx context.Context, shortID, issueID int) error {
	return database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		short := &models.ShortStory{}
		if err := tx.NewSelect().Model(short).Where("s.id = ?", shortID).Scan(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}
		exists, err := tx.NewSelect().Model((*models.Issue)(nil)).Where("i.id = ?", issueID).Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("Irtonumero")
		}
		present, err := tx.NewSelect().
			Model((*models.IssueContent)(nil)).
			Where("ic.issue_id = ? AND ic.shortstory_id = ?", issueID, shortID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if present {
			return nil
		}
		content := &models.IssueContent{IssueID: issueID, ShortstoryID: &shortID}
		if _, err := tx.NewInsert().Model(content).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		tr := &changes.Tracker{}
		tr.Touch("Irtonumerot", "")
		return changes.LogUpdate(ctx, tx, changes.TableShort, shortID, short.Title, tr)
	})
}

func (svc *Service) RemoveFromIssue(ctx context.Context, shortID, issueID int) error {
	return database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		short := &models.ShortStory{}
		if err := tx.NewSelect().Model(short).Where("s.id = ?", shortID).Scan(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}
		res, err := tx.NewDelete().
			Model((*models.IssueContent)(nil)).
			Where("issue_id = ? AND shortstory_id = ?", issueID, shortID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errcodes.NotFound("Irtonumeron novelli")
		}
		tr := &changes.Tracker{}
		tr.Touch("Irtonumerot", "")
		return changes.LogUpdate(ctx, tx, changes.TableShort, shortID, short.Title, tr)
	})
}
