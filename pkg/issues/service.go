package issues

import (
	"context"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/changes"
	"github.com/suomisf/suomisf/pkg/contributors"
	"github.com/suomisf/suomisf/pkg/database"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

const resource = "Irtonumero"

// IssueDetail is an issue with its editors and printed content.
type IssueDetail struct {
	*models.Issue
	Name     string               `json:"name"`
	Editors  []*contributors.View `json:"editors"`
	Stories  []*StoryView         `json:"stories"`
	Articles []*models.Article    `json:"articles"`
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

func (svc *Service) RetrieveIssue(ctx context.Context, id int) (*IssueDetail, error) {
	issue := &models.Issue{}
	err := svc.db.NewSelect().
		Model(issue).
		Relation("Magazine").
		Relation("Size").
		Relation("Tags").
		Where("i.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, errcodes.FromDB(err, resource)
	}

	detail := &IssueDetail{Issue: issue, Name: contributors.IssueName(issue)}
	if detail.Editors, err = contributors.List(ctx, svc.db, contributors.IssueTarget(id)); err != nil {
		return nil, err
	}
	if detail.Stories, err = svc.stories(ctx, svc.db, id); err != nil {
		return nil, err
	}
	if detail.Articles, err = svc.articles(ctx, svc.db, id); err != nil {
		return nil, err
	}
	return detail, nil
}

func (svc *Service) stories(ctx context.Context, db bun.IDB, issueID int) ([]*StoryView, error) {
	var shorts []*models.ShortStory
	err := db.NewSelect().
		Model(&shorts).
		Relation("Type").
		Join("JOIN issue_contents AS ic ON ic.shortstory_id = s.id").
		Where("ic.issue_id = ?", issueID).
		Order("ic.id").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	views := make([]*StoryView, 0, len(shorts))
	for _, s := range shorts {
		list, err := contributors.List(ctx, db, contributors.ShortTarget(s.ID))
		if err != nil {
			return nil, err
		}
		views = append(views, &StoryView{ShortStory: s, Contributors: list})
	}
	return views, nil
}

func (svc *Service) articles(ctx context.Context, db bun.IDB, issueID int) ([]*models.Article, error) {
	articles := []*models.Article{}
	err := db.NewSelect().
		Model(&articles).
		Relation("Authors").
		Join("JOIN issue_contents AS ic ON ic.article_id = a.id").
		Where("ic.issue_id = ?", issueID).
		Order("ic.id").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return articles, nil
}

// Stories lists the short stories printed in an issue.
func (svc *Service) Stories(ctx context.Context, issueID int) ([]*StoryView, error) {
	if err := svc.exists(ctx, issueID); err != nil {
		return nil, err
	}
	return svc.stories(ctx, svc.db, issueID)
}

// Articles lists the articles printed in an issue.
func (svc *Service) Articles(ctx context.Context, issueID int) ([]*models.Article, error) {
	if err := svc.exists(ctx, issueID); err != nil {
		return nil, err
	}
	return svc.articles(ctx, svc.db, issueID)
}

func (svc *Service) ListSizes(ctx context.Context) ([]*models.PublicationSize, error) {
	var sizes []*models.PublicationSize
	if err := svc.db.NewSelect().Model(&sizes).Order("psz.id").Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return sizes, nil
}

func (f IssueFields) apply(i *models.Issue) {
	i.MagazineID = f.MagazineID
	i.Number = f.Number
	i.NumberExtra = f.NumberExtra
	i.Count = f.Count
	i.Year = f.Year
	i.CoverNumber = f.CoverNumber
	i.ImageSrc = f.ImageSrc
	i.ImageAttr = f.ImageAttr
	i.Pages = f.Pages
	i.SizeID = f.SizeID
	i.Link = f.Link
	i.Notes = f.Notes
	i.Title = f.Title
}

func checkReferences(ctx context.Context, db bun.IDB, f IssueFields) error {
	exists, err := db.NewSelect().Model((*models.Magazine)(nil)).Where("m.id = ?", f.MagazineID).Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.NotFound("Lehti")
	}
	if f.SizeID == nil {
		return nil
	}
	exists, err = db.NewSelect().Model((*models.PublicationSize)(nil)).Where("psz.id = ?", *f.SizeID).Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.BadRequest("Julkaisukoko on virheellinen.")
	}
	return nil
}

func (svc *Service) CreateIssue(ctx context.Context, payload CreateIssuePayload) (*models.Issue, error) {
	issue := &models.Issue{}
	payload.apply(issue)
	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		if err := checkReferences(ctx, tx, payload.IssueFields); err != nil {
			return err
		}
		if _, err := tx.NewInsert().Model(issue).Returning("*").Exec(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}
		if len(payload.Editors) > 0 {
			if _, err := contributors.Replace(ctx, tx, contributors.IssueTarget(issue.ID), payload.Editors); err != nil {
				return err
			}
		}
		name, err := issueName(ctx, tx, issue.ID)
		if err != nil {
			return err
		}
		return changes.LogCreate(ctx, tx, changes.TableIssue, issue.ID, name)
	})
	if err != nil {
		return nil, err
	}
	return issue, nil
}

func (svc *Service) UpdateIssue(ctx context.Context, payload UpdateIssuePayload) (*models.Issue, error) {
	issue := &models.Issue{}
	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(issue).Where("i.id = ?", payload.ID).Scan(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}
		if err := checkReferences(ctx, tx, payload.IssueFields); err != nil {
			return err
		}

		tr := &changes.Tracker{}
		changes.Set(tr, "magazine_id", "Lehti", &issue.MagazineID, payload.MagazineID)
		changes.SetPtr(tr, "number", "Numero", &issue.Number, payload.Number)
		changes.SetPtr(tr, "number_extra", "Numeron lisäosa", &issue.NumberExtra, payload.NumberExtra)
		changes.SetPtr(tr, "count", "Juokseva numero", &issue.Count, payload.Count)
		changes.SetPtr(tr, "year", "Vuosi", &issue.Year, payload.Year)
		changes.SetPtr(tr, "cover_number", "Kansinumero", &issue.CoverNumber, payload.CoverNumber)
		changes.SetPtr(tr, "image_src", "Kansikuva", &issue.ImageSrc, payload.ImageSrc)
		changes.SetPtr(tr, "image_attr", "Kansikuvan lähde", &issue.ImageAttr, payload.ImageAttr)
		changes.SetPtr(tr, "pages", "Sivuja", &issue.Pages, payload.Pages)
		changes.SetPtr(tr, "size_id", "Koko", &issue.SizeID, payload.SizeID)
		changes.SetPtr(tr, "link", "Linkki", &issue.Link, payload.Link)
		changes.SetPtr(tr, "notes", "Muuta", &issue.Notes, payload.Notes)
		changes.SetPtr(tr, "title", "Nimeke", &issue.Title, payload.Title)

		if cols := tr.Columns(); len(cols) > 0 {
			if _, err := tx.NewUpdate().Model(issue).Column(cols...).WherePK().Exec(ctx); err != nil {
				return errcodes.FromDB(err, resource)
			}
		}
		if payload.Editors != nil {
			changed, err := contributors.Replace(ctx, tx, contributors.IssueTarget(issue.ID), payload.Editors)
			if err != nil {
				return err
			}
			if changed {
				tr.Touch("Toimittajat", "")
			}
		}
		name, err := issueName(ctx, tx, issue.ID)
		if err != nil {
			return err
		}
		return changes.LogUpdate(ctx, tx, changes.TableIssue, issue.ID, name, tr)
	})
	if err != nil {
		return nil, err
	}
	return issue, nil
}

// DeleteIssue removes an issue with its editors, tags and content rows. The
// stories and articles themselves are kept.
func (svc *Service) DeleteIssue(ctx context.Context, id int) error {
	return database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		name, err := issueName(ctx, tx, id)
		if err != nil {
			return err
		}
		for _, model := range []any{(*models.IssueEditor)(nil), (*models.IssueContent)(nil), (*models.IssueTag)(nil)} {
			if _, err := tx.NewDelete().Model(model).Where("issue_id = ?", id).Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}
		if _, err := tx.NewDelete().Model((*models.Issue)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		return changes.LogDelete(ctx, tx, changes.TableIssue, id, name)
	})
}

// SaveStories sets the short stories printed in an issue.
func (svc *Service) SaveStories(ctx context.Context, issueID int, shortIDs []int) error {
	return svc.saveContent(ctx, issueID, shortIDs, content{
		column: "shortstory_id",
		model:  (*models.ShortStory)(nil),
		alias:  "s",
		name:   "Novelli",
		label:  "Novellit",
	})
}

// SaveArticles sets the articles printed in an issue.
func (svc *Service) SaveArticles(ctx context.Context, issueID int, articleIDs []int) error {
	return svc.saveContent(ctx, issueID, articleIDs, content{
		column: "article_id",
		model:  (*models.Article)(nil),
		alias:  "a",
		name:   "Artikkeli",
		label:  "Artikkelit",
	})
}

type content struct {
	column string
	model  any
	alias  string
	name   string
	label  string
}

func (svc *Service) saveContent(ctx context.Context, issueID int, ids []int, c content) error {
	ids = uniqueIDs(ids)
	return database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		name, err := issueName(ctx, tx, issueID)
		if err != nil {
			return err
		}

		var current []int
		err = tx.NewSelect().
			Model((*models.IssueContent)(nil)).
			Column("ic."+c.column).
			Where("ic.issue_id = ?", issueID).
			Where("ic."+c.column+" IS NOT NULL").
			Order("ic.id").
			Scan(ctx, &current)
		if err != nil {
			return errors.WithStack(err)
		}
		if equalIDs(current, ids) {
			return nil
		}

		if len(ids) > 0 {
			n, err := tx.NewSelect().Model(c.model).Where(c.alias+".id IN (?)", bun.In(ids)).Count(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
			if n != len(ids) {
				return errcodes.NotFound(c.name)
			}
		}

		_, err = tx.NewDelete().
			Model((*models.IssueContent)(nil)).
			Where("issue_id = ?", issueID).
			Where(c.column + " IS NOT NULL").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		for _, id := range ids {
			row := &models.IssueContent{IssueID: issueID}
			if c.column == "shortstory_id" {
				row.ShortstoryID = &id
			} else {
				row.ArticleID = &id
			}
			if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}

		tr := &changes.Tracker{}
		tr.Touch(c.label, "")
		return changes.LogUpdate(ctx, tx, changes.TableIssue, issueID, name, tr)
	})
}

func issueName(ctx context.Context, db bun.IDB, id int) (string, error) {
	return contributors.ObjectName(ctx, db, contributors.IssueTarget(id))
}

func (svc *Service) exists(ctx context.Context, id int) error {
	exists, err := svc.db.NewSelect().Model((*models.Issue)(nil)).Where("i.id = ?", id).Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.NotFound(resource)
	}
	return nil
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
