// Package articles serves magazine articles. Articles are created through
// the import tooling; the API reads them and tags them.
package articles

import (
	"context"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/contributors"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

const resource = "Artikkeli"

// ArticleDetail is an article with the issues printing it.
type ArticleDetail struct {
	*models.Article
	Issues []*IssueRef `json:"issues"`
}

type IssueRef struct {
	ID         int    `json:"id"`
	MagazineID int    `json:"magazine_id"`
	Name       string `json:"name"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) RetrieveArticle(ctx context.Context, id int) (*ArticleDetail, error) {
	article := &models.Article{}
	err := svc.db.NewSelect().
		Model(article).
		Relation("Authors").
		Relation("People").
		Relation("Tags").
		Where("a.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, errcodes.FromDB(err, resource)
	}

	var issues []*models.Issue
	err = svc.db.NewSelect().
		Model(&issues).
		Relation("Magazine").
		Join("JOIN issue_contents AS ic ON ic.issue_id = i.id").
		Where("ic.article_id = ?", id).
		OrderExpr("i.year IS NULL, i.year, i.number, i.id").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	detail := &ArticleDetail{Article: article, Issues: make([]*IssueRef, 0, len(issues))}
	for _, i := range issues {
		detail.Issues = append(detail.Issues, &IssueRef{ID: i.ID, MagazineID: i.MagazineID, Name: contributors.IssueName(i)})
	}
	return detail, nil
}
