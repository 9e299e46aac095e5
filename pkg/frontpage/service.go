// Package frontpage assembles the catalog totals and newest additions shown
// on the front page.
package frontpage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/latest"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

// LatestCount is the number of newest editions on the front page.
const LatestCount = 4

// storyTypes are the story types counted as short fiction.
var storyTypes = []int{1, 2, 3}

type Data struct {
	Works      int `json:"works"`
	Editions   int `json:"editions"`
	People     int `json:"people"`
	Publishers int `json:"publishers"`
	Pubseries  int `json:"pubseries"`
	Bookseries int `json:"bookseries"`
	Shorts     int `json:"shorts"`
	Magazines  int `json:"magazines"`
	Issues     int `json:"issues"`
	Articles   int `json:"articles"`
	Covers     int `json:"covers"`

	Latest []*latest.EditionBrief `json:"latest"`
}

type Service struct {
	db            *bun.DB
	latestService *latest.Service
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db, latestService: latest.NewService(db)}
}

func (svc *Service) Retrieve(ctx context.Context) (*Data, error) {
	data := &Data{}
	counts := []struct {
		dst   *int
		model any
		where string
	}{
		{&data.Works, (*models.Work)(nil), ""},
		{&data.Editions, (*models.Edition)(nil), ""},
		{&data.People, (*models.Person)(nil), ""},
		{&data.Publishers, (*models.Publisher)(nil), ""},
		{&data.Pubseries, (*models.Pubseries)(nil), ""},
		{&data.Bookseries, (*models.Bookseries)(nil), ""},
		{&data.Shorts, (*models.ShortStory)(nil), "s.story_type IN (?)"},
		{&data.Magazines, (*models.Magazine)(nil), ""},
		{&data.Issues, (*models.Issue)(nil), ""},
		{&data.Articles, (*models.Article)(nil), ""},
		{&data.Covers, (*models.EditionImage)(nil), ""},
	}
	for _, c := range counts {
		q := svc.db.NewSelect().Model(c.model)
		if c.where != "" {
			q = q.Where(c.where, bun.In(storyTypes))
		}
		n, err := q.Count(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		*c.dst = n
	}

	var err error
	data.Latest, err = svc.latestService.EditionsOfDistinctWorks(ctx, LatestCount)
	if err != nil {
		return nil, err
	}
	return data, nil
}
