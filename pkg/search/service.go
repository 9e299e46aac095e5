package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/database"
	"github.com/suomisf/suomisf/pkg/htmlutil"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/suomisf/suomisf/pkg/sortname"
	"github.com/uptrace/bun"
)

const snippetRadius = 60

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

type searchFunc func(ctx context.Context, word string) ([]Result, error)

// Search matches every word of pattern against works, people, stories,
// articles, publishers and tags. A hit's score is the sum of its per-word
// scores. Results are ordered by score and then by header and capped at
// MaxResults.
func (svc *Service) Search(ctx context.Context, pattern string) ([]Result, error) {
	words := Words(pattern)
	if len(words) == 0 {
		return []Result{}, nil
	}

	funcs := []searchFunc{
		svc.searchWorksInternal,
		svc.searchPeopleInternal,
		svc.searchStoriesInternal,
		svc.searchArticlesInternal,
		svc.searchPublishersInternal,
		svc.searchTagsInternal,
	}

	found := map[string]*Result{}
	var order []string
	for _, word := range words {
		for _, fn := range funcs {
			results, err := fn(ctx, word)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			for _, r := range results {
				key := fmt.Sprintf("%s:%d", r.Type, r.ID)
				if prev, ok := found[key]; ok {
					prev.Score += r.Score
					continue
				}
				found[key] = &r
				order = append(order, key)
			}
		}
	}

	out := make([]Result, 0, len(order))
	for _, key := range order {
		out = append(out, *found[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return sortname.Less(out[i].Header, out[j].Header)
	})
	if len(out) > MaxResults {
		out = out[:MaxResults]
	}
	return out, nil
}

func (svc *Service) searchWorksInternal(ctx context.Context, word string) ([]Result, error) {
	var works []*models.Work
	q := svc.db.NewSelect().Model(&works)
	err := matching(q, word, "w.title", "w.subtitle", "w.orig_title", "w.misc", "w.description").
		Order("w.title").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	results := make([]Result, 0, len(works))
	for _, w := range works {
		results = append(results, Result{
			ID:          w.ID,
			Header:      w.Title,
			Description: describe(w.Description, word),
			Author:      w.AuthorStr,
			Type:        TypeWork,
			Score:       score(word, ScoreWorkTitle, ScoreWorkOther, w.Title),
		})
	}
	return results, nil
}

func (svc *Service) searchPeopleInternal(ctx context.Context, word string) ([]Result, error) {
	var people []*models.Person
	q := svc.db.NewSelect().Model(&people).Relation("Nationality")
	err := matching(q, word, "p.name", "p.alt_name", "p.fullname", "p.other_names", "p.bio").
		Order("p.name").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	results := make([]Result, 0, len(people))
	for _, p := range people {
		names := []string{p.Name}
		for _, n := range []*string{p.AltName, p.FullName} {
			if n != nil {
				names = append(names, *n)
			}
		}
		results = append(results, Result{
			ID:          p.ID,
			Header:      p.Name,
			Description: personDescription(p, word),
			Type:        TypePerson,
			Score:       score(word, ScorePersonName, ScorePersonOther, names...),
		})
	}
	return results, nil
}

func (svc *Service) searchStoriesInternal(ctx context.Context, word string) ([]Result, error) {
	var stories []*models.ShortStory
	q := svc.db.NewSelect().Model(&stories)
	err := matching(q, word, "s.title", "s.orig_title").
		Order("s.title").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	results := make([]Result, 0, len(stories))
	for _, s := range stories {
		results = append(results, Result{
			ID:     s.ID,
			Header: s.Title,
			Author: s.AuthorStr,
			Type:   TypeStory,
			Score:  score(word, ScoreStoryName, ScoreStoryOther, s.Title),
		})
	}
	return results, nil
}

func (svc *Service) searchArticlesInternal(ctx context.Context, word string) ([]Result, error) {
	var articles []*models.Article
	q := svc.db.NewSelect().Model(&articles).Relation("Authors")
	err := matching(q, word, "a.title", "a.excerpt").
		Order("a.title").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	results := make([]Result, 0, len(articles))
	for _, a := range articles {
		authors := make([]string, 0, len(a.Authors))
		for _, p := range a.Authors {
			authors = append(authors, p.Name)
		}
		results = append(results, Result{
			ID:          a.ID,
			Header:      a.Title,
			Description: describe(a.Excerpt, word),
			Author:      sortname.JoinAuthors(authors),
			Type:        TypeArticle,
			Score:       score(word, ScoreArticleTitle, ScoreArticleOther, a.Title),
		})
	}
	return results, nil
}

func (svc *Service) searchPublishersInternal(ctx context.Context, word string) ([]Result, error) {
	var publishers []*models.Publisher
	q := svc.db.NewSelect().Model(&publishers)
	err := matching(q, word, "pb.name", "pb.fullname", "pb.description").
		Order("pb.name").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	results := make([]Result, 0, len(publishers))
	for _, p := range publishers {
		results = append(results, Result{
			ID:          p.ID,
			Header:      p.Name,
			Description: describe(p.Description, word),
			Type:        TypePublisher,
			Score:       score(word, ScorePublisherName, ScorePublisherOther, p.Name, p.FullName),
		})
	}
	return results, nil
}

func (svc *Service) searchTagsInternal(ctx context.Context, word string) ([]Result, error) {
	var tags []*models.Tag
	q := svc.db.NewSelect().Model(&tags)
	err := matching(q, word, "t.name", "t.description").
		Order("t.name").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	results := make([]Result, 0, len(tags))
	for _, t := range tags {
		results = append(results, Result{
			ID:          t.ID,
			Header:      t.Name,
			Description: describe(t.Description, word),
			Type:        TypeTag,
			Score:       score(word, ScoreTagName, ScoreTagOther, t.Name),
		})
	}
	return results, nil
}

// matching restricts q to rows where any of columns contains word.
func matching(q *bun.SelectQuery, word string, columns ...string) *bun.SelectQuery {
	return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
		for _, col := range columns {
			q = q.WhereOr(col+" GLOB ?", database.GlobContains(word))
		}
		return q
	})
}

// score returns name, plus StartsWith when a name starts with word, if any of
// names contains word, and other otherwise.
func score(word string, name, other int, names ...string) int {
	contains := false
	for _, n := range names {
		n = strings.ToLower(n)
		if strings.HasPrefix(n, word) {
			return name + ScoreStartsWith
		}
		if strings.Contains(n, word) {
			contains = true
		}
	}
	if contains {
		return name
	}
	return other
}

// describe returns the part of text around word, or the start of text when
// the word isn't in it.
func describe(text *string, word string) string {
	if text == nil {
		return ""
	}
	if s := htmlutil.Snippet(*text, word, snippetRadius); s != "" {
		return s
	}
	return htmlutil.Truncate(strings.ReplaceAll(htmlutil.StripTags(*text), "\n", " "), 2*snippetRadius)
}

func personDescription(p *models.Person, word string) string {
	var parts []string
	if p.Nationality != nil {
		parts = append(parts, p.Nationality.Name)
	}
	if p.Dob != nil || p.Dod != nil {
		var dob, dod string
		if p.Dob != nil {
			dob = fmt.Sprint(*p.Dob)
		}
		if p.Dod != nil {
			dod = fmt.Sprint(*p.Dod)
		}
		parts = append(parts, "("+dob+"-"+dod+")")
	}
	if bio := describe(p.Bio, word); bio != "" {
		parts = append(parts, bio)
	}
	return strings.Join(parts, " ")
}
