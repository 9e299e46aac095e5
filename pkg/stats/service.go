// Package stats computes the aggregate figures of the statistics pages.
package stats

import (
	"context"
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

// Top-N lists hold between MinTop and MaxTop named rows followed by the
// OthersName row.
const (
	MinTop     = 10
	MaxTop     = 20
	OthersName = "Muut"
)

// Stack height of a hundred pages in metres.
const pageStack = 0.015

// PersonCount is one row of a person top list. The closing others row has
// no id.
type PersonCount struct {
	ID          *int           `json:"id"`
	Name        string         `json:"name"`
	AltName     *string        `json:"alt_name"`
	Nationality *string        `json:"nationality"`
	Genres      map[string]int `json:"genres"`
	Total       int            `json:"total"`
}

type PublisherCount struct {
	ID       *int           `json:"id"`
	Name     string         `json:"name"`
	FullName *string        `json:"fullname"`
	Genres   map[string]int `json:"genres"`
	Total    int            `json:"total"`
}

type YearCount struct {
	Year         int     `bun:"year" json:"year"`
	Count        int     `bun:"count" json:"count"`
	LanguageID   *int    `bun:"language_id" json:"language_id,omitempty"`
	LanguageName *string `bun:"language_name" json:"language_name,omitempty"`
}

type NationalityCount struct {
	NationalityID *int    `bun:"nationality_id" json:"nationality_id"`
	Nationality   *string `bun:"nationality" json:"nationality"`
	Count         int     `bun:"count" json:"count"`
}

type Misc struct {
	TotalPages        int     `json:"total_pages"`
	StackHeightMeters float64 `json:"stack_height_meters"`
	HardbackCount     int     `json:"hardback_count"`
	PaperbackCount    int     `json:"paperback_count"`
	TotalEditions     int     `json:"total_editions"`
	TotalWorks        int     `json:"total_works"`
}

// unit is what a person top list counts: works or short stories.
type unit struct {
	column      string
	genreTable  string
	genreColumn string
}

var (
	workUnit  = unit{"pt.work_id", "work_genres", "work_id"}
	storyUnit = unit{"pt.shortstory_id", "story_genres", "shortstory_id"}
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// clampTop bounds a requested top-N size.
func clampTop(n int) int {
	return min(max(n, MinTop), MaxTop)
}

func (svc *Service) genres(ctx context.Context) ([]*models.Genre, error) {
	var genres []*models.Genre
	err := svc.db.NewSelect().Model(&genres).Order("g.id").Scan(ctx)
	return genres, errors.WithStack(err)
}

// GenreCounts maps every genre abbreviation to its number of works.
func (svc *Service) GenreCounts(ctx context.Context) (map[string]int, error) {
	genres, err := svc.genres(ctx)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		GenreID int `bun:"genre_id"`
		Count   int `bun:"count"`
	}
	err = svc.db.NewSelect().
		TableExpr("work_genres").
		ColumnExpr("genre_id, COUNT(*) AS count").
		Group("genre_id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	out := make(map[string]int, len(genres))
	for _, g := range genres {
		out[g.Abbr] = 0
	}
	abbrs := abbrByID(genres)
	for _, r := range rows {
		out[abbrs[r.GenreID]] = r.Count
	}
	return out, nil
}

// PersonCounts ranks the people with role on works.
func (svc *Service) PersonCounts(ctx context.Context, q PersonCountsQuery) ([]*PersonCount, error) {
	return svc.personCounts(ctx, workUnit, q)
}

// StoryPersonCounts ranks the people with role on short stories.
func (svc *Service) StoryPersonCounts(ctx context.Context, q PersonCountsQuery) ([]*PersonCount, error) {
	return svc.personCounts(ctx, storyUnit, q)
}

func (svc *Service) personCounts(ctx context.Context, u unit, q PersonCountsQuery) ([]*PersonCount, error) {
	genres, err := svc.genres(ctx)
	if err != nil {
		return nil, err
	}
	var genreID *int
	if q.Genre != nil && *q.Genre != "" {
		for _, g := range genres {
			if strings.EqualFold(g.Abbr, *q.Genre) {
				genreID = &g.ID
				break
			}
		}
		if genreID == nil {
			return nil, errcodes.BadRequest("Tuntematon genre: " + *q.Genre + ".")
		}
	}

	base := func(sq *bun.SelectQuery) *bun.SelectQuery {
		sq = sq.TableExpr("contributors AS c").
			Join("JOIN parts AS pt ON pt.id = c.part_id").
			Where("c.role_id = ?", q.Role).
			Where(u.column + " IS NOT NULL")
		if u == workUnit {
			sq = sq.Where("pt.shortstory_id IS NULL")
		}
		return sq
	}

	var totals []struct {
		PersonID int `bun:"person_id"`
		Total    int `bun:"total"`
	}
	tq := base(svc.db.NewSelect()).
		ColumnExpr("c.person_id, COUNT(DISTINCT " + u.column + ") AS total").
		Group("c.person_id").
		OrderExpr("total DESC, c.person_id")
	if genreID != nil {
		tq = tq.Where(u.column+" IN (SELECT "+u.genreColumn+" FROM "+u.genreTable+" WHERE genre_id = ?)", *genreID)
	}
	if err := tq.Scan(ctx, &totals); err != nil {
		return nil, errors.WithStack(err)
	}

	var breakdown []struct {
		PersonID int `bun:"person_id"`
		GenreID  int `bun:"genre_id"`
		Count    int `bun:"count"`
	}
	err = base(svc.db.NewSelect()).
		Join("JOIN "+u.genreTable+" AS gx ON gx."+u.genreColumn+" = "+u.column).
		ColumnExpr("c.person_id, gx.genre_id, COUNT(DISTINCT "+u.column+") AS count").
		Group("c.person_id", "gx.genre_id").
		Scan(ctx, &breakdown)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	abbrs := abbrByID(genres)
	perPerson := map[int]map[string]int{}
	for _, b := range breakdown {
		if perPerson[b.PersonID] == nil {
			perPerson[b.PersonID] = map[string]int{}
		}
		perPerson[b.PersonID][abbrs[b.GenreID]] = b.Count
	}

	top := clampTop(q.Count)
	ids := make([]int, 0, top)
	for i, t := range totals {
		if i == top {
			break
		}
		ids = append(ids, t.PersonID)
	}
	people := map[int]*models.Person{}
	if len(ids) > 0 {
		var rows []*models.Person
		err := svc.db.NewSelect().Model(&rows).Relation("Nationality").Where("p.id IN (?)", bun.In(ids)).Scan(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		for _, p := range rows {
			people[p.ID] = p
		}
	}

	out := make([]*PersonCount, 0, len(ids)+1)
	others := &PersonCount{Name: OthersName, Genres: zeroGenres(genres)}
	for i, t := range totals {
		if i >= top {
			for abbr, n := range perPerson[t.PersonID] {
				others.Genres[abbr] += n
			}
			others.Total += t.Total
			continue
		}
		row := &PersonCount{ID: &totals[i].PersonID, Genres: perPerson[t.PersonID], Total: t.Total}
		if row.Genres == nil {
			row.Genres = map[string]int{}
		}
		if p := people[t.PersonID]; p != nil {
			row.Name, row.AltName = p.Name, p.AltName
			if p.Nationality != nil {
				row.Nationality = &p.Nationality.Name
			}
		}
		out = append(out, row)
	}
	return append(out, others), nil
}

// PublisherCounts ranks publishers by their number of editions.
func (svc *Service) PublisherCounts(ctx context.Context, q PublisherCountsQuery) ([]*PublisherCount, error) {
	genres, err := svc.genres(ctx)
	if err != nil {
		return nil, err
	}

	var totals []struct {
		ID       int    `bun:"id"`
		Name     string `bun:"name"`
		FullName string `bun:"fullname"`
		Total    int    `bun:"total"`
	}
	err = svc.db.NewSelect().
		TableExpr("publishers AS pb").
		Join("JOIN editions AS e ON e.publisher_id = pb.id").
		ColumnExpr("pb.id, pb.name, pb.fullname, COUNT(DISTINCT e.id) AS total").
		Group("pb.id").
		OrderExpr("total DESC, pb.id").
		Scan(ctx, &totals)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var breakdown []struct {
		PublisherID int `bun:"publisher_id"`
		GenreID     int `bun:"genre_id"`
		Count       int `bun:"count"`
	}
	err = svc.db.NewSelect().
		TableExpr("editions AS e").
		Join("JOIN parts AS pt ON pt.edition_id = e.id AND pt.shortstory_id IS NULL").
		Join("JOIN work_genres AS wg ON wg.work_id = pt.work_id").
		ColumnExpr("e.publisher_id, wg.genre_id, COUNT(DISTINCT e.id) AS count").
		Where("e.publisher_id IS NOT NULL").
		Group("e.publisher_id", "wg.genre_id").
		Scan(ctx, &breakdown)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	abbrs := abbrByID(genres)
	perPublisher := map[int]map[string]int{}
	for _, b := range breakdown {
		if perPublisher[b.PublisherID] == nil {
			perPublisher[b.PublisherID] = map[string]int{}
		}
		perPublisher[b.PublisherID][abbrs[b.GenreID]] = b.Count
	}

	top := clampTop(q.Count)
	out := make([]*PublisherCount, 0, min(len(totals), top)+1)
	others := &PublisherCount{Name: OthersName, Genres: zeroGenres(genres)}
	for i, t := range totals {
		if i >= top {
			for abbr, n := range perPublisher[t.ID] {
				others.Genres[abbr] += n
			}
			others.Total += t.Total
			continue
		}
		row := &PublisherCount{ID: &totals[i].ID, Name: t.Name, FullName: &totals[i].FullName, Genres: perPublisher[t.ID], Total: t.Total}
		if row.Genres == nil {
			row.Genres = map[string]int{}
		}
		out = append(out, row)
	}
	return append(out, others), nil
}

// WorksByYear counts first editions per publication year and work language.
func (svc *Service) WorksByYear(ctx context.Context) ([]*YearCount, error) {
	rows := []*YearCount{}
	err := svc.db.NewSelect().
		TableExpr("editions AS e").
		Join("LEFT JOIN parts AS pt ON pt.edition_id = e.id AND pt.shortstory_id IS NULL").
		Join("LEFT JOIN works AS w ON w.id = pt.work_id").
		Join("LEFT JOIN languages AS l ON l.id = w.language").
		ColumnExpr("e.pubyear AS year, COUNT(DISTINCT e.id) AS count, l.id AS language_id, l.name AS language_name").
		Where("e.pubyear IS NOT NULL").
		Where("e.editionnum IS NULL OR e.editionnum = 1").
		Where("e.version IS NULL OR e.version = 1").
		Group("e.pubyear", "l.id").
		OrderExpr("e.pubyear, l.name").
		Scan(ctx, &rows)
	return rows, errors.WithStack(err)
}

// OrigWorksByYear counts works per original publication year and language.
func (svc *Service) OrigWorksByYear(ctx context.Context) ([]*YearCount, error) {
	return svc.byYearAndLanguage(ctx, "works", "w")
}

// StoriesByYear counts short stories per original publication year and
// language.
func (svc *Service) StoriesByYear(ctx context.Context) ([]*YearCount, error) {
	return svc.byYearAndLanguage(ctx, "shortstories", "s")
}

func (svc *Service) byYearAndLanguage(ctx context.Context, table, alias string) ([]*YearCount, error) {
	rows := []*YearCount{}
	err := svc.db.NewSelect().
		TableExpr(table+" AS "+alias).
		Join("LEFT JOIN languages AS l ON l.id = "+alias+".language").
		ColumnExpr(alias+".pubyear AS year, COUNT(*) AS count, l.id AS language_id, l.name AS language_name").
		Where(alias+".pubyear > 0").
		Group(alias+".pubyear", "l.id").
		OrderExpr(alias+".pubyear, l.name").
		Scan(ctx, &rows)
	return rows, errors.WithStack(err)
}

func (svc *Service) IssuesPerYear(ctx context.Context) ([]*YearCount, error) {
	rows := []*YearCount{}
	err := svc.db.NewSelect().
		TableExpr("issues AS i").
		ColumnExpr("i.year AS year, COUNT(*) AS count").
		Where("i.year IS NOT NULL").
		Group("i.year").
		Order("i.year").
		Scan(ctx, &rows)
	return rows, errors.WithStack(err)
}

// NationalityCounts counts works per author nationality.
func (svc *Service) NationalityCounts(ctx context.Context) ([]*NationalityCount, error) {
	return svc.nationalityCounts(ctx, workUnit)
}

// StoryNationalityCounts counts short stories per author nationality.
func (svc *Service) StoryNationalityCounts(ctx context.Context) ([]*NationalityCount, error) {
	return svc.nationalityCounts(ctx, storyUnit)
}

func (svc *Service) nationalityCounts(ctx context.Context, u unit) ([]*NationalityCount, error) {
	rows := []*NationalityCount{}
	q := svc.db.NewSelect().
		TableExpr("contributors AS c").
		Join("JOIN parts AS pt ON pt.id = c.part_id").
		Join("JOIN persons AS p ON p.id = c.person_id").
		Join("LEFT JOIN countries AS co ON co.id = p.nationality_id").
		ColumnExpr("co.id AS nationality_id, co.name AS nationality, COUNT(DISTINCT "+u.column+") AS count").
		Where("c.role_id = ?", models.RoleAuthor).
		Where(u.column + " IS NOT NULL")
	if u == workUnit {
		q = q.Where("pt.shortstory_id IS NULL")
	}
	err := q.Group("co.id", "co.name").
		OrderExpr("count DESC, co.id").
		Scan(ctx, &rows)
	return rows, errors.WithStack(err)
}

// Misc collects totals over first editions and the whole catalog.
func (svc *Service) Misc(ctx context.Context) (*Misc, error) {
	out := &Misc{}
	firstEditions := func() *bun.SelectQuery {
		return svc.db.NewSelect().
			Model((*models.Edition)(nil)).
			Where("e.editionnum IS NULL OR e.editionnum = 1").
			Where("e.version IS NULL OR e.version = 1")
	}

	var pages *int
	err := firstEditions().ColumnExpr("SUM(e.pages)").Where("e.pages IS NOT NULL").Scan(ctx, &pages)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if pages != nil {
		out.TotalPages = *pages
	}
	out.StackHeightMeters = math.Round(float64(out.TotalPages)/100*pageStack*100) / 100

	var bindings []*models.BindingType
	if err := svc.db.NewSelect().Model(&bindings).Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	var hardback, paperback []int
	for _, b := range bindings {
		switch name := strings.ToLower(b.Name); {
		case containsAny(name, "sidottu", "kovakantinen", "hard"):
			hardback = append(hardback, b.ID)
		case containsAny(name, "nidottu", "pehmeäkantinen", "pokkari", "paperback", "soft"):
			paperback = append(paperback, b.ID)
		}
	}
	for _, c := range []struct {
		dst *int
		ids []int
	}{
		{&out.HardbackCount, hardback},
		{&out.PaperbackCount, paperback},
	} {
		if len(c.ids) == 0 {
			continue
		}
		if *c.dst, err = firstEditions().Where("e.binding_id IN (?)", bun.In(c.ids)).Count(ctx); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	if out.TotalEditions, err = svc.db.NewSelect().Model((*models.Edition)(nil)).Count(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	if out.TotalWorks, err = svc.db.NewSelect().Model((*models.Work)(nil)).Count(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return out, nil
}

func abbrByID(genres []*models.Genre) map[int]string {
	out := make(map[int]string, len(genres))
	for _, g := range genres {
		out[g.ID] = g.Abbr
	}
	return out
}

func zeroGenres(genres []*models.Genre) map[string]int {
	out := make(map[string]int, len(genres))
	for _, g := range genres {
		out[g.Abbr] = 0
	}
	return out
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
