package stats_test

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/apitest"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/suomisf/suomisf/pkg/stats"
	"github.com/uptrace/bun"
)

func register(api *echo.Group, db *bun.DB, _ *auth.Middleware) {
	stats.RegisterRoutes(api, db)
}

func get[T any](t *testing.T, s *apitest.Server, path string) T {
	t.Helper()
	rec := s.Get(path)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return apitest.Decode[T](t, rec)
}

func TestStats_GenreCounts(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, register)

	counts := get[map[string]int](t, s, "/api/stats/genrecounts")
	assert.Len(t, counts, 10)
	assert.Equal(t, 4, counts["SF"])
}

func TestStats_PersonCounts(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, register)
	f := s.Fixture

	rows := get[[]stats.PersonCount](t, s, "/api/stats/personcounts")
	require.Len(t, rows, 3)
	assert.Equal(t, f.AsimovID, *rows[0].ID)
	assert.Equal(t, 2, rows[0].Total)
	assert.Equal(t, map[string]int{"SF": 2}, rows[0].Genres)
	assert.Equal(t, "Yhdysvallat", *rows[0].Nationality)
	assert.Equal(t, f.LemID, *rows[1].ID)
	assert.Nil(t, rows[2].ID)
	assert.Equal(t, stats.OthersName, rows[2].Name)
	assert.Zero(t, rows[2].Total)
	assert.Len(t, rows[2].Genres, 10)

	rows = get[[]stats.PersonCount](t, s, "/api/stats/personcounts?role=2&count=1")
	require.Len(t, rows, 2)
	assert.Equal(t, f.RantaID, *rows[0].ID)
	assert.Equal(t, 2, rows[0].Total)

	rows = get[[]stats.PersonCount](t, s, "/api/stats/personcounts?genre=sf")
	assert.Len(t, rows, 3)
	rows = get[[]stats.PersonCount](t, s, "/api/stats/personcounts?genre=F")
	assert.Len(t, rows, 1, "only the others row")
	assert.Equal(t, http.StatusBadRequest, s.Get("/api/stats/personcounts?genre=XYZ").Code)

	rows = get[[]stats.PersonCount](t, s, "/api/stats/storypersoncounts")
	require.Len(t, rows, 3)
	assert.Equal(t, f.AsimovID, *rows[0].ID, "ties break by id")
	assert.Equal(t, f.FrenchID, *rows[1].ID)
	assert.Equal(t, 1, rows[1].Total)
}

func TestStats_PublisherCounts(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, register)
	f := s.Fixture

	rows := get[[]stats.PublisherCount](t, s, "/api/stats/publishercounts")
	require.Len(t, rows, 3)
	assert.Equal(t, f.TammiID, *rows[0].ID)
	assert.Equal(t, 3, rows[0].Total)
	assert.Equal(t, 3, rows[0].Genres["SF"])
	assert.Equal(t, f.WSOYID, *rows[1].ID)
	assert.Equal(t, 2, rows[1].Total)
	assert.Equal(t, stats.OthersName, rows[2].Name)
}

func TestStats_ByYear(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, register)

	years := func(rows []stats.YearCount) []int {
		out := make([]int, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.Year)
		}
		return out
	}

	rows := get[[]stats.YearCount](t, s, "/api/stats/worksbyyear")
	assert.Equal(t, []int{1960, 1962, 1974, 1985}, years(rows))
	require.NotNil(t, rows[0].LanguageName)
	assert.Equal(t, "englanti", *rows[0].LanguageName)

	assert.Equal(t, []int{1951, 1952, 1961, 1985}, years(get[[]stats.YearCount](t, s, "/api/stats/origworksbyyear")))
	assert.Equal(t, []int{1941, 1950}, years(get[[]stats.YearCount](t, s, "/api/stats/storiesbyyear")))

	issues := get[[]stats.YearCount](t, s, "/api/stats/issuesperyear")
	require.Len(t, issues, 1)
	assert.Equal(t, stats.YearCount{Year: 2000, Count: 1}, issues[0])
}

func TestStats_Nationalities(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, register)

	rows := get[[]stats.NationalityCount](t, s, "/api/stats/nationalitycounts")
	require.Len(t, rows, 2)
	assert.Equal(t, "Yhdysvallat", *rows[0].Nationality)
	assert.Equal(t, 2, rows[0].Count)
	assert.Equal(t, "Puola", *rows[1].Nationality)

	rows = get[[]stats.NationalityCount](t, s, "/api/stats/storynationalitycounts")
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Count)
}

func TestStats_Misc(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, register)

	misc := get[stats.Misc](t, s, "/api/stats/misc")
	assert.Equal(t, stats.Misc{
		TotalPages:        998,
		StackHeightMeters: 0.15,
		HardbackCount:     3,
		PaperbackCount:    1,
		TotalEditions:     5,
		TotalWorks:        4,
	}, misc)
}
