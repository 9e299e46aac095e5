package search_test

import (
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/apitest"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/suomisf/suomisf/pkg/search"
	"github.com/uptrace/bun"
)

func register(api *echo.Group, db *bun.DB, _ *auth.Middleware) {
	search.RegisterRoutes(api, db)
}

type hit struct {
	Type  string
	ID    int
	Score int
}

func hits(results []search.Result) []hit {
	out := make([]hit, 0, len(results))
	for _, r := range results {
		out = append(out, hit{r.Type, r.ID, r.Score})
	}
	return out
}

func TestSearch(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, register)
	f := s.Fixture

	get := func(pattern string) []search.Result {
		t.Helper()
		rec := s.Get("/api/search/" + pattern)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return apitest.Decode[[]search.Result](t, rec)
	}

	results := get("robot")
	assert.Equal(t, []hit{
		{search.TypeStory, f.RobotID, search.ScoreStoryName + search.ScoreStartsWith},
		{search.TypeTag, f.RobotTagID, search.ScoreTagName + search.ScoreStartsWith},
		{search.TypeArticle, f.ArticleID, search.ScoreArticleTitle},
	}, hits(results))
	assert.Equal(t, "Robotti", results[0].Header)
	assert.Equal(t, "French, Paul", results[0].Author)

	results = get("asimov%20isaac")
	require.Len(t, results, 2)
	assert.Equal(t, hit{search.TypePerson, f.AsimovID, 2 * (search.ScorePersonName + search.ScoreStartsWith)}, hits(results)[0])
	assert.Equal(t, "Yhdysvallat (1920-1992)", results[0].Description)
	assert.Equal(t, search.TypeArticle, results[1].Type)

	results = get("imperiumi")
	require.Len(t, results, 2)
	assert.Equal(t, f.FoundationEmpireID, results[0].ID, "title hit ranks first")
	assert.Equal(t, search.ScoreWorkTitle, results[0].Score)
	assert.Equal(t, f.FoundationID, results[1].ID)
	assert.Equal(t, search.ScoreWorkOther, results[1].Score)
	assert.Contains(t, results[1].Description, "Galaktinen imperiumi")

	assert.Contains(t, hits(get("STANIS%C5%81AW")), hit{search.TypePerson, f.LemID, search.ScorePersonName + search.ScoreStartsWith})

	assert.Empty(t, get("a"))
	assert.Empty(t, get("zzzz"))
	assert.Empty(t, get("%25%25"))
}

func TestWords(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"asimov", "isaac"}, search.Words("  Asimov a ISAAC asimov "))
	assert.Empty(t, search.Words(" x "))
	long := search.Words(strings.Repeat("ö", 200))
	require.Len(t, long, 1)
	assert.Equal(t, 100, utf8.RuneCountInString(long[0]))
}
