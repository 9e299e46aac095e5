package latest_test

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/apitest"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/suomisf/suomisf/pkg/latest"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

func register(api *echo.Group, db *bun.DB, _ *auth.Middleware) {
	latest.RegisterRoutes(api, db)
}

func TestLatest(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, register)
	f := s.Fixture

	rec := s.Get("/api/latest/works/2")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	works := apitest.Decode[[]models.Work](t, rec)
	require.Len(t, works, 2)
	assert.Equal(t, f.AnthologyID, works[0].ID)
	assert.Equal(t, f.SolarisID, works[1].ID)

	editions := apitest.Decode[[]latest.EditionBrief](t, s.Get("/api/latest/editions/10"))
	require.Len(t, editions, 5)
	assert.Equal(t, f.AnthologyEdID, editions[0].ID)
	require.NotNil(t, editions[0].Work)
	assert.Equal(t, f.AnthologyID, editions[0].Work.ID)
	assert.Equal(t, "Salo, Aino (toim.)", editions[0].Work.AuthorStr)

	people := apitest.Decode[[]models.Person](t, s.Get("/api/latest/people/1"))
	require.Len(t, people, 1)
	assert.Equal(t, f.SaloID, people[0].ID)

	assert.Len(t, apitest.Decode[[]models.ShortStory](t, s.Get("/api/latest/shorts/5")), 2)
	assert.Len(t, apitest.Decode[[]models.EditionImage](t, s.Get("/api/latest/covers/5")), 1)

	rec = s.Get("/api/latest/works/0")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, apitest.Decode[[]models.Work](t, rec))

	assert.Equal(t, http.StatusBadRequest, s.Get("/api/latest/works/-1").Code)
	assert.Equal(t, http.StatusBadRequest, s.Get("/api/latest/works/x").Code)
}

func TestEditionsOfDistinctWorks(t *testing.T) {
	t.Parallel()
	s := apitest.New(t)
	f := s.Fixture

	editions, err := latest.NewService(s.DB).EditionsOfDistinctWorks(t.Context(), 4)
	require.NoError(t, err)
	ids := make([]int, 0, len(editions))
	for _, e := range editions {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []int{f.AnthologyEdID, f.SolarisEdID, f.FoundationEmpireEdID, f.FoundationEd2ID}, ids)
}
