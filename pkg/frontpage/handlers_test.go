package frontpage_test

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/apitest"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/suomisf/suomisf/pkg/frontpage"
	"github.com/uptrace/bun"
)

func register(api *echo.Group, db *bun.DB, _ *auth.Middleware) {
	frontpage.RegisterRoutes(api, db)
}

func TestFrontpage(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, register)
	f := s.Fixture

	rec := s.Get("/api/frontpagedata")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := apitest.Decode[frontpage.Data](t, rec)
	assert.Equal(t, 4, data.Works)
	assert.Equal(t, 5, data.Editions)
	assert.Equal(t, 5, data.People)
	assert.Equal(t, 2, data.Publishers)
	assert.Equal(t, 1, data.Pubseries)
	assert.Equal(t, 1, data.Bookseries)
	assert.Equal(t, 2, data.Shorts)
	assert.Equal(t, 1, data.Magazines)
	assert.Equal(t, 1, data.Issues)
	assert.Equal(t, 1, data.Articles)
	assert.Equal(t, 1, data.Covers)
	require.Len(t, data.Latest, frontpage.LatestCount)
	assert.Equal(t, f.AnthologyEdID, data.Latest[0].ID)

	_, err := s.DB.NewRaw("UPDATE shortstories SET story_type = 5 WHERE id = ?", f.RobotID).Exec(t.Context())
	require.NoError(t, err)
	data = apitest.Decode[frontpage.Data](t, s.Get("/api/frontpagedata"))
	assert.Equal(t, 1, data.Shorts, "articles filed as stories aren't counted")
}
