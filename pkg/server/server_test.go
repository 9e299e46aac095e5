package server_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/suomisf/suomisf/pkg/config"
	"github.com/suomisf/suomisf/pkg/frontpage"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/suomisf/suomisf/pkg/server"
	"github.com/suomisf/suomisf/pkg/testutils"
)

type client struct {
	t *testing.T
	e *echo.Echo
}

func newClient(t *testing.T) (*client, *testutils.Fixture) {
	t.Helper()
	db := testutils.NewDB(t)
	f := testutils.Seed(t, db)
	e, err := server.NewEcho(config.NewForTest(), db)
	require.NoError(t, err)
	return &client{t, e}, f
}

func (c *client) do(method, path, body, token string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Response T   `json:"response"`
		Status   int `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	assert.Equal(t, rec.Code, env.Status)
	return env.Response
}

func (c *client) login(name, password string) auth.Tokens {
	c.t.Helper()
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, name, password)
	rec := c.do(http.MethodPost, "/api/login", body, "")
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
	var tokens auth.Tokens
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &tokens))
	return tokens
}

func TestServer_Login(t *testing.T) {
	t.Parallel()
	c, _ := newClient(t)

	tokens := c.login(testutils.AdminName, testutils.AdminPassword)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.Equal(t, models.RoleNameAdmin, tokens.Role)

	tokens = c.login(testutils.UserName, testutils.UserPassword)
	assert.Equal(t, models.RoleNameUser, tokens.Role)

	rec := c.do(http.MethodPost, "/api/login", `{"username":"Test Admin","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_FrontpageAndFilter(t *testing.T) {
	t.Parallel()
	c, _ := newClient(t)

	rec := c.do(http.MethodGet, "/api/frontpagedata", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decode[frontpage.Data](t, rec)
	assert.Equal(t, 4, data.Works)
	assert.Equal(t, 5, data.Editions)

	rec = c.do(http.MethodGet, "/api/filter/people/Asi", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	briefs := decode[[]models.Brief](t, rec)
	require.NotEmpty(t, briefs)
	for _, b := range briefs {
		assert.Contains(t, strings.ToLower(b.Text), "asi")
	}
}

func TestServer_IssueTags(t *testing.T) {
	t.Parallel()
	c, f := newClient(t)
	token := c.login(testutils.AdminName, testutils.AdminPassword).AccessToken

	read := func() []int {
		t.Helper()
		rec := c.do(http.MethodGet, fmt.Sprintf("/api/issues/%d/tags", f.IssueID), "", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var ids []int
		for _, tag := range decode[[]models.Tag](t, rec) {
			ids = append(ids, tag.ID)
		}
		return ids
	}

	before := read()
	path := fmt.Sprintf("/api/issue/%d/tags/%d", f.IssueID, f.SpaceTagID)
	require.Equal(t, http.StatusOK, c.do(http.MethodPut, path, "", token).Code)
	assert.Contains(t, read(), f.SpaceTagID)
	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, path, "", token).Code)
	assert.Equal(t, before, read())
}

func TestServer_Routing(t *testing.T) {
	t.Parallel()
	c, f := newClient(t)

	for _, path := range []string{
		fmt.Sprintf("/api/works/%d", f.FoundationID),
		fmt.Sprintf("/api/editions/%d/owners", f.SolarisEdID),
		fmt.Sprintf("/api/users/%d/stats/genres", f.UserID),
		"/api/latest/works/0",
		"/api/stats/misc",
		"/api/search/robot",
		"/api/genres",
		"/api/changes",
	} {
		assert.Equal(t, http.StatusOK, c.do(http.MethodGet, path, "", "").Code, path)
	}

	rec := c.do(http.MethodGet, "/api/nothing", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodPost, "/api/works", `{"title":"x"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	user := c.login(testutils.UserName, testutils.UserPassword).AccessToken
	rec = c.do(http.MethodPost, "/api/works", `{"title":"x"}`, user)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
