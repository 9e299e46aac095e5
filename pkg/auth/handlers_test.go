package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/binder"
	"github.com/suomisf/suomisf/pkg/config"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/testutils"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	db := testutils.NewDB(t)
	testutils.CreateUser(t, db, testutils.AdminName, testutils.AdminPassword, true)

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle
	RegisterRoutes(e.Group("/api"), db, config.NewForTest())
	return e
}

func post(e *echo.Echo, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Login(t *testing.T) {
	t.Parallel()
	e := newTestServer(t)

	rec := post(e, "/api/login", `{"username":"Test Admin","password":"testadminpass123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var tokens Tokens
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokens))
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, "admin", tokens.Role)
	assert.Equal(t, "Test Admin", tokens.User)

	// The login response isn't wrapped.
	assert.NotContains(t, rec.Body.String(), `"response"`)

	refreshed := post(e, "/api/refresh", "", tokens.RefreshToken)
	require.Equal(t, http.StatusOK, refreshed.Code)
	assert.Contains(t, refreshed.Body.String(), `"access_token"`)
}

func TestHandler_LoginFailure(t *testing.T) {
	t.Parallel()
	e := newTestServer(t)

	rec := post(e, "/api/login", `{"username":"Test Admin","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":401`)

	rec = post(e, "/api/login", `{"username":"Test Admin"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Register(t *testing.T) {
	t.Parallel()
	e := newTestServer(t)

	rec := post(e, "/api/register", `{"username":"Uusi Lukija","password":"password123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"user"`)

	rec = post(e, "/api/register", `{"username":"Uusi Lukija","password":"password123"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}
