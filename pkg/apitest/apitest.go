// Package apitest runs handlers against a seeded in-memory catalog through a
// real echo instance, binder and error handler.
package apitest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/suomisf/suomisf/pkg/binder"
	"github.com/suomisf/suomisf/pkg/config"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/testutils"
	"github.com/uptrace/bun"
)

// RegisterFunc registers the routes under test on the /api group.
type RegisterFunc func(api *echo.Group, db *bun.DB, authMiddleware *auth.Middleware)

type Server struct {
	Echo    *echo.Echo
	DB      *bun.DB
	Fixture *testutils.Fixture

	AdminToken string
	UserToken  string
}

// New seeds a fresh database and serves the routes of every register func.
func New(t testing.TB, register ...RegisterFunc) *Server {
	t.Helper()
	db := testutils.NewDB(t)
	fixture := testutils.Seed(t, db)
	return NewWithDB(t, db, fixture, register...)
}

// NewWithDB is New for a database the caller already prepared.
func NewWithDB(t testing.TB, db *bun.DB, fixture *testutils.Fixture, register ...RegisterFunc) *Server {
	t.Helper()
	cfg := config.NewForTest()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	api := e.Group("/api")
	authService := auth.RegisterRoutes(api, db, cfg)
	authMiddleware := auth.NewMiddleware(authService)
	for _, r := range register {
		r(api, db, authMiddleware)
	}

	s := &Server{Echo: e, DB: db, Fixture: fixture}
	s.AdminToken = s.token(t, authService, testutils.AdminName, testutils.AdminPassword)
	s.UserToken = s.token(t, authService, testutils.UserName, testutils.UserPassword)
	return s
}

func (s *Server) token(t testing.TB, svc *auth.Service, name, password string) string {
	t.Helper()
	user, err := svc.Authenticate(t.Context(), name, password)
	if err != nil {
		return ""
	}
	tokens, err := svc.IssueTokens(user)
	require.NoError(t, err)
	return tokens.AccessToken
}

// Do sends one request. body may be empty; token may be empty for
// anonymous requests.
func (s *Server) Do(method, path, body, token string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

// Get sends an anonymous GET.
func (s *Server) Get(path string) *httptest.ResponseRecorder {
	return s.Do(http.MethodGet, path, "", "")
}

// Admin sends a request with the admin token.
func (s *Server) Admin(method, path, body string) *httptest.ResponseRecorder {
	return s.Do(method, path, body, s.AdminToken)
}

type envelope[T any] struct {
	Response T   `json:"response"`
	Status   int `json:"status"`
}

// Decode unwraps the response envelope of rec into T and checks that the
// envelope status matches the HTTP status.
func Decode[T any](t testing.TB, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.Equal(t, rec.Code, env.Status)
	return env.Response
}
