package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/testutils"
)

func runMiddleware(t *testing.T, mw echo.MiddlewareFunc, token string) (echo.Context, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/works", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return nil
	})(c)
	return c, called, err
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()
	svc, db := newTestService(t)
	mw := NewMiddleware(svc)

	admin := testutils.CreateUser(t, db, testutils.AdminName, testutils.AdminPassword, true)
	user := testutils.CreateUser(t, db, testutils.UserName, testutils.UserPassword, false)
	demo := testutils.CreateUser(t, db, "demo_admin", "demopass123", false)

	adminTokens, err := svc.IssueTokens(admin)
	require.NoError(t, err)
	userTokens, err := svc.IssueTokens(user)
	require.NoError(t, err)
	demoTokens, err := svc.IssueTokens(demo)
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		wantCode int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized},
		{"refresh token", adminTokens.RefreshToken, http.StatusUnauthorized},
		{"regular user", userTokens.AccessToken, http.StatusForbidden},
		{"admin", adminTokens.AccessToken, 0},
		{"demo admin", demoTokens.AccessToken, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, called, err := runMiddleware(t, mw.RequireAdmin, tt.token)
			if tt.wantCode == 0 {
				require.NoError(t, err)
				assert.True(t, called)
				return
			}
			assert.False(t, called)
			var codeErr *errcodes.Error
			require.ErrorAs(t, err, &codeErr)
			assert.Equal(t, tt.wantCode, codeErr.HTTPCode)
		})
	}
}

func TestAuthenticate_StoresUserOnRequestContext(t *testing.T) {
	t.Parallel()
	svc, db := newTestService(t)
	mw := NewMiddleware(svc)

	user := testutils.CreateUser(t, db, testutils.UserName, testutils.UserPassword, false)
	tokens, err := svc.IssueTokens(user)
	require.NoError(t, err)

	c, called, err := runMiddleware(t, mw.Authenticate, tokens.AccessToken)
	require.NoError(t, err)
	assert.True(t, called)

	fromCtx := UserFromContext(c.Request().Context())
	require.NotNil(t, fromCtx)
	assert.Equal(t, user.ID, fromCtx.ID)
	require.NotNil(t, UserIDFromContext(c.Request().Context()))
}

func TestAuthenticateOptional_AllowsAnonymous(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	mw := NewMiddleware(svc)

	c, called, err := runMiddleware(t, mw.AuthenticateOptional, "")
	require.NoError(t, err)
	assert.True(t, called)
	assert.Nil(t, UserFromContext(c.Request().Context()))

	_, called, err = runMiddleware(t, mw.AuthenticateOptional, "broken")
	require.NoError(t, err)
	assert.True(t, called)
}
