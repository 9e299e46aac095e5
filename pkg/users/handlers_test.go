package users_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/apitest"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/suomisf/suomisf/pkg/config"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/suomisf/suomisf/pkg/testutils"
	"github.com/suomisf/suomisf/pkg/users"
)

func TestUsers_ListRetrieve(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, users.RegisterRoutes)
	f := s.Fixture

	rec := s.Get("/api/users")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	list := apitest.Decode[[]models.User](t, rec)
	require.Len(t, list, 2)
	assert.NotContains(t, rec.Body.String(), "password_hash")

	rec = s.Get("/api/users?limit=1&offset=1")
	require.Equal(t, http.StatusOK, rec.Code)
	page := apitest.Decode[[]models.User](t, rec)
	require.Len(t, page, 1)
	assert.Equal(t, list[1].ID, page[0].ID)

	rec = s.Get(fmt.Sprintf("/api/users/%d", f.UserID))
	require.Equal(t, http.StatusOK, rec.Code)
	user := apitest.Decode[models.User](t, rec)
	assert.Equal(t, testutils.UserName, user.Name)
	assert.False(t, user.IsAdmin)

	assert.Equal(t, http.StatusNotFound, s.Get("/api/users/999").Code)
	assert.Equal(t, http.StatusBadRequest, s.Get("/api/users/abc").Code)
}

func TestUsers_Genres(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, users.RegisterRoutes)
	f := s.Fixture

	rec := s.Get(fmt.Sprintf("/api/users/%d/stats/genres", f.UserID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	counts := apitest.Decode[[]users.GenreCount](t, rec)
	require.Len(t, counts, 1, "the wished edition is not counted")
	assert.Equal(t, 1, counts[0].ID)
	assert.Equal(t, 1, counts[0].Count)

	rec = s.Get(fmt.Sprintf("/api/users/%d/stats/genres", f.AdminID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, apitest.Decode[[]users.GenreCount](t, rec))
	assert.Equal(t, http.StatusNotFound, s.Get("/api/users/999/stats/genres").Code)
}

func TestUsers_Update(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, users.RegisterRoutes)
	f := s.Fixture
	self := fmt.Sprintf("/api/users/%d", f.UserID)

	assert.Equal(t, http.StatusUnauthorized, s.Do(http.MethodPut, self, `{"language_id":1}`, "").Code)
	rec := s.Do(http.MethodPut, self, `{"language_id":1}`, s.UserToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	user := apitest.Decode[models.User](t, rec)
	require.NotNil(t, user.LanguageID)
	assert.Equal(t, 1, *user.LanguageID)

	assert.Equal(t, http.StatusNotFound, s.Do(http.MethodPut, self, `{"language_id":999}`, s.UserToken).Code)
	assert.Equal(t, http.StatusForbidden, s.Do(http.MethodPut, self, `{"is_admin":true}`, s.UserToken).Code)
	assert.Equal(t, http.StatusForbidden, s.Do(http.MethodPut, fmt.Sprintf("/api/users/%d", f.AdminID), `{"name":"x y"}`, s.UserToken).Code)
	assert.Equal(t, http.StatusConflict, s.Do(http.MethodPut, self, fmt.Sprintf(`{"name":%q}`, testutils.AdminName), s.UserToken).Code)

	rec = s.Admin(http.MethodPut, self, `{"is_admin":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, apitest.Decode[models.User](t, rec).IsAdmin)
}

func TestUsers_ResetPassword(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, users.RegisterRoutes)
	f := s.Fixture
	ctx := t.Context()
	authService := auth.NewService(s.DB, config.NewForTest())
	path := fmt.Sprintf("/api/users/%d/password", f.UserID)

	assert.Equal(t, http.StatusBadRequest, s.Do(http.MethodPut, path, `{"new_password":"uusisalasana1"}`, s.UserToken).Code)
	assert.Equal(t, http.StatusBadRequest, s.Do(http.MethodPut, path, `{"current_password":"wrong","new_password":"uusisalasana1"}`, s.UserToken).Code)
	assert.Equal(t, http.StatusBadRequest, s.Do(http.MethodPut, path, `{"current_password":"testuserpass123","new_password":"short"}`, s.UserToken).Code)

	rec := s.Do(http.MethodPut, path, `{"current_password":"testuserpass123","new_password":"uusisalasana1"}`, s.UserToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	_, err := authService.Authenticate(ctx, testutils.UserName, "uusisalasana1")
	require.NoError(t, err)

	admin := fmt.Sprintf("/api/users/%d/password", f.AdminID)
	assert.Equal(t, http.StatusForbidden, s.Do(http.MethodPut, admin, `{"new_password":"uusisalasana2"}`, s.UserToken).Code)

	// Administrators reset other passwords without knowing them.
	require.Equal(t, http.StatusOK, s.Admin(http.MethodPut, path, `{"new_password":"adminreset123"}`).Code)
	_, err = authService.Authenticate(ctx, testutils.UserName, "adminreset123")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, s.Admin(http.MethodPut, "/api/users/999/password", `{"new_password":"adminreset123"}`).Code)
}
