package collection_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/apitest"
	"github.com/suomisf/suomisf/pkg/collection"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/suomisf/suomisf/pkg/testutils"
)

func TestCollection_Owners(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, collection.RegisterRoutes)
	f := s.Fixture

	rec := s.Get(fmt.Sprintf("/api/editions/%d/owners", f.SolarisEdID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	owners := apitest.Decode[[]models.UserBook](t, rec)
	require.Len(t, owners, 1)
	require.NotNil(t, owners[0].User)
	assert.Equal(t, testutils.UserName, owners[0].User.Name)
	require.NotNil(t, owners[0].Condition)
	assert.Equal(t, "Hyvä", owners[0].Condition.Name)

	rec = s.Get(fmt.Sprintf("/api/editions/%d/owners", f.FoundationEmpireEdID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, apitest.Decode[[]models.UserBook](t, rec), "wishes are not owners")
	assert.Equal(t, http.StatusNotFound, s.Get("/api/editions/999/owners").Code)

	rec = s.Get(fmt.Sprintf("/api/editions/%d/owner/%d", f.SolarisEdID, f.UserID))
	require.Equal(t, http.StatusOK, rec.Code)
	row := apitest.Decode[models.UserBook](t, rec)
	require.NotNil(t, row.Price)
	assert.Equal(t, 5, *row.Price)
	assert.Equal(t, http.StatusNotFound, s.Get(fmt.Sprintf("/api/editions/%d/owner/%d", f.FoundationEmpireEdID, f.UserID)).Code)

	rec = s.Get(fmt.Sprintf("/api/editions/owned/%d", f.UserID))
	require.Equal(t, http.StatusOK, rec.Code)
	owned := apitest.Decode[[]models.UserBook](t, rec)
	require.Len(t, owned, 1)
	require.NotNil(t, owned[0].Edition)
	assert.Equal(t, f.SolarisEdID, owned[0].Edition.ID)
	assert.Equal(t, http.StatusNotFound, s.Get("/api/editions/owned/999").Code)
	assert.Equal(t, http.StatusBadRequest, s.Get("/api/editions/owned/x").Code)
}

func TestCollection_AddOwner(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, collection.RegisterRoutes)
	f := s.Fixture

	body := fmt.Sprintf(`{"edition_id":%d,"user_id":%d,"condition_id":1,"price":12}`, f.FoundationEd1ID, f.UserID)
	assert.Equal(t, http.StatusUnauthorized, s.Do(http.MethodPost, "/api/editions/owner", body, "").Code)
	rec := s.Do(http.MethodPost, "/api/editions/owner", body, s.UserToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusConflict, s.Do(http.MethodPost, "/api/editions/owner", body, s.UserToken).Code)

	other := fmt.Sprintf(`{"edition_id":%d,"user_id":%d}`, f.FoundationEd1ID, f.AdminID)
	assert.Equal(t, http.StatusForbidden, s.Do(http.MethodPost, "/api/editions/owner", other, s.UserToken).Code)
	assert.Equal(t, http.StatusCreated, s.Admin(http.MethodPost, "/api/editions/owner", other).Code)

	missing := fmt.Sprintf(`{"edition_id":999,"user_id":%d}`, f.UserID)
	assert.Equal(t, http.StatusNotFound, s.Do(http.MethodPost, "/api/editions/owner", missing, s.UserToken).Code)

	rec = s.Get(fmt.Sprintf("/api/editions/%d/owners", f.FoundationEd1ID))
	assert.Len(t, apitest.Decode[[]models.UserBook](t, rec), 2)

	// Buying a wished edition moves it off the wishlist.
	wished := fmt.Sprintf(`{"edition_id":%d,"user_id":%d,"condition_id":3}`, f.FoundationEmpireEdID, f.UserID)
	require.Equal(t, http.StatusCreated, s.Do(http.MethodPost, "/api/editions/owner", wished, s.UserToken).Code)
	status := apitest.Decode[collection.WishlistStatus](t, s.Get(fmt.Sprintf("/api/editions/%d/wishlist/%d", f.FoundationEmpireEdID, f.UserID)))
	assert.False(t, status.Wishlisted)
	rec = s.Get(fmt.Sprintf("/api/editions/owned/%d", f.UserID))
	assert.Len(t, apitest.Decode[[]models.UserBook](t, rec), 3)
}

func TestCollection_UpdateRemoveOwner(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, collection.RegisterRoutes)
	f := s.Fixture

	body := fmt.Sprintf(`{"edition_id":%d,"user_id":%d,"condition_id":4,"description":"Kannessa tahra","price":3}`, f.SolarisEdID, f.UserID)
	rec := s.Do(http.MethodPut, "/api/editions/owner", body, s.UserToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	row := apitest.Decode[models.UserBook](t, s.Get(fmt.Sprintf("/api/editions/%d/owner/%d", f.SolarisEdID, f.UserID)))
	require.NotNil(t, row.ConditionID)
	assert.Equal(t, 4, *row.ConditionID)
	require.NotNil(t, row.Description)
	assert.Equal(t, "Kannessa tahra", *row.Description)

	missing := fmt.Sprintf(`{"edition_id":%d,"user_id":%d}`, f.FoundationEmpireEdID, f.UserID)
	assert.Equal(t, http.StatusNotFound, s.Do(http.MethodPut, "/api/editions/owner", missing, s.UserToken).Code)
	invalid := fmt.Sprintf(`{"edition_id":%d,"user_id":%d,"condition_id":6}`, f.SolarisEdID, f.UserID)
	assert.Equal(t, http.StatusBadRequest, s.Do(http.MethodPut, "/api/editions/owner", invalid, s.UserToken).Code)

	path := fmt.Sprintf("/api/editions/%d/owner/%d", f.SolarisEdID, f.UserID)
	assert.Equal(t, http.StatusUnauthorized, s.Do(http.MethodDelete, path, "", "").Code)
	require.Equal(t, http.StatusOK, s.Do(http.MethodDelete, path, "", s.UserToken).Code)
	assert.Equal(t, http.StatusNotFound, s.Do(http.MethodDelete, path, "", s.UserToken).Code)

	// The wishlist row survives an owner delete.
	path = fmt.Sprintf("/api/editions/%d/owner/%d", f.FoundationEmpireEdID, f.UserID)
	assert.Equal(t, http.StatusNotFound, s.Admin(http.MethodDelete, path, "").Code)
}

func TestCollection_Wishlist(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, collection.RegisterRoutes)
	f := s.Fixture

	rec := s.Get(fmt.Sprintf("/api/editions/%d/wishlist", f.FoundationEmpireEdID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	wishers := apitest.Decode[[]models.User](t, rec)
	require.Len(t, wishers, 1)
	assert.Equal(t, f.UserID, wishers[0].ID)

	rec = s.Get(fmt.Sprintf("/api/editions/wishlist/%d", f.UserID))
	require.Equal(t, http.StatusOK, rec.Code)
	wishes := apitest.Decode[[]models.UserBook](t, rec)
	require.Len(t, wishes, 1)
	assert.Equal(t, f.FoundationEmpireEdID, wishes[0].EditionID)

	path := fmt.Sprintf("/api/editions/%d/wishlist/%d", f.AnthologyEdID, f.UserID)
	assert.False(t, apitest.Decode[collection.WishlistStatus](t, s.Get(path)).Wishlisted)
	for range 2 {
		require.Equal(t, http.StatusOK, s.Do(http.MethodPut, path, "", s.UserToken).Code)
	}
	assert.True(t, apitest.Decode[collection.WishlistStatus](t, s.Get(path)).Wishlisted)
	rec = s.Get(fmt.Sprintf("/api/editions/wishlist/%d", f.UserID))
	assert.Len(t, apitest.Decode[[]models.UserBook](t, rec), 2)

	owned := fmt.Sprintf("/api/editions/%d/wishlist/%d", f.SolarisEdID, f.UserID)
	assert.Equal(t, http.StatusUnprocessableEntity, s.Do(http.MethodPut, owned, "", s.UserToken).Code)
	assert.Equal(t, http.StatusNotFound, s.Do(http.MethodDelete, owned, "", s.UserToken).Code)

	foreign := fmt.Sprintf("/api/editions/%d/wishlist/%d", f.AnthologyEdID, f.AdminID)
	assert.Equal(t, http.StatusForbidden, s.Do(http.MethodPut, foreign, "", s.UserToken).Code)
	assert.Equal(t, http.StatusNotFound, s.Do(http.MethodPut, fmt.Sprintf("/api/editions/999/wishlist/%d", f.UserID), "", s.UserToken).Code)

	require.Equal(t, http.StatusOK, s.Do(http.MethodDelete, path, "", s.UserToken).Code)
	assert.Equal(t, http.StatusNotFound, s.Do(http.MethodDelete, path, "", s.UserToken).Code)
	assert.False(t, apitest.Decode[collection.WishlistStatus](t, s.Get(path)).Wishlisted)
}
