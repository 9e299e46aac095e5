package tags_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/apitest"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/suomisf/suomisf/pkg/tags"
)

func tagIDs(list []*models.Tag) []int {
	ids := make([]int, 0, len(list))
	for _, t := range list {
		ids = append(ids, t.ID)
	}
	return ids
}

func TestIssueTags_AttachDetachRoundTrip(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, tags.RegisterRoutes)
	f := s.Fixture

	read := fmt.Sprintf("/api/issues/%d/tags", f.IssueID)
	write := fmt.Sprintf("/api/issue/%d/tags/%d", f.IssueID, f.SpaceTagID)

	rec := s.Get(read)
	require.Equal(t, http.StatusOK, rec.Code)
	before := apitest.Decode[[]*models.Tag](t, rec)

	rec = s.Admin(http.MethodPut, write, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, tagIDs(apitest.Decode[[]*models.Tag](t, s.Get(read))), f.SpaceTagID)

	// Tagging twice is harmless.
	rec = s.Admin(http.MethodPut, write, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.Admin(http.MethodDelete, write, "")
	require.Equal(t, http.StatusOK, rec.Code)
	after := apitest.Decode[[]*models.Tag](t, s.Get(read))
	assert.Equal(t, tagIDs(before), tagIDs(after))

	rec = s.Admin(http.MethodDelete, write, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTagLinks_RequireAdmin(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, tags.RegisterRoutes)
	f := s.Fixture

	path := fmt.Sprintf("/api/work/%d/tags/%d", f.SolarisID, f.RobotTagID)
	assert.Equal(t, http.StatusUnauthorized, s.Do(http.MethodPut, path, "", "").Code)
	assert.Equal(t, http.StatusForbidden, s.Do(http.MethodPut, path, "", s.UserToken).Code)
	assert.Equal(t, http.StatusBadRequest, s.Admin(http.MethodPut, "/api/work/x/tags/1", "").Code)
	assert.Equal(t, http.StatusNotFound, s.Admin(http.MethodPut, fmt.Sprintf("/api/work/999/tags/%d", f.RobotTagID), "").Code)
	assert.Equal(t, http.StatusNotFound, s.Admin(http.MethodPut, fmt.Sprintf("/api/work/%d/tags/999", f.SolarisID), "").Code)
}

func TestTags_CRUD(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, tags.RegisterRoutes)

	rec := s.Admin(http.MethodPost, "/api/tags", `{"name":"  aikamatkailu ","type_id":3}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := apitest.Decode[models.Tag](t, rec)
	assert.Equal(t, "aikamatkailu", created.Name)

	rec = s.Admin(http.MethodPost, "/api/tags", `{"name":"AIKAMATKAILU"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.Admin(http.MethodPut, "/api/tags", fmt.Sprintf(`{"id":%d,"name":"aikamatkat"}`, created.ID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "aikamatkat", apitest.Decode[models.Tag](t, rec).Name)

	rec = s.Get("/api/tags?search=aika")
	require.Equal(t, http.StatusOK, rec.Code)
	list := apitest.Decode[[]*tags.TagWithCounts](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, 0, list[0].WorkCount)

	rec = s.Admin(http.MethodDelete, fmt.Sprintf("/api/tags/%d", created.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	// A tag in use can't be deleted.
	rec = s.Admin(http.MethodDelete, fmt.Sprintf("/api/tags/%d", s.Fixture.SpaceTagID), "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTags_Merge(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, tags.RegisterRoutes)
	f := s.Fixture

	rec := s.Admin(http.MethodPost, fmt.Sprintf("/api/tags/%d/merge/%d", f.RobotTagID, f.SpaceTagID), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	detail := apitest.Decode[tags.TagDetail](t, rec)
	assert.Len(t, detail.Works, 2)
	assert.Len(t, detail.Shorts, 1)
	assert.Len(t, detail.Articles, 1)
	assert.Len(t, detail.People, 1)

	assert.Equal(t, http.StatusNotFound, s.Get(fmt.Sprintf("/api/tags/%d", f.RobotTagID)).Code)
}

func TestTags_Lookups(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, tags.RegisterRoutes)

	rec := s.Get("/api/tagsquick")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, apitest.Decode[[]*models.Tag](t, rec), 2)

	rec = s.Get("/api/tags/types")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, apitest.Decode[[]*models.TagType](t, rec), 5)

	rec = s.Get(fmt.Sprintf("/api/tags/%d", s.Fixture.SpaceTagID))
	require.Equal(t, http.StatusOK, rec.Code)
	detail := apitest.Decode[tags.TagDetail](t, rec)
	assert.Equal(t, "avaruus", detail.Name)
	assert.Len(t, detail.Works, 2)
}
