package issues_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/apitest"
	"github.com/suomisf/suomisf/pkg/issues"
	"github.com/suomisf/suomisf/pkg/models"
)

func TestIssues_Retrieve(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, issues.RegisterRoutes)
	f := s.Fixture

	rec := s.Get(fmt.Sprintf("/api/issues/%d", f.IssueID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	detail := apitest.Decode[issues.IssueDetail](t, rec)
	assert.Equal(t, "Portti 1/2000", detail.Name)
	require.NotNil(t, detail.Size)
	require.Len(t, detail.Editors, 1)
	assert.Equal(t, f.SaloID, detail.Editors[0].Person.ID)
	assert.Equal(t, models.RoleChiefEditor, detail.Editors[0].Role.ID)
	require.Len(t, detail.Stories, 1)
	assert.Equal(t, f.NightfallID, detail.Stories[0].ID)
	assert.NotEmpty(t, detail.Stories[0].Contributors)
	require.Len(t, detail.Articles, 1)
	assert.Equal(t, f.ArticleID, detail.Articles[0].ID)
	require.Len(t, detail.Articles[0].Authors, 1)

	assert.Equal(t, http.StatusNotFound, s.Get("/api/issues/999").Code)
	assert.Equal(t, http.StatusNotFound, s.Get("/api/issues/999/shorts").Code)
}

func TestIssues_Sizes(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, issues.RegisterRoutes)

	rec := s.Get("/api/issues/sizes")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, apitest.Decode[[]models.PublicationSize](t, rec))
}

func TestIssues_CreateUpdateDelete(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, issues.RegisterRoutes)
	f := s.Fixture
	ctx := t.Context()

	body := fmt.Sprintf(`{"magazine_id":%d,"number":2,"year":2000,"cover_number":"2/2000","editors":[{"person_id":%d,"role_id":7}]}`, f.MagazineID, f.SaloID)
	assert.Equal(t, http.StatusForbidden, s.Do(http.MethodPost, "/api/issues", body, s.UserToken).Code)
	rec := s.Admin(http.MethodPost, "/api/issues", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := apitest.Decode[int](t, rec)

	detail := apitest.Decode[issues.IssueDetail](t, s.Get(fmt.Sprintf("/api/issues/%d", id)))
	assert.Equal(t, "Portti 2/2000", detail.Name)
	assert.Len(t, detail.Editors, 1)

	rec = s.Admin(http.MethodPost, "/api/issues", `{"magazine_id":999}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.Admin(http.MethodPost, "/api/issues", fmt.Sprintf(`{"magazine_id":%d,"size_id":999}`, f.MagazineID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.Admin(http.MethodPost, "/api/issues", fmt.Sprintf(`{"magazine_id":%d,"editors":[{"person_id":%d,"role_id":1}]}`, f.MagazineID, f.SaloID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	update := fmt.Sprintf(`{"id":%d,"magazine_id":%d,"number":2,"year":2000,"cover_number":"2/2000","pages":64,"editors":[]}`, id, f.MagazineID)
	for range 2 {
		rec = s.Admin(http.MethodPut, "/api/issues", update)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	var labels []string
	err := s.DB.NewSelect().Model((*models.Log)(nil)).Column("field_name").
		Where("lg.table_name = ? AND lg.table_id = ? AND lg.action = ?", "Irtonumero", id, models.LogActionUpdate).
		Order("field_name").
		Scan(ctx, &labels)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sivuja", "Toimittajat"}, labels)

	rec = s.Admin(http.MethodDelete, fmt.Sprintf("/api/issues/%d", f.IssueID), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusNotFound, s.Get(fmt.Sprintf("/api/issues/%d", f.IssueID)).Code)
	n, err := s.DB.NewSelect().Model((*models.IssueContent)(nil)).Where("issue_id = ?", f.IssueID).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	exists, err := s.DB.NewSelect().Model((*models.ShortStory)(nil)).Where("s.id = ?", f.NightfallID).Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, http.StatusNotFound, s.Admin(http.MethodDelete, fmt.Sprintf("/api/issues/%d", f.IssueID), "").Code)
}

func TestIssues_SaveContent(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, issues.RegisterRoutes)
	f := s.Fixture

	path := fmt.Sprintf("/api/issues/%d/shorts", f.IssueID)
	rec := s.Admin(http.MethodPut, path, fmt.Sprintf(`{"shorts":[%d,%d]}`, f.RobotID, f.NightfallID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stories := apitest.Decode[[]issues.StoryView](t, s.Get(path))
	require.Len(t, stories, 2)
	assert.Equal(t, f.RobotID, stories[0].ID)
	assert.Equal(t, f.NightfallID, stories[1].ID)

	assert.Equal(t, http.StatusNotFound, s.Admin(http.MethodPut, path, `{"shorts":[999]}`).Code)

	path = fmt.Sprintf("/api/issues/%d/articles", f.IssueID)
	require.Equal(t, http.StatusOK, s.Admin(http.MethodPut, path, `{"articles":[]}`).Code)
	assert.Empty(t, apitest.Decode[[]models.Article](t, s.Get(path)))

	stories = apitest.Decode[[]issues.StoryView](t, s.Get(fmt.Sprintf("/api/issues/%d/shorts", f.IssueID)))
	assert.Len(t, stories, 2, "saving articles keeps the stories")
}
