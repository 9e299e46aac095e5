package awards_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/apitest"
	"github.com/suomisf/suomisf/pkg/awards"
	"github.com/suomisf/suomisf/pkg/models"
)

func TestAwards_ListRetrieve(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, awards.RegisterRoutes)
	f := s.Fixture

	list := apitest.Decode[[]models.Award](t, s.Get("/api/awards"))
	require.Len(t, list, 1)
	assert.Equal(t, "Hugo", list[0].Name)

	rec := s.Get(fmt.Sprintf("/api/awards/%d", f.AwardID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	detail := apitest.Decode[awards.AwardDetail](t, rec)
	assert.Len(t, detail.Categories, 3)
	require.Len(t, detail.Winners, 3)
	assert.Equal(t, 1966, *detail.Winners[0].Year)
	require.NotNil(t, detail.Winners[0].Work)
	assert.Equal(t, f.FoundationID, detail.Winners[0].Work.ID)

	assert.Equal(t, http.StatusNotFound, s.Get("/api/awards/999").Code)
}

func TestAwards_TypesAndCategories(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, awards.RegisterRoutes)
	f := s.Fixture

	assert.Len(t, apitest.Decode[[]models.Award](t, s.Get("/api/awards/type/work")), 1)
	assert.Equal(t, http.StatusBadRequest, s.Get("/api/awards/type/magazine").Code)

	categories := apitest.Decode[[]models.AwardCategory](t, s.Get(fmt.Sprintf("/api/awards/categories/%d", f.AwardID)))
	assert.Len(t, categories, 3)
	categories = apitest.Decode[[]models.AwardCategory](t, s.Get("/api/awards/categories/story"))
	require.Len(t, categories, 1)
	assert.Equal(t, f.StoryCategoryID, categories[0].ID)
	assert.Equal(t, http.StatusNotFound, s.Get("/api/awards/categories/999").Code)

	assert.Len(t, apitest.Decode[[]models.Award](t, s.Get("/api/awards/filter/hug")), 1)
	assert.Empty(t, apitest.Decode[[]models.Award](t, s.Get("/api/awards/filter/h")))
	assert.Empty(t, apitest.Decode[[]models.Award](t, s.Get("/api/awards/filter/nebula")))
}

func TestAwards_PersonRollUp(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, awards.RegisterRoutes)
	f := s.Fixture

	for _, path := range []string{"awards", "awarded"} {
		rec := s.Get(fmt.Sprintf("/api/people/%d/%s", f.AsimovID, path))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		rows := apitest.Decode[[]models.Awarded](t, rec)
		require.Len(t, rows, 3)
		years := []int{*rows[0].Year, *rows[1].Year, *rows[2].Year}
		assert.Equal(t, []int{1966, 1968, 1987}, years)
	}

	assert.Empty(t, apitest.Decode[[]models.Awarded](t, s.Get(fmt.Sprintf("/api/people/%d/awards", f.LemID))))
	assert.Equal(t, http.StatusNotFound, s.Get("/api/people/999/awards").Code)

	// Salo edits the anthology that prints Nightfall but wrote neither.
	assert.Empty(t, apitest.Decode[[]models.Awarded](t, s.Get(fmt.Sprintf("/api/people/%d/awards", f.SaloID))))
}

func TestAwards_AwardedTo(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, awards.RegisterRoutes)
	f := s.Fixture

	rows := apitest.Decode[[]models.Awarded](t, s.Get(fmt.Sprintf("/api/works/%d/awarded", f.FoundationID)))
	require.Len(t, rows, 1)
	assert.Equal(t, f.NovelCategoryID, rows[0].CategoryID)
	assert.Len(t, apitest.Decode[[]models.Awarded](t, s.Get(fmt.Sprintf("/api/works/%d/awards", f.FoundationID))), 1)
	assert.Len(t, apitest.Decode[[]models.Awarded](t, s.Get(fmt.Sprintf("/api/shorts/%d/awarded", f.NightfallID))), 1)
	assert.Empty(t, apitest.Decode[[]models.Awarded](t, s.Get(fmt.Sprintf("/api/shorts/%d/awarded", f.RobotID))))
	assert.Equal(t, http.StatusNotFound, s.Get("/api/works/999/awarded").Code)
}

func TestAwards_SaveWorkAwards(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, awards.RegisterRoutes)
	f := s.Fixture
	ctx := t.Context()

	body := fmt.Sprintf(`{"work_id":%d,"awards":[{"award_id":%d,"category_id":%d,"year":1962}]}`, f.SolarisID, f.AwardID, f.NovelCategoryID)
	assert.Equal(t, http.StatusForbidden, s.Do(http.MethodPut, "/api/awards/works/awards", body, s.UserToken).Code)
	for range 2 {
		rec := s.Admin(http.MethodPut, "/api/awards/works/awards", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	rows := apitest.Decode[[]models.Awarded](t, s.Get(fmt.Sprintf("/api/works/%d/awarded", f.SolarisID)))
	require.Len(t, rows, 1)
	assert.Equal(t, 1962, *rows[0].Year)

	n, err := s.DB.NewSelect().Model((*models.Log)(nil)).
		Where("lg.table_name = ? AND lg.table_id = ? AND lg.field_name = ?", "Teos", f.SolarisID, "Palkinnot").
		Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rec := s.Admin(http.MethodPut, "/api/awards/works/awards", fmt.Sprintf(`{"work_id":%d,"awards":[{"award_id":%d,"category_id":%d}]}`, f.SolarisID, f.AwardID, f.LifetimeCategoryID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.Admin(http.MethodPut, "/api/awards/works/awards", fmt.Sprintf(`{"work_id":%d,"awards":[{"award_id":%d,"category_id":999}]}`, f.SolarisID, f.AwardID))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.Admin(http.MethodPut, "/api/awards/works/awards", fmt.Sprintf(`{"work_id":%d,"awards":[]}`, f.SolarisID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, apitest.Decode[[]models.Awarded](t, s.Get(fmt.Sprintf("/api/works/%d/awarded", f.SolarisID))))
}

func TestAwards_SavePersonAwards(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, awards.RegisterRoutes)
	f := s.Fixture

	body := fmt.Sprintf(`{"person_id":%d,"awards":[{"award_id":%d,"category_id":%d,"year":1991}]}`, f.LemID, f.AwardID, f.LifetimeCategoryID)
	require.Equal(t, http.StatusOK, s.Admin(http.MethodPut, "/api/awards/people/awards", body).Code)
	rows := apitest.Decode[[]models.Awarded](t, s.Get(fmt.Sprintf("/api/people/%d/awards", f.LemID)))
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].PersonID)
	assert.Equal(t, f.LemID, *rows[0].PersonID)
}

func TestAwards_CreateAwarded(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, awards.RegisterRoutes)
	f := s.Fixture

	body := fmt.Sprintf(`{"award_id":%d,"category_id":%d,"year":1950,"story_id":%d}`, f.AwardID, f.StoryCategoryID, f.RobotID)
	assert.Equal(t, http.StatusUnauthorized, s.Do(http.MethodPost, "/api/awarded", body, "").Code)
	rec := s.Admin(http.MethodPost, "/api/awarded", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Len(t, apitest.Decode[[]models.Awarded](t, s.Get(fmt.Sprintf("/api/shorts/%d/awarded", f.RobotID))), 1)

	// Robotti is Asimov's under a pseudonym.
	assert.Len(t, apitest.Decode[[]models.Awarded](t, s.Get(fmt.Sprintf("/api/people/%d/awards", f.AsimovID))), 4)

	for _, bad := range []string{
		fmt.Sprintf(`{"award_id":%d,"category_id":%d}`, f.AwardID, f.StoryCategoryID),
		fmt.Sprintf(`{"award_id":%d,"category_id":%d,"story_id":%d,"work_id":%d}`, f.AwardID, f.StoryCategoryID, f.RobotID, f.SolarisID),
		fmt.Sprintf(`{"award_id":%d,"category_id":%d,"work_id":%d}`, f.AwardID, f.StoryCategoryID, f.SolarisID),
	} {
		assert.Equal(t, http.StatusBadRequest, s.Admin(http.MethodPost, "/api/awarded", bad).Code, bad)
	}
	rec = s.Admin(http.MethodPost, "/api/awarded", fmt.Sprintf(`{"award_id":%d,"category_id":%d,"work_id":999}`, f.AwardID, f.NovelCategoryID))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
