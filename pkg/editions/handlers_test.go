package editions_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/apitest"
	"github.com/suomisf/suomisf/pkg/editions"
	"github.com/suomisf/suomisf/pkg/models"
)

func TestEditions_Retrieve(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, editions.RegisterRoutes)
	f := s.Fixture

	rec := s.Get(fmt.Sprintf("/api/editions/%d", f.FoundationEd1ID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	detail := apitest.Decode[editions.EditionDetail](t, rec)
	assert.Equal(t, "Säätiö", detail.Title)
	require.Len(t, detail.Works, 1)
	assert.Equal(t, f.FoundationID, detail.Works[0].ID)
	require.Len(t, detail.Contributions, 1)
	assert.Equal(t, f.RantaID, detail.Contributions[0].Person.ID)
	assert.Equal(t, models.RoleTranslator, detail.Contributions[0].Role.ID)
	require.NotNil(t, detail.Publisher)
	assert.Equal(t, "Tammi", detail.Publisher.Name)
	require.NotNil(t, detail.Pubseries)
	assert.Equal(t, f.PubseriesID, detail.Pubseries.ID)
	assert.Len(t, detail.Images, 1)
	assert.Equal(t, 0, detail.OwnerCount)

	detail = apitest.Decode[editions.EditionDetail](t, s.Get(fmt.Sprintf("/api/editions/%d", f.SolarisEdID)))
	assert.Equal(t, 1, detail.OwnerCount)

	assert.Equal(t, http.StatusNotFound, s.Get("/api/editions/999").Code)
	assert.Equal(t, http.StatusBadRequest, s.Get("/api/editions/0").Code)
}

func TestEditions_ShortsAndWork(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, editions.RegisterRoutes)
	f := s.Fixture

	rec := s.Get(fmt.Sprintf("/api/editions/%d/shorts", f.AnthologyEdID))
	require.Equal(t, http.StatusOK, rec.Code)
	shorts := apitest.Decode[[]models.ShortStory](t, rec)
	require.Len(t, shorts, 2)
	assert.Equal(t, "Robotti", shorts[0].Title)
	assert.Equal(t, "Yöllinen vieras", shorts[1].Title)

	shorts = apitest.Decode[[]models.ShortStory](t, s.Get(fmt.Sprintf("/api/editions/%d/shorts", f.SolarisEdID)))
	assert.Empty(t, shorts)

	rec = s.Get(fmt.Sprintf("/api/editions/%d/work", f.FoundationEd2ID))
	require.Equal(t, http.StatusOK, rec.Code)
	work := apitest.Decode[models.Work](t, rec)
	assert.Equal(t, f.FoundationID, work.ID)
}

func TestEditions_CreateUpdate(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, editions.RegisterRoutes)
	f := s.Fixture

	body := fmt.Sprintf(`{"work_id":%d,"pubyear":1990,"editionnum":2,"publisher_id":%d,"isbn":"951-0-11111-1","contributions":[{"person_id":%d,"role_id":2}]}`,
		f.SolarisID, f.WSOYID, f.RantaID)
	assert.Equal(t, http.StatusForbidden, s.Do(http.MethodPost, "/api/editions", body, s.UserToken).Code)

	rec := s.Admin(http.MethodPost, "/api/editions", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := apitest.Decode[int](t, rec)

	detail := apitest.Decode[editions.EditionDetail](t, s.Get(fmt.Sprintf("/api/editions/%d", id)))
	assert.Equal(t, "Solaris", detail.Title)
	require.NotNil(t, detail.Version)
	assert.Equal(t, 1, *detail.Version)
	require.Len(t, detail.Contributions, 1)
	assert.Equal(t, f.RantaID, detail.Contributions[0].Person.ID)

	authors, err := s.DB.NewSelect().
		Model((*models.Contributor)(nil)).
		Join("JOIN parts AS pt ON pt.id = c.part_id").
		Where("pt.edition_id = ?", id).
		Where("c.role_id = ?", models.RoleAuthor).
		Where("c.person_id = ?", f.LemID).
		Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, authors)

	rec = s.Admin(http.MethodPost, "/api/editions", fmt.Sprintf(`{"work_id":%d,"publisher_id":%d,"pubseries_id":%d}`, f.SolarisID, f.WSOYID, f.PubseriesID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.Admin(http.MethodPost, "/api/editions", `{"work_id":999}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.Admin(http.MethodPost, "/api/editions", fmt.Sprintf(`{"work_id":%d,"isbn":"abc"}`, f.SolarisID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.Admin(http.MethodPut, "/api/editions", fmt.Sprintf(`{"id":%d,"title":"Solaris","pubyear":1991,"editionnum":2,"version":1,"publisher_id":%d,"isbn":"951-0-11111-1"}`, id, f.WSOYID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	detail = apitest.Decode[editions.EditionDetail](t, s.Get(fmt.Sprintf("/api/editions/%d", id)))
	require.NotNil(t, detail.PubYear)
	assert.Equal(t, 1991, *detail.PubYear)
	require.Len(t, detail.Contributions, 1, "omitted contributions are kept")

	var logs []*models.Log
	err = s.DB.NewSelect().Model(&logs).
		Where("lg.table_name = ? AND lg.table_id = ? AND lg.action = ?", "Painos", id, models.LogActionUpdate).
		Scan(t.Context())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].FieldName)
	assert.Equal(t, "Julkaisuvuosi", *logs[0].FieldName)
}

func TestEditions_DeleteOwned(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, editions.RegisterRoutes)

	rec := s.Admin(http.MethodDelete, fmt.Sprintf("/api/editions/%d", s.Fixture.SolarisEdID), "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, http.StatusOK, s.Get(fmt.Sprintf("/api/editions/%d", s.Fixture.SolarisEdID)).Code)
}

func TestEditions_DeleteWishlisted(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, editions.RegisterRoutes)
	f := s.Fixture

	rec := s.Admin(http.MethodDelete, fmt.Sprintf("/api/editions/%d", f.FoundationEmpireEdID), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	n, err := s.DB.NewSelect().Model((*models.UserBook)(nil)).Where("ub.edition_id = ?", f.FoundationEmpireEdID).Count(t.Context())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEditions_DeleteKeepsOrphanShorts(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, editions.RegisterRoutes)
	f := s.Fixture
	ctx := t.Context()

	rec := s.Admin(http.MethodDelete, fmt.Sprintf("/api/editions/%d", f.AnthologyEdID), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusNotFound, s.Get(fmt.Sprintf("/api/editions/%d", f.AnthologyEdID)).Code)

	n, err := s.DB.NewSelect().Model((*models.Part)(nil)).Where("pt.edition_id = ?", f.AnthologyEdID).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	var parts []*models.Part
	err = s.DB.NewSelect().Model(&parts).Where("pt.shortstory_id = ?", f.NightfallID).Scan(ctx)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Nil(t, parts[0].EditionID)
	assert.Nil(t, parts[0].WorkID)

	var contribs []*models.Contributor
	err = s.DB.NewSelect().Model(&contribs).Where("c.part_id = ?", parts[0].ID).Order("c.role_id").Scan(ctx)
	require.NoError(t, err)
	require.Len(t, contribs, 2)
	assert.Equal(t, f.AsimovID, contribs[0].PersonID)
	assert.Equal(t, f.RantaID, contribs[1].PersonID)

	var robot []*models.Contributor
	err = s.DB.NewSelect().Model(&robot).
		Join("JOIN parts AS pt ON pt.id = c.part_id").
		Where("pt.shortstory_id = ?", f.RobotID).
		Scan(ctx)
	require.NoError(t, err)
	require.Len(t, robot, 1)
	require.NotNil(t, robot[0].RealPersonID)
	assert.Equal(t, f.AsimovID, *robot[0].RealPersonID)

	anthology := &models.Work{}
	require.NoError(t, s.DB.NewSelect().Model(anthology).Where("w.id = ?", f.AnthologyID).Scan(ctx))
	assert.Equal(t, "", anthology.AuthorStr)
}
