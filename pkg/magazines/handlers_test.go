package magazines_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/apitest"
	"github.com/suomisf/suomisf/pkg/magazines"
	"github.com/suomisf/suomisf/pkg/models"
)

func TestMagazines_ListRetrieve(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, magazines.RegisterRoutes)
	f := s.Fixture

	rec := s.Get("/api/magazines")
	require.Equal(t, http.StatusOK, rec.Code)
	rows := apitest.Decode[[]magazines.MagazineRow](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, "Portti", rows[0].Name)
	assert.Equal(t, 1, rows[0].IssueCount)
	require.NotNil(t, rows[0].FirstYear)
	assert.Equal(t, 2000, *rows[0].FirstYear)

	detail := apitest.Decode[magazines.MagazineDetail](t, s.Get(fmt.Sprintf("/api/magazines/%d", f.MagazineID)))
	require.NotNil(t, detail.Publisher)
	assert.Equal(t, "Tammi", detail.Publisher.Name)
	require.NotNil(t, detail.Type)
	require.Len(t, detail.Issues, 1)
	assert.Equal(t, f.IssueID, detail.Issues[0].ID)

	assert.Equal(t, http.StatusNotFound, s.Get("/api/magazines/999").Code)
}

func TestMagazines_CreateUpdateDelete(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, magazines.RegisterRoutes)
	f := s.Fixture

	body := fmt.Sprintf(`{"name":"Tähtivaeltaja","publisher_id":%d,"type_id":3}`, f.WSOYID)
	assert.Equal(t, http.StatusUnauthorized, s.Do(http.MethodPost, "/api/magazines", body, "").Code)
	rec := s.Admin(http.MethodPost, "/api/magazines", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := apitest.Decode[int](t, rec)

	rec = s.Admin(http.MethodPut, "/api/magazines", fmt.Sprintf(`{"id":%d,"name":"Tähtivaeltaja","issn":"0789-0478","type_id":3}`, id))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	detail := apitest.Decode[magazines.MagazineDetail](t, s.Get(fmt.Sprintf("/api/magazines/%d", id)))
	require.NotNil(t, detail.ISSN)
	assert.Equal(t, "0789-0478", *detail.ISSN)
	assert.Nil(t, detail.PublisherID)

	var labels []string
	err := s.DB.NewSelect().Model((*models.Log)(nil)).Column("field_name").
		Where("lg.table_name = ? AND lg.table_id = ? AND lg.action = ?", "Lehti", id, models.LogActionUpdate).
		Order("field_name").
		Scan(t.Context(), &labels)
	require.NoError(t, err)
	assert.Equal(t, []string{"ISSN", "Kustantaja"}, labels)

	require.Equal(t, http.StatusOK, s.Admin(http.MethodDelete, fmt.Sprintf("/api/magazines/%d", id), "").Code)
	assert.Equal(t, http.StatusNotFound, s.Get(fmt.Sprintf("/api/magazines/%d", id)).Code)

	assert.Equal(t, http.StatusUnprocessableEntity, s.Admin(http.MethodDelete, fmt.Sprintf("/api/magazines/%d", f.MagazineID), "").Code)
}
