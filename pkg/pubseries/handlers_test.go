package pubseries_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/apitest"
	"github.com/suomisf/suomisf/pkg/pubseries"
)

func TestPubseries_ListAndRetrieve(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, pubseries.RegisterRoutes)
	f := s.Fixture

	rows := apitest.Decode[[]pubseries.PubseriesRow](t, s.Get("/api/pubseries"))
	require.Len(t, rows, 1)
	assert.Equal(t, "Tammen Jokeri", rows[0].Name)
	assert.Equal(t, "Tammi", rows[0].PublisherName)
	assert.Equal(t, 2, rows[0].EditionCount)

	rows = apitest.Decode[[]pubseries.PubseriesRow](t, s.Get(fmt.Sprintf("/api/pubseries?publisher_id=%d", f.WSOYID)))
	assert.Empty(t, rows)

	rec := s.Get(fmt.Sprintf("/api/pubseries/%d", f.PubseriesID))
	require.Equal(t, http.StatusOK, rec.Code)
	detail := apitest.Decode[pubseries.PubseriesDetail](t, rec)
	require.NotNil(t, detail.Publisher)
	assert.Equal(t, "Tammi", detail.Publisher.Name)
	require.Len(t, detail.Editions, 2)
	assert.Equal(t, f.FoundationEd1ID, detail.Editions[0].ID)
	assert.Equal(t, f.FoundationEmpireEdID, detail.Editions[1].ID)
}

func TestPubseries_CRUD(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, pubseries.RegisterRoutes)
	f := s.Fixture

	rec := s.Admin(http.MethodPost, "/api/pubseries", `{"name":"Ei kustantajaa","publisher_id":999}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.Admin(http.MethodPost, "/api/pubseries", `{"name":"Ei nimeä"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.Admin(http.MethodPost, "/api/pubseries", fmt.Sprintf(`{"name":"WSOY:n scifi","publisher_id":%d}`, f.WSOYID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := apitest.Decode[int](t, rec)

	rec = s.Admin(http.MethodPut, "/api/pubseries", fmt.Sprintf(`{"id":%d,"name":"Tammen scifi","publisher_id":%d}`, id, f.TammiID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	detail := apitest.Decode[pubseries.PubseriesDetail](t, s.Get(fmt.Sprintf("/api/pubseries/%d", id)))
	assert.Equal(t, f.TammiID, detail.PublisherID)

	assert.Equal(t, http.StatusUnprocessableEntity, s.Admin(http.MethodDelete, fmt.Sprintf("/api/pubseries/%d", f.PubseriesID), "").Code)
	assert.Equal(t, http.StatusOK, s.Admin(http.MethodDelete, fmt.Sprintf("/api/pubseries/%d", id), "").Code)
	assert.Equal(t, http.StatusNotFound, s.Admin(http.MethodDelete, fmt.Sprintf("/api/pubseries/%d", id), "").Code)
}
