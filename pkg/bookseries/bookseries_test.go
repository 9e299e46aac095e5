package bookseries_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/apitest"
	"github.com/suomisf/suomisf/pkg/bookseries"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/suomisf/suomisf/pkg/testutils"
)

func TestBookseries_RetrieveOrdersWorks(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, bookseries.RegisterRoutes)
	f := s.Fixture

	rec := s.Get(fmt.Sprintf("/api/bookseries/%d", f.BookseriesID))
	require.Equal(t, http.StatusOK, rec.Code)
	detail := apitest.Decode[bookseries.BookseriesDetail](t, rec)
	require.Len(t, detail.Works, 2)
	assert.Equal(t, f.FoundationID, detail.Works[0].ID)
	assert.Equal(t, f.FoundationEmpireID, detail.Works[1].ID)

	rows := apitest.Decode[[]bookseries.BookseriesRow](t, s.Get("/api/bookseries"))
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].WorkCount)

	assert.Equal(t, http.StatusNotFound, s.Get("/api/bookseries/999").Code)
}

func TestNeighborsOf(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	f := testutils.Seed(t, db)
	ctx := t.Context()

	load := func(id int) *models.Work {
		w := &models.Work{}
		require.NoError(t, db.NewSelect().Model(w).Where("w.id = ?", id).Scan(ctx))
		return w
	}

	n, err := bookseries.NeighborsOf(ctx, db, load(f.FoundationID))
	require.NoError(t, err)
	assert.Nil(t, n.Prev)
	require.NotNil(t, n.Next)
	assert.Equal(t, f.FoundationEmpireID, *n.Next)

	n, err = bookseries.NeighborsOf(ctx, db, load(f.FoundationEmpireID))
	require.NoError(t, err)
	require.NotNil(t, n.Prev)
	assert.Equal(t, f.FoundationID, *n.Prev)
	assert.Nil(t, n.Next, "no wrap-around at the end of the series")

	n, err = bookseries.NeighborsOf(ctx, db, load(f.SolarisID))
	require.NoError(t, err)
	assert.Nil(t, n.Prev)
	assert.Nil(t, n.Next)
}

func TestBookseries_CRUD(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, bookseries.RegisterRoutes)
	f := s.Fixture

	rec := s.Admin(http.MethodPost, "/api/bookseries", `{"name":"Robotit","orig_name":"Robot"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := apitest.Decode[int](t, rec)

	rec = s.Admin(http.MethodPut, "/api/bookseries", fmt.Sprintf(`{"id":%d,"name":"Robottisarja","important":true}`, id))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	detail := apitest.Decode[bookseries.BookseriesDetail](t, s.Get(fmt.Sprintf("/api/bookseries/%d", id)))
	assert.Equal(t, "Robottisarja", detail.Name)
	assert.True(t, detail.Important)
	assert.Nil(t, detail.OrigName)

	rec = s.Admin(http.MethodDelete, fmt.Sprintf("/api/bookseries/%d", f.BookseriesID), "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.Admin(http.MethodDelete, fmt.Sprintf("/api/bookseries/%d", id), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusNotFound, s.Get(fmt.Sprintf("/api/bookseries/%d", id)).Code)
}

func TestBookseries_Merge(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, bookseries.RegisterRoutes)
	f := s.Fixture

	rec := s.Admin(http.MethodPost, "/api/bookseries", `{"name":"Säätiö-trilogia"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	target := apitest.Decode[int](t, rec)

	rec = s.Admin(http.MethodPost, fmt.Sprintf("/api/bookseries/%d/merge/%d", f.BookseriesID, target), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	detail := apitest.Decode[bookseries.BookseriesDetail](t, s.Get(fmt.Sprintf("/api/bookseries/%d", target)))
	assert.Len(t, detail.Works, 2)
	assert.Equal(t, http.StatusNotFound, s.Get(fmt.Sprintf("/api/bookseries/%d", f.BookseriesID)).Code)

	owned, err := s.DB.NewSelect().Model((*models.UserBookseries)(nil)).Where("series_id = ?", target).Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, owned)

	rec = s.Admin(http.MethodPost, fmt.Sprintf("/api/bookseries/%d/merge/%d", target, target), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
