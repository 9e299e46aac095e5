package changes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/suomisf/suomisf/pkg/testutils"
)

func TestLog_WritesRowsWithRequestUser(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	admin := testutils.CreateUser(t, db, testutils.AdminName, testutils.AdminPassword, true)
	ctx := auth.WithUser(context.Background(), admin)

	require.NoError(t, LogCreate(ctx, db, TableWork, 7, "Solaris"))

	tr := &Tracker{}
	title := "Solaris"
	year := ptr(1961)
	Set(tr, "title", "Nimi", &title, "Solaris II")
	SetPtr(tr, "pubyear", "Julkaisuvuosi", &year, ptr(1962))
	require.NoError(t, LogUpdate(ctx, db, TableWork, 7, title, tr))

	// An untouched update writes nothing.
	require.NoError(t, LogUpdate(ctx, db, TableWork, 7, title, &Tracker{}))

	require.NoError(t, LogDelete(context.Background(), db, TableWork, 7, title))

	svc := NewService(db)
	rows, err := svc.ForObject(context.Background(), TableWork, 7)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	byAction := map[string]int{}
	for _, row := range rows {
		byAction[row.Action]++
	}
	assert.Equal(t, 1, byAction[models.LogActionCreate])
	assert.Equal(t, 2, byAction[models.LogActionUpdate])
	assert.Equal(t, 1, byAction[models.LogActionDelete])

	for _, row := range rows {
		switch row.Action {
		case models.LogActionUpdate:
			require.NotNil(t, row.FieldName)
			require.NotNil(t, row.UserID)
			assert.Equal(t, admin.ID, *row.UserID)
			if *row.FieldName == "Nimi" {
				assert.Equal(t, "Solaris", *row.OldValue)
			}
		case models.LogActionDelete:
			assert.Nil(t, row.UserID)
		}
	}
}

func TestList_Filters(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	ctx := context.Background()

	require.NoError(t, LogCreate(ctx, db, TableWork, 1, "A"))
	require.NoError(t, LogCreate(ctx, db, TablePerson, 2, "B"))
	require.NoError(t, LogDelete(ctx, db, TablePerson, 2, "B"))

	svc := NewService(db)

	table := TablePerson
	rows, err := svc.List(ctx, ListOptions{Table: &table})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	action := models.LogActionCreate
	rows, err = svc.List(ctx, ListOptions{Action: &action})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = svc.List(ctx, ListOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.LogActionDelete, rows[0].Action)
}
