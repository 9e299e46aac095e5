package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/testutils"
)

func TestReplace(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	db := testutils.NewDB(t)
	f := testutils.Seed(t, db)

	current, err := List(ctx, db, Work, f.FoundationID)
	require.NoError(t, err)
	require.Len(t, current, 1)

	changed, err := Replace(ctx, db, Work, f.FoundationID, current)
	require.NoError(t, err)
	assert.False(t, changed)

	desc := "ISFDB"
	changed, err = Replace(ctx, db, Work, f.FoundationID, append(current, Link{Link: "https://isfdb.org/t/1", Description: &desc}))
	require.NoError(t, err)
	assert.True(t, changed)

	current, err = List(ctx, db, Work, f.FoundationID)
	require.NoError(t, err)
	require.Len(t, current, 2)
	assert.Equal(t, "ISFDB", *current[1].Description)

	require.NoError(t, Delete(ctx, db, Work, f.FoundationID))
	current, err = List(ctx, db, Work, f.FoundationID)
	require.NoError(t, err)
	assert.Empty(t, current)
}
