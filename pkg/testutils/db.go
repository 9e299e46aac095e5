package testutils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/config"
	"github.com/suomisf/suomisf/pkg/database"
	"github.com/suomisf/suomisf/pkg/migrations"
	"github.com/uptrace/bun"
)

// NewDB returns an in-memory database migrated to head. The database lives
// on a single connection and is closed when the test ends.
func NewDB(t testing.TB) *bun.DB {
	t.Helper()

	db, err := database.New(config.NewForTest())
	require.NoError(t, err)

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
