package database

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		msg        string
		busy       bool
		unique     bool
		constraint bool
	}{
		{msg: "database is locked", busy: true},
		{msg: "sqlite: step: SQLITE_BUSY", busy: true},
		{msg: "database table is locked (6)", busy: true},
		{msg: "constraint failed: UNIQUE constraint failed: persons.name (2067)", unique: true},
		{msg: "PRIMARY KEY constraint failed", unique: true},
		{msg: "CHECK constraint failed: awarded_target", constraint: true},
		{msg: "FOREIGN KEY constraint failed", constraint: true},
		{msg: "NOT NULL constraint failed: works.title", constraint: true},
		{msg: "no such table: works"},
	}
	for _, tc := range cases {
		err := errors.New(tc.msg)
		assert.Equal(t, tc.busy, isBusy(err), tc.msg)
		assert.Equal(t, tc.unique, IsUniqueViolation(err), tc.msg)
		assert.Equal(t, tc.constraint, IsConstraintViolation(err), tc.msg)
	}

	assert.False(t, isBusy(nil))
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsConstraintViolation(nil))
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	assert.GreaterOrEqual(t, backoff(0), baseDelay)
	assert.LessOrEqual(t, backoff(0), baseDelay+baseDelay/4)
	assert.GreaterOrEqual(t, backoff(2), 4*baseDelay)
	assert.Equal(t, maxDelay, backoff(10))
	assert.Equal(t, maxDelay, backoff(80))
}

func TestRetry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	locked := errors.New("database is locked")

	t.Run("stops on success", func(t *testing.T) {
		t.Parallel()
		calls := 0
		err := retry(ctx, 5, func() error {
			calls++
			if calls < 3 {
				return locked
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		t.Parallel()
		calls := 0
		err := retry(ctx, 5, func() error {
			calls++
			return errors.New("UNIQUE constraint failed: tags.name")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after the retries", func(t *testing.T) {
		t.Parallel()
		calls := 0
		err := retry(ctx, 2, func() error {
			calls++
			return locked
		})
		require.ErrorIs(t, err, locked)
		assert.Equal(t, 3, calls)
	})

	t.Run("zero retries", func(t *testing.T) {
		t.Parallel()
		calls := 0
		err := retry(ctx, 0, func() error {
			calls++
			return locked
		})
		require.ErrorIs(t, err, locked)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		calls := 0
		err := retry(cctx, 50, func() error {
			calls++
			return locked
		})
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, calls, 50)
	})
}
