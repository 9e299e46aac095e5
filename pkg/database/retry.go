package database

import (
	"context"
	"database/sql"
	"math/rand/v2"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// DefaultMaxRetries is how often RunInTx retries a transaction that SQLite
// rejected as busy, unless New was given another value.
const DefaultMaxRetries = 5

const (
	baseDelay = 50 * time.Millisecond
	maxDelay  = 2 * time.Second
)

var maxRetries atomic.Int32

func init() {
	maxRetries.Store(DefaultMaxRetries)
}

// Messages of both modernc.org/sqlite and mattn/go-sqlite3.
var (
	busyMarkers = []string{
		"database is locked",
		"database table is locked",
		"SQLITE_BUSY",
		"SQLITE_LOCKED",
		"(5)",
		"(6)",
	}
	uniqueMarkers = []string{
		"UNIQUE constraint failed",
		"PRIMARY KEY constraint failed",
		"(2067)",
		"(1555)",
	}
	constraintMarkers = []string{
		"CHECK constraint failed",
		"FOREIGN KEY constraint failed",
		"NOT NULL constraint failed",
	}
)

func matches(err error, markers []string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, m := range markers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func isBusy(err error) bool { return matches(err, busyMarkers) }

// IsUniqueViolation reports whether err came from a UNIQUE or PRIMARY KEY
// constraint.
func IsUniqueViolation(err error) bool { return matches(err, uniqueMarkers) }

// IsConstraintViolation reports whether err came from a CHECK, FOREIGN KEY or
// NOT NULL constraint.
func IsConstraintViolation(err error) bool { return matches(err, constraintMarkers) }

// backoff doubles from baseDelay per attempt, adds up to 25% jitter and caps
// at maxDelay.
func backoff(attempt int) time.Duration {
	d := baseDelay << attempt
	if d <= 0 || d > maxDelay {
		return maxDelay
	}
	d += rand.N(d/4 + 1)
	return min(d, maxDelay)
}

// retry calls fn until it succeeds, fails with a non-busy error or has been
// retried retries times.
func retry(ctx context.Context, retries int, fn func() error) error {
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || !isBusy(err) || attempt >= retries {
			return err
		}
		select {
		case <-ctx.Done():
			return errors.WithStack(ctx.Err())
		case <-time.After(backoff(attempt)):
		}
	}
}

// RunInTx runs fn inside one transaction, retrying the whole transaction when
// SQLite reports the database as busy. fn must only use the given tx.
func RunInTx(ctx context.Context, db bun.IDB, fn func(ctx context.Context, tx bun.Tx) error) error {
	return retry(ctx, int(maxRetries.Load()), func() error {
		return db.RunInTx(ctx, &sql.TxOptions{}, fn)
	})
}
