package testutils

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

// Fixed accounts used by the end-to-end suites.
const (
	AdminName     = "Test Admin"
	AdminPassword = "testadminpass123"
	UserName      = "Test User"
	UserPassword  = "testuserpass123"
)

// InsertUser stores a user with a bcrypt hash of password. The minimum cost
// keeps fixtures fast; the hash is still verifiable by the login flow.
func InsertUser(ctx context.Context, db bun.IDB, name, password string, admin bool) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	user := &models.User{
		Name:         name,
		PasswordHash: string(hash),
		IsAdmin:      admin,
	}
	if _, err := db.NewInsert().Model(user).Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create user %s", name)
	}
	return user, nil
}

// EnsureTestUsers creates the fixed admin and regular accounts unless they
// already exist.
func EnsureTestUsers(ctx context.Context, db bun.IDB) (admin, user *models.User, err error) {
	admin, err = ensureUser(ctx, db, AdminName, AdminPassword, true)
	if err != nil {
		return nil, nil, err
	}
	user, err = ensureUser(ctx, db, UserName, UserPassword, false)
	if err != nil {
		return nil, nil, err
	}
	return admin, user, nil
}

func ensureUser(ctx context.Context, db bun.IDB, name, password string, admin bool) (*models.User, error) {
	existing := &models.User{}
	err := db.NewSelect().Model(existing).Where("u.name = ?", name).Limit(1).Scan(ctx)
	if err == nil {
		return existing, nil
	}
	return InsertUser(ctx, db, name, password, admin)
}

// CreateUser is InsertUser for tests.
func CreateUser(t testing.TB, db bun.IDB, name, password string, admin bool) *models.User {
	t.Helper()
	user, err := InsertUser(context.Background(), db, name, password, admin)
	require.NoError(t, err)
	return user
}
