package auth

import (
	"context"

	"github.com/suomisf/suomisf/pkg/models"
)

type contextKey string

const contextKeyUser contextKey = "user"

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, contextKeyUser, user)
}

// UserFromContext returns the authenticated user of the request, or nil.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(contextKeyUser).(*models.User)
	return user
}

// UserIDFromContext returns the id of the authenticated user, or nil when
// the request is anonymous.
func UserIDFromContext(ctx context.Context) *int {
	user := UserFromContext(ctx)
	if user == nil {
		return nil
	}
	id := user.ID
	return &id
}
