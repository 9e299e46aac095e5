package users

import (
	"github.com/labstack/echo/v4"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all user routes. Profiles are public; changing
// one requires signing in.
func RegisterRoutes(api *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		userService: NewService(db),
	}

	users := api.Group("/users")

	users.GET("", h.list)
	users.GET("/:id", h.retrieve)
	users.GET("/:id/stats/genres", h.genres)

	users.PUT("/:id", h.update, authMiddleware.Authenticate)
	users.PUT("/:id/password", h.resetPassword, authMiddleware.Authenticate)
}
