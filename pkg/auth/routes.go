package auth

import (
	"github.com/labstack/echo/v4"
	"github.com/suomisf/suomisf/pkg/config"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the login, refresh and register routes and
// returns the service the rest of the API authenticates with.
func RegisterRoutes(api *echo.Group, db *bun.DB, cfg *config.Config) *Service {
	authService := NewService(db, cfg)

	h := &handler{
		authService: authService,
	}

	api.POST("/login", h.login)
	api.POST("/refresh", h.refresh)
	api.POST("/register", h.register)

	return authService
}
