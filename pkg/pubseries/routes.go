package pubseries

import (
	"github.com/labstack/echo/v4"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers publisher series routes.
func RegisterRoutes(api *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		pubseriesService: NewService(db),
	}

	api.GET("/pubseries", h.list)
	api.GET("/pubseries/:id", h.retrieve)
	api.POST("/pubseries", h.create, authMiddleware.RequireAdmin)
	api.PUT("/pubseries", h.update, authMiddleware.RequireAdmin)
	api.DELETE("/pubseries/:id", h.deletePubseries, authMiddleware.RequireAdmin)
}
