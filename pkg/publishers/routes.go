package publishers

import (
	"github.com/labstack/echo/v4"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers publisher routes.
func RegisterRoutes(api *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		publisherService: NewService(db),
	}

	api.GET("/publishers", h.list)
	api.GET("/publishers/:id", h.retrieve)
	api.POST("/publishers", h.create, authMiddleware.RequireAdmin)
	api.PUT("/publishers", h.update, authMiddleware.RequireAdmin)
	api.DELETE("/publishers/:id", h.deletePublisher, authMiddleware.RequireAdmin)
}
