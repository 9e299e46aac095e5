package editions

import (
	"github.com/labstack/echo/v4"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers edition routes. Owners and wishlists are served
// by the collection package.
func RegisterRoutes(api *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		editionService: NewService(db),
	}

	api.GET("/editions/:id", h.retrieve)
	api.GET("/editions/:id/shorts", h.shorts)
	api.GET("/editions/:id/work", h.work)
	api.POST("/editions", h.create, authMiddleware.RequireAdmin)
	api.PUT("/editions", h.update, authMiddleware.RequireAdmin)
	api.DELETE("/editions/:id", h.deleteEdition, authMiddleware.RequireAdmin)
}
