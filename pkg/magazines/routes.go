package magazines

import (
	"github.com/labstack/echo/v4"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers magazine routes. Magazine types are served by the
// lookups package.
func RegisterRoutes(api *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		magazineService: NewService(db),
	}

	api.GET("/magazines", h.list)
	api.GET("/magazines/:id", h.retrieve)
	api.POST("/magazines", h.create, authMiddleware.RequireAdmin)
	api.PUT("/magazines", h.update, authMiddleware.RequireAdmin)
	api.DELETE("/magazines/:id", h.deleteMagazine, authMiddleware.RequireAdmin)
}
