package works

import (
	"github.com/labstack/echo/v4"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers work routes. Work tags, contributors, awards and
// changes are served by their own packages.
func RegisterRoutes(api *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		workService: NewService(db),
	}

	api.GET("/works/:id", h.retrieve)
	api.GET("/works/:id/shorts", h.shorts)
	api.GET("/works/shorts/:id", h.shorts)
	api.GET("/worksbyinitial/:letter", h.byInitial)
	api.GET("/firstlettervector/:target", h.letterVector)
	api.POST("/searchworks", h.search)

	api.POST("/works", h.create, authMiddleware.RequireAdmin)
	api.PUT("/works", h.update, authMiddleware.RequireAdmin)
	api.DELETE("/works/:id", h.deleteWork, authMiddleware.RequireAdmin)
	api.PUT("/works/shorts", h.saveShorts, authMiddleware.RequireAdmin)
	api.POST("/works/shorts", h.saveShorts, authMiddleware.RequireAdmin)
}
