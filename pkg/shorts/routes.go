package shorts

import (
	"github.com/labstack/echo/v4"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers short story routes. Story tags, contributors and
// awards are served by their own packages.
func RegisterRoutes(api *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		shortService: NewService(db),
	}

	api.GET("/shorts/:id", h.retrieve)
	api.POST("/searchshorts", h.search)

	api.POST("/shorts", h.create, authMiddleware.RequireAdmin)
	api.PUT("/shorts", h.update, authMiddleware.RequireAdmin)
	api.DELETE("/shorts/:id", h.deleteShort, authMiddleware.RequireAdmin)
	api.PUT("/shorts/:id/works/:wid", h.addToWork, authMiddleware.RequireAdmin)
	api.DELETE("/shorts/:id/works/:wid", h.removeFromWork, authMiddleware.RequireAdmin)
	api.PUT("/shorts/:id/issues/:iid", h.addToIssue, authMiddleware.RequireAdmin)
	api.DELETE("/shorts/:id/issues/:iid", h.removeFromIssue, authMiddleware.RequireAdmin)
}
