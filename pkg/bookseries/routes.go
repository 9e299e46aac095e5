package bookseries

import (
	"github.com/labstack/echo/v4"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers book series routes.
func RegisterRoutes(api *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		bookseriesService: NewService(db),
	}

	api.GET("/bookseries", h.list)
	api.GET("/bookseries/:id", h.retrieve)
	api.POST("/bookseries", h.create, authMiddleware.RequireAdmin)
	api.PUT("/bookseries", h.update, authMiddleware.RequireAdmin)
	api.DELETE("/bookseries/:id", h.deleteBookseries, authMiddleware.RequireAdmin)
	api.POST("/bookseries/:id/merge/:target", h.merge, authMiddleware.RequireAdmin)
}
