package articles

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers article routes. Article tags live in the tags
// package.
func RegisterRoutes(api *echo.Group, db *bun.DB) {
	h := &handler{
		articleService: NewService(db),
	}

	api.GET("/articles/:id", h.retrieve)
}
