package search

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the catalog-wide search route.
func RegisterRoutes(api *echo.Group, db *bun.DB) {
	searchService := NewService(db)

	h := &handler{
		searchService: searchService,
	}

	api.GET("/search/:pattern", h.search)
}
