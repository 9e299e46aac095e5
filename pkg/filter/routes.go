package filter

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the filter endpoint. /filter/alias/:id belongs to
// the people package; echo prefers it over the :kind route.
func RegisterRoutes(api *echo.Group, db *bun.DB) {
	h := &handler{
		filterService: NewService(db),
	}

	api.GET("/filter/:kind/:pattern", h.filter)
}
