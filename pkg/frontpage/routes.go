package frontpage

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutes(api *echo.Group, db *bun.DB) {
	h := &handler{
		frontpageService: NewService(db),
	}

	api.GET("/frontpagedata", h.retrieve)
}
