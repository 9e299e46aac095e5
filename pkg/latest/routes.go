package latest

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutes(api *echo.Group, db *bun.DB) {
	latestService := NewService(db)

	api.GET("/latest/covers/:n", list("latest.covers", latestService.Covers))
	api.GET("/latest/works/:n", list("latest.works", latestService.Works))
	api.GET("/latest/editions/:n", list("latest.editions", latestService.Editions))
	api.GET("/latest/people/:n", list("latest.people", latestService.People))
	api.GET("/latest/shorts/:n", list("latest.shorts", latestService.Shorts))
}
