package stats

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutes(api *echo.Group, db *bun.DB) {
	statsService := NewService(db)
	h := &handler{
		statsService: statsService,
	}

	g := api.Group("/stats")
	g.GET("/genrecounts", metric("stats.genrecounts", statsService.GenreCounts))
	g.GET("/personcounts", h.personCounts)
	g.GET("/authorcounts", h.personCounts)
	g.GET("/storypersoncounts", h.storyPersonCounts)
	g.GET("/publishercounts", h.publisherCounts)
	g.GET("/worksbyyear", metric("stats.worksbyyear", statsService.WorksByYear))
	g.GET("/origworksbyyear", metric("stats.origworksbyyear", statsService.OrigWorksByYear))
	g.GET("/storiesbyyear", metric("stats.storiesbyyear", statsService.StoriesByYear))
	g.GET("/issuesperyear", metric("stats.issuesperyear", statsService.IssuesPerYear))
	g.GET("/nationalitycounts", metric("stats.nationalitycounts", statsService.NationalityCounts))
	g.GET("/storynationalitycounts", metric("stats.storynationalitycounts", statsService.StoryNationalityCounts))
	g.GET("/misc", metric("stats.misc", statsService.Misc))
}
