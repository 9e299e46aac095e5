package awards

import (
	"github.com/labstack/echo/v4"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers award routes, including the award lists of
// people, works and short stories.
func RegisterRoutes(api *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		awardService: NewService(db),
	}

	api.GET("/awards", h.list)
	api.GET("/awards/:id", h.retrieve)
	api.GET("/awards/type/:type", h.byType)
	api.GET("/awards/categories/:key", h.categories)
	api.GET("/awards/filter/:pattern", h.filter)

	api.GET("/people/:id/awards", h.personAwards)
	api.GET("/people/:id/awarded", h.personAwards)
	api.GET("/works/:id/awards", h.awardedTo(models.AwardTargetWork))
	api.GET("/works/:id/awarded", h.awardedTo(models.AwardTargetWork))
	api.GET("/shorts/:id/awarded", h.awardedTo(models.AwardTargetStory))

	api.PUT("/awards/works/awards", h.saveWorkAwards, authMiddleware.RequireAdmin)
	api.PUT("/awards/people/awards", h.savePersonAwards, authMiddleware.RequireAdmin)
	api.POST("/awarded", h.createAwarded, authMiddleware.RequireAdmin)
}
