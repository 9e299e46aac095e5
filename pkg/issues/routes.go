package issues

import (
	"github.com/labstack/echo/v4"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers issue routes. Issue tags and editors are served
// by the tags and contributors packages.
func RegisterRoutes(api *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		issueService: NewService(db),
	}

	api.GET("/issues/sizes", h.sizes)
	api.GET("/issues/:id", h.retrieve)
	api.GET("/issues/:id/shorts", h.stories)
	api.GET("/issues/:id/articles", h.articles)

	api.POST("/issues", h.create, authMiddleware.RequireAdmin)
	api.PUT("/issues", h.update, authMiddleware.RequireAdmin)
	api.DELETE("/issues/:id", h.deleteIssue, authMiddleware.RequireAdmin)
	api.PUT("/issues/:id/shorts", h.saveStories, authMiddleware.RequireAdmin)
	api.PUT("/issues/:id/articles", h.saveArticles, authMiddleware.RequireAdmin)
}
