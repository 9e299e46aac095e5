package people

import (
	"github.com/labstack/echo/v4"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers people routes. Awards of people are served by
// the awards package and person tags by the tags package.
func RegisterRoutes(api *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		personService: NewService(db),
	}

	api.GET("/people", h.list)
	api.GET("/people/", h.list)
	api.GET("/people/:id", h.retrieve)
	api.GET("/people/:id/works", h.works)
	api.GET("/people/:id/shorts", h.shorts)
	api.GET("/people/:id/articles", h.articles)
	api.GET("/people/:id/chiefeditor", h.chiefEditor)
	api.GET("/people/:id/issue-contributions", h.issueContributions)
	api.GET("/people/:id/aliases", h.aliases)
	api.GET("/filter/alias/:id", h.aliases)

	api.POST("/people", h.create, authMiddleware.RequireAdmin)
	api.PUT("/people", h.update, authMiddleware.RequireAdmin)
	api.DELETE("/people/:id", h.deletePerson, authMiddleware.RequireAdmin)
	api.PUT("/people/:id/aliases/:aliasid", h.addAlias, authMiddleware.RequireAdmin)
	api.DELETE("/people/:id/aliases/:aliasid", h.removeAlias, authMiddleware.RequireAdmin)
}
