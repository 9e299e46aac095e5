package tags

import (
	"github.com/labstack/echo/v4"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the tag endpoints and the tag attach/detach
// endpoints of every taggable entity.
func RegisterRoutes(api *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{tagService: NewService(db)}

	api.GET("/tags", h.list)
	api.GET("/tagsquick", h.quick)
	api.GET("/tags/types", h.types)
	api.GET("/tags/:id", h.retrieve)
	api.POST("/tags", h.create, authMiddleware.RequireAdmin)
	api.PUT("/tags", h.update, authMiddleware.RequireAdmin)
	api.DELETE("/tags/:id", h.deleteTag, authMiddleware.RequireAdmin)
	api.POST("/tags/:id/merge/:target", h.merge, authMiddleware.RequireAdmin)

	paths := map[string][2]string{
		KindWork:    {"/works/:id/tags", "/work/:id/tags/:tagid"},
		KindShort:   {"/shorts/:id/tags", "/story/:id/tags/:tagid"},
		KindPerson:  {"/people/:id/tags", "/person/:id/tags/:tagid"},
		KindIssue:   {"/issues/:id/tags", "/issue/:id/tags/:tagid"},
		KindArticle: {"/articles/:id/tags", "/articles/:id/tags/:tagid"},
	}
	for _, l := range links {
		p := paths[l.Kind]
		api.GET(p[0], h.tagsOf(l))
		api.PUT(p[1], h.attach(l), authMiddleware.RequireAdmin)
		api.DELETE(p[1], h.detach(l), authMiddleware.RequireAdmin)
	}
}
