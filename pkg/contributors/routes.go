package contributors

import (
	"github.com/labstack/echo/v4"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

var targetPaths = map[string]string{
	models.TargetWork:    "/works",
	models.TargetEdition: "/editions",
	models.TargetShort:   "/shorts",
	models.TargetIssue:   "/issues",
}

// RegisterRoutes registers the role lookups and the contributor endpoints of
// works, editions, short stories and issues.
func RegisterRoutes(api *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{db: db}

	api.GET("/roles/", h.roles)
	api.GET("/roles", h.roles)
	api.GET("/roles/:target", h.rolesForTarget)

	for kind, prefix := range targetPaths {
		api.GET(prefix+"/:id/contributors", h.list(kind))
		api.PUT(prefix+"/:id/contributors", h.attach(kind), authMiddleware.RequireAdmin)
		api.DELETE(prefix+"/:id/contributors/:personid/:roleid", h.detach(kind), authMiddleware.RequireAdmin)
	}
}
