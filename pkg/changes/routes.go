package changes

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the audit log queries. Log rows are never
// updated or deleted through the API.
func RegisterRoutes(api *echo.Group, db *bun.DB) {
	h := &handler{changeService: NewService(db)}

	api.GET("/changes", h.list)
	api.GET("/work/:id/changes", h.objectChanges(TableWork))
	api.GET("/editions/:id/changes", h.objectChanges(TableEdition))
	api.GET("/shorts/:id/changes", h.objectChanges(TableShort))
	api.GET("/people/:id/changes", h.objectChanges(TablePerson))
	api.GET("/publishers/:id/changes", h.objectChanges(TablePublisher))
	api.GET("/pubseries/:id/changes", h.objectChanges(TablePubseries))
	api.GET("/bookseries/:id/changes", h.objectChanges(TableBookseries))
	api.GET("/magazines/:id/changes", h.objectChanges(TableMagazine))
	api.GET("/issues/:id/changes", h.objectChanges(TableIssue))
}
