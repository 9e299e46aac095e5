// Package lookups serves the small reference tables the front-end uses to
// fill its selection lists.
package lookups

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/envelope"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

// List returns every row of the reference table behind T ordered by order.
func List[T any](ctx context.Context, db bun.IDB, order string) ([]*T, error) {
	var rows []*T
	err := db.NewSelect().Model(&rows).OrderExpr(order).Scan(ctx)
	return rows, errors.WithStack(err)
}

func listHandler[T any](db *bun.DB, op, order string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		rows, err := List[T](ctx, db, order)
		if err != nil {
			return errcodes.Storage(ctx, op, err)
		}
		return envelope.List(c, rows)
	}
}

// RegisterRoutes registers the reference table endpoints.
func RegisterRoutes(api *echo.Group, db *bun.DB) {
	api.GET("/genres", listHandler[models.Genre](db, "lookups.genres", "g.id"))
	api.GET("/countries", listHandler[models.Country](db, "lookups.countries", "co.name"))
	api.GET("/languages", listHandler[models.Language](db, "lookups.languages", "l.name"))
	api.GET("/bindings", listHandler[models.BindingType](db, "lookups.bindings", "bt.id"))
	api.GET("/formats", listHandler[models.Format](db, "lookups.formats", "f.id"))
	api.GET("/worktypes", listHandler[models.WorkType](db, "lookups.worktypes", "wt.id"))
	api.GET("/shorttypes", listHandler[models.StoryType](db, "lookups.shorttypes", "st.id"))
	api.GET("/magazinetypes", listHandler[models.MagazineType](db, "lookups.magazinetypes", "mt.id"))
	api.GET("/bookconditions", listHandler[models.BookCondition](db, "lookups.bookconditions", "bc.id"))
}
