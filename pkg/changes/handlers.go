package changes

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/binder"
	"github.com/suomisf/suomisf/pkg/envelope"
	"github.com/suomisf/suomisf/pkg/errcodes"
)

type handler struct {
	changeService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListChangesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := ListOptions{
		Table:   params.Table,
		TableID: params.ID,
		Action:  params.Action,
		Field:   params.Field,
		UserID:  params.UserID,
		Limit:   params.Limit,
	}
	if params.Period != nil {
		since := now().AddDate(0, 0, -*params.Period).Truncate(time.Second)
		opts.Since = &since
	}

	rows, err := h.changeService.List(ctx, opts)
	if err != nil {
		return errcodes.Storage(ctx, "changes.list", err)
	}
	return envelope.List(c, rows)
}

// objectChanges serves the history endpoint of one entity table.
func (h *handler) objectChanges(table string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := binder.PathID(c, "id")
		if err != nil {
			return err
		}
		rows, err := h.changeService.ForObject(ctx, table, id)
		if err != nil {
			return errcodes.Storage(ctx, "changes.object", err)
		}
		return envelope.List(c, rows)
	}
}
