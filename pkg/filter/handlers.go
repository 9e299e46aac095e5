package filter

import (
	"github.com/labstack/echo/v4"
	"github.com/suomisf/suomisf/pkg/binder"
	"github.com/suomisf/suomisf/pkg/envelope"
	"github.com/suomisf/suomisf/pkg/errcodes"
)

type handler struct {
	filterService *Service
}

func (h *handler) filter(c echo.Context) error {
	ctx := c.Request().Context()
	pattern, err := binder.PathPattern(c, "pattern")
	if err != nil {
		return err
	}

	rows, err := h.filterService.Filter(ctx, c.Param("kind"), pattern)
	if err != nil {
		return errcodes.Storage(ctx, "filter."+c.Param("kind"), err)
	}
	return envelope.List(c, rows)
}
