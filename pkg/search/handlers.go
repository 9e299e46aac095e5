package search

import (
	"github.com/labstack/echo/v4"
	"github.com/suomisf/suomisf/pkg/binder"
	"github.com/suomisf/suomisf/pkg/envelope"
	"github.com/suomisf/suomisf/pkg/errcodes"
)

type handler struct {
	searchService *Service
}

func (h *handler) search(c echo.Context) error {
	ctx := c.Request().Context()
	pattern, err := binder.PathPattern(c, "pattern")
	if err != nil {
		return err
	}

	results, err := h.searchService.Search(ctx, pattern)
	if err != nil {
		return errcodes.Storage(ctx, "search.search", err)
	}
	return envelope.List(c, results)
}
