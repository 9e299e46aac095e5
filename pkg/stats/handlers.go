package stats

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/envelope"
	"github.com/suomisf/suomisf/pkg/errcodes"
)

type handler struct {
	statsService *Service
}

func metric[T any](op string, fn func(ctx context.Context) (T, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		out, err := fn(ctx)
		if err != nil {
			return errcodes.Storage(ctx, op, err)
		}
		return envelope.OK(c, out)
	}
}

func (h *handler) personCounts(c echo.Context) error {
	ctx := c.Request().Context()
	params := PersonCountsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	rows, err := h.statsService.PersonCounts(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "stats.personcounts", err)
	}
	return envelope.List(c, rows)
}

func (h *handler) storyPersonCounts(c echo.Context) error {
	ctx := c.Request().Context()
	params := PersonCountsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	rows, err := h.statsService.StoryPersonCounts(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "stats.storypersoncounts", err)
	}
	return envelope.List(c, rows)
}

func (h *handler) publisherCounts(c echo.Context) error {
	ctx := c.Request().Context()
	params := PublisherCountsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	rows, err := h.statsService.PublisherCounts(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "stats.publishercounts", err)
	}
	return envelope.List(c, rows)
}
