package bookseries

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/suomisf/suomisf/pkg/binder"
	"github.com/suomisf/suomisf/pkg/envelope"
	"github.com/suomisf/suomisf/pkg/errcodes"
)

type handler struct {
	bookseriesService *Service
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	series, err := h.bookseriesService.RetrieveBookseries(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "bookseries.retrieve", err)
	}
	return envelope.OK(c, series)
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListBookseriesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	series, err := h.bookseriesService.ListBookseries(ctx, ListBookseriesOptions{Search: params.Search})
	if err != nil {
		return errcodes.Storage(ctx, "bookseries.list", err)
	}
	return envelope.List(c, series)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := CreateBookseriesPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	series, err := h.bookseriesService.CreateBookseries(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "bookseries.create", err)
	}
	log.Info("bookseries created", logger.Data{"bookseries_id": series.ID})
	return envelope.Created(c, series.ID)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateBookseriesPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	series, err := h.bookseriesService.UpdateBookseries(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "bookseries.update", err)
	}
	return envelope.OK(c, series.ID)
}

func (h *handler) deleteBookseries(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.bookseriesService.DeleteBookseries(ctx, id); err != nil {
		return errcodes.Storage(ctx, "bookseries.delete", err)
	}
	return envelope.OK(c, id)
}

func (h *handler) merge(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)
	ids, err := binder.PathIDs(c, "id", "target")
	if err != nil {
		return err
	}

	if err := h.bookseriesService.MergeBookseries(ctx, ids[1], ids[0]); err != nil {
		return errcodes.Storage(ctx, "bookseries.merge", err)
	}
	log.Info("bookseries merged", logger.Data{"source_id": ids[0], "target_id": ids[1]})
	return envelope.OK(c, ids[1])
}
