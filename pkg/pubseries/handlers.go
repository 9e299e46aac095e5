package pubseries

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/suomisf/suomisf/pkg/binder"
	"github.com/suomisf/suomisf/pkg/envelope"
	"github.com/suomisf/suomisf/pkg/errcodes"
)

type handler struct {
	pubseriesService *Service
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	series, err := h.pubseriesService.RetrievePubseries(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "pubseries.retrieve", err)
	}
	return envelope.OK(c, series)
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListPubseriesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	series, err := h.pubseriesService.ListPubseries(ctx, ListPubseriesOptions{Search: params.Search, PublisherID: params.PublisherID})
	if err != nil {
		return errcodes.Storage(ctx, "pubseries.list", err)
	}
	return envelope.List(c, series)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := CreatePubseriesPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	series, err := h.pubseriesService.CreatePubseries(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "pubseries.create", err)
	}
	log.Info("pubseries created", logger.Data{"pubseries_id": series.ID})
	return envelope.Created(c, series.ID)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdatePubseriesPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	series, err := h.pubseriesService.UpdatePubseries(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "pubseries.update", err)
	}
	return envelope.OK(c, series.ID)
}

func (h *handler) deletePubseries(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.pubseriesService.DeletePubseries(ctx, id); err != nil {
		return errcodes.Storage(ctx, "pubseries.delete", err)
	}
	return envelope.OK(c, id)
}
