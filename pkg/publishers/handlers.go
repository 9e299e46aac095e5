package publishers

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/suomisf/suomisf/pkg/binder"
	"github.com/suomisf/suomisf/pkg/envelope"
	"github.com/suomisf/suomisf/pkg/errcodes"
)

type handler struct {
	publisherService *Service
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	publisher, err := h.publisherService.RetrievePublisher(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "publishers.retrieve", err)
	}
	return envelope.OK(c, publisher)
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListPublishersQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	publishers, err := h.publisherService.ListPublishers(ctx, ListPublishersOptions{Search: params.Search})
	if err != nil {
		return errcodes.Storage(ctx, "publishers.list", err)
	}
	return envelope.List(c, publishers)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := CreatePublisherPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	publisher, err := h.publisherService.CreatePublisher(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "publishers.create", err)
	}
	log.Info("publisher created", logger.Data{"publisher_id": publisher.ID})
	return envelope.Created(c, publisher.ID)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdatePublisherPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	publisher, err := h.publisherService.UpdatePublisher(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "publishers.update", err)
	}
	return envelope.OK(c, publisher.ID)
}

func (h *handler) deletePublisher(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.publisherService.DeletePublisher(ctx, id); err != nil {
		return errcodes.Storage(ctx, "publishers.delete", err)
	}
	log.Info("publisher deleted", logger.Data{"publisher_id": id})
	return envelope.OK(c, id)
}
