package editions

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/suomisf/suomisf/pkg/binder"
	"github.com/suomisf/suomisf/pkg/envelope"
	"github.com/suomisf/suomisf/pkg/errcodes"
)

type handler struct {
	editionService *Service
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	edition, err := h.editionService.RetrieveEdition(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "editions.retrieve", err)
	}
	return envelope.OK(c, edition)
}

func (h *handler) shorts(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	shorts, err := h.editionService.Shorts(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "editions.shorts", err)
	}
	return envelope.List(c, shorts)
}

func (h *handler) work(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	work, err := h.editionService.Work(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "editions.work", err)
	}
	return envelope.OK(c, work)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := CreateEditionPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	edition, err := h.editionService.CreateEdition(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "editions.create", err)
	}
	log.Info("edition created", logger.Data{"edition_id": edition.ID, "work_id": params.WorkID})
	return envelope.Created(c, edition.ID)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateEditionPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	edition, err := h.editionService.UpdateEdition(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "editions.update", err)
	}
	return envelope.OK(c, edition.ID)
}

func (h *handler) deleteEdition(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.editionService.DeleteEdition(ctx, id); err != nil {
		return errcodes.Storage(ctx, "editions.delete", err)
	}
	log.Info("edition deleted", logger.Data{"edition_id": id})
	return envelope.OK(c, id)
}
