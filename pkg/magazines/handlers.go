package magazines

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/suomisf/suomisf/pkg/binder"
	"github.com/suomisf/suomisf/pkg/envelope"
	"github.com/suomisf/suomisf/pkg/errcodes"
)

type handler struct {
	magazineService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	magazines, err := h.magazineService.ListMagazines(ctx)
	if err != nil {
		return errcodes.Storage(ctx, "magazines.list", err)
	}
	return envelope.List(c, magazines)
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	magazine, err := h.magazineService.RetrieveMagazine(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "magazines.retrieve", err)
	}
	return envelope.OK(c, magazine)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := CreateMagazinePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	magazine, err := h.magazineService.CreateMagazine(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "magazines.create", err)
	}
	log.Info("magazine created", logger.Data{"magazine_id": magazine.ID})
	return envelope.Created(c, magazine.ID)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateMagazinePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	magazine, err := h.magazineService.UpdateMagazine(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "magazines.update", err)
	}
	return envelope.OK(c, magazine.ID)
}

func (h *handler) deleteMagazine(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.magazineService.DeleteMagazine(ctx, id); err != nil {
		return errcodes.Storage(ctx, "magazines.delete", err)
	}
	log.Info("magazine deleted", logger.Data{"magazine_id": id})
	return envelope.OK(c, id)
}
