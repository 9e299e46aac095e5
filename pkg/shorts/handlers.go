package shorts

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/suomisf/suomisf/pkg/binder"
	"github.com/suomisf/suomisf/pkg/envelope"
	"github.com/suomisf/suomisf/pkg/errcodes"
)

type handler struct {
	shortService *Service
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	short, err := h.shortService.RetrieveShort(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "shorts.retrieve", err)
	}
	return envelope.OK(c, short)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := CreateShortPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	short, err := h.shortService.CreateShort(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "shorts.create", err)
	}
	log.Info("short created", logger.Data{"short_id": short.ID})
	return envelope.Created(c, short.ID)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateShortPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	short, err := h.shortService.UpdateShort(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "shorts.update", err)
	}
	return envelope.OK(c, short.ID)
}

func (h *handler) deleteShort(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.shortService.DeleteShort(ctx, id); err != nil {
		return errcodes.Storage(ctx, "shorts.delete", err)
	}
	log.Info("short deleted", logger.Data{"short_id": id})
	return envelope.OK(c, id)
}

func (h *handler) search(c echo.Context) error {
	ctx := c.Request().Context()

	params := SearchShortsPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	shorts, err := h.shortService.SearchShorts(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "shorts.search", err)
	}
	return envelope.List(c, shorts)
}

func (h *handler) addToWork(c echo.Context) error {
	ctx := c.Request().Context()
	ids, err := binder.PathIDs(c, "id", "wid")
	if err != nil {
		return err
	}

	if err := h.shortService.AddToWork(ctx, ids[0], ids[1]); err != nil {
		return errcodes.Storage(ctx, "shorts.add_to_work", err)
	}
	return envelope.OK(c, ids[0])
}

func (h *handler) removeFromWork(c echo.Context) error {
	ctx := c.Request().Context()
	ids, err := binder.PathIDs(c, "id", "wid")
	if err != nil {
		return err
	}

	if err := h.shortService.RemoveFromWork(ctx, ids[0], ids[1]); err != nil {
		return errcodes.Storage(ctx, "shorts.remove_from_work", err)
	}
	return envelope.OK(c, ids[0])
}

func (h *handler) addToIssue(c echo.Context) error {
	ctx := c.Request().Context()
	ids, err := binder.PathIDs(c, "id", "iid")
	if err != nil {
		return err
	}

	if err := h.shortService.AddToIssue(ctx, ids[0], ids[1]); err != nil {
		return errcodes.Storage(ctx, "shorts.add_to_issue", err)
	}
	return envelope.OK(c, ids[0])
}

func (h *handler) removeFromIssue(c echo.Context) error {
	ctx := c.Request().Context()
	ids, err := binder.PathIDs(c, "id", "iid")
	if err != nil {
		return err
	}

	if err := h.shortService.RemoveFromIssue(ctx, ids[0], ids[1]); err != nil {
		return errcodes.Storage(ctx, "shorts.remove_from_issue", err)
	}
	return envelope.OK(c, ids[0])
}
