package works

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/suomisf/suomisf/pkg/binder"
	"github.com/suomisf/suomisf/pkg/envelope"
	"github.com/suomisf/suomisf/pkg/errcodes"
)

type handler struct {
	workService *Service
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	work, err := h.workService.RetrieveWork(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "works.retrieve", err)
	}
	return envelope.OK(c, work)
}

func (h *handler) shorts(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	shorts, err := h.workService.Shorts(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "works.shorts", err)
	}
	return envelope.List(c, shorts)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := CreateWorkPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	work, err := h.workService.CreateWork(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "works.create", err)
	}
	log.Info("work created", logger.Data{"work_id": work.ID})
	return envelope.Created(c, work.ID)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateWorkPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	work, err := h.workService.UpdateWork(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "works.update", err)
	}
	return envelope.OK(c, work.ID)
}

func (h *handler) deleteWork(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.workService.DeleteWork(ctx, id); err != nil {
		return errcodes.Storage(ctx, "works.delete", err)
	}
	log.Info("work deleted", logger.Data{"work_id": id})
	return envelope.OK(c, id)
}

func (h *handler) saveShorts(c echo.Context) error {
	ctx := c.Request().Context()

	params := SaveShortsPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if err := h.workService.SaveShorts(ctx, params); err != nil {
		return errcodes.Storage(ctx, "works.save_shorts", err)
	}
	return envelope.OK(c, params.WorkID)
}

func (h *handler) byInitial(c echo.Context) error {
	ctx := c.Request().Context()

	bucket, err := h.workService.ByInitial(ctx, c.Param("letter"))
	if err != nil {
		return errcodes.Storage(ctx, "works.by_initial", err)
	}
	return envelope.OK(c, bucket)
}

func (h *handler) letterVector(c echo.Context) error {
	ctx := c.Request().Context()

	counts, err := h.workService.LetterVector(ctx, c.Param("target"))
	if err != nil {
		return errcodes.Storage(ctx, "works.letter_vector", err)
	}
	return envelope.OK(c, counts)
}

func (h *handler) search(c echo.Context) error {
	ctx := c.Request().Context()

	params := SearchWorksPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	works, err := h.workService.SearchWorks(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "works.search", err)
	}
	return envelope.List(c, works)
}
