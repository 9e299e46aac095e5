package tags

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/suomisf/suomisf/pkg/binder"
	"github.com/suomisf/suomisf/pkg/envelope"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/models"
)

type handler struct {
	tagService *Service
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	tag, err := h.tagService.RetrieveTagDetail(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "tags.retrieve", err)
	}
	return envelope.OK(c, tag)
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListTagsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	tags, err := h.tagService.ListTags(ctx, ListTagsOptions{
		Search: params.Search,
		TypeID: params.TypeID,
	})
	if err != nil {
		return errcodes.Storage(ctx, "tags.list", err)
	}
	return envelope.List(c, tags)
}

func (h *handler) quick(c echo.Context) error {
	ctx := c.Request().Context()
	tags, err := h.tagService.ListTagsQuick(ctx)
	if err != nil {
		return errcodes.Storage(ctx, "tags.quick", err)
	}
	return envelope.List(c, tags)
}

func (h *handler) types(c echo.Context) error {
	ctx := c.Request().Context()
	types, err := h.tagService.ListTagTypes(ctx)
	if err != nil {
		return errcodes.Storage(ctx, "tags.types", err)
	}
	return envelope.List(c, types)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := CreateTagPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	tag := &models.Tag{Name: params.Name, Description: params.Description, TypeID: params.TypeID}
	if err := h.tagService.CreateTag(ctx, tag); err != nil {
		return errcodes.Storage(ctx, "tags.create", err)
	}
	log.Info("tag created", logger.Data{"tag_id": tag.ID, "name": tag.Name})
	return envelope.Created(c, tag)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateTagPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	tag, err := h.tagService.UpdateTag(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "tags.update", err)
	}
	return envelope.OK(c, tag)
}

func (h *handler) deleteTag(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.tagService.DeleteTag(ctx, id); err != nil {
		return errcodes.Storage(ctx, "tags.delete", err)
	}
	log.Info("tag deleted", logger.Data{"tag_id": id})
	return envelope.OK(c, id)
}

func (h *handler) merge(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)
	ids, err := binder.PathIDs(c, "id", "target")
	if err != nil {
		return err
	}

	if err := h.tagService.MergeTags(ctx, ids[1], ids[0]); err != nil {
		return errcodes.Storage(ctx, "tags.merge", err)
	}
	log.Info("tags merged", logger.Data{"source_id": ids[0], "target_id": ids[1]})

	tag, err := h.tagService.RetrieveTagDetail(ctx, ids[1])
	if err != nil {
		return errcodes.Storage(ctx, "tags.retrieve", err)
	}
	return envelope.OK(c, tag)
}

func (h *handler) tagsOf(l Link) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := binder.PathID(c, "id")
		if err != nil {
			return err
		}
		tags, err := h.tagService.TagsOf(ctx, l, id)
		if err != nil {
			return errcodes.Storage(ctx, "tags.of", err)
		}
		return envelope.List(c, tags)
	}
}

func (h *handler) attach(l Link) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		ids, err := binder.PathIDs(c, "id", "tagid")
		if err != nil {
			return err
		}
		if _, err := h.tagService.Attach(ctx, l, ids[0], ids[1]); err != nil {
			return errcodes.Storage(ctx, "tags.attach", err)
		}
		return h.tagsOf(l)(c)
	}
}

func (h *handler) detach(l Link) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		ids, err := binder.PathIDs(c, "id", "tagid")
		if err != nil {
			return err
		}
		if err := h.tagService.Detach(ctx, l, ids[0], ids[1]); err != nil {
			return errcodes.Storage(ctx, "tags.detach", err)
		}
		return h.tagsOf(l)(c)
	}
}
