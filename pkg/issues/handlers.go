package issues

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/suomisf/suomisf/pkg/binder"
	"github.com/suomisf/suomisf/pkg/envelope"
	"github.com/suomisf/suomisf/pkg/errcodes"
)

type handler struct {
	issueService *Service
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	issue, err := h.issueService.RetrieveIssue(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "issues.retrieve", err)
	}
	return envelope.OK(c, issue)
}

func (h *handler) sizes(c echo.Context) error {
	ctx := c.Request().Context()

	sizes, err := h.issueService.ListSizes(ctx)
	if err != nil {
		return errcodes.Storage(ctx, "issues.sizes", err)
	}
	return envelope.List(c, sizes)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := CreateIssuePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	issue, err := h.issueService.CreateIssue(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "issues.create", err)
	}
	log.Info("issue created", logger.Data{"issue_id": issue.ID, "magazine_id": issue.MagazineID})
	return envelope.Created(c, issue.ID)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateIssuePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	issue, err := h.issueService.UpdateIssue(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "issues.update", err)
	}
	return envelope.OK(c, issue.ID)
}

func (h *handler) deleteIssue(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.issueService.DeleteIssue(ctx, id); err != nil {
		return errcodes.Storage(ctx, "issues.delete", err)
	}
	log.Info("issue deleted", logger.Data{"issue_id": id})
	return envelope.OK(c, id)
}

func (h *handler) stories(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	stories, err := h.issueService.Stories(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "issues.shorts", err)
	}
	return envelope.List(c, stories)
}

func (h *handler) saveStories(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	params := SaveShortsPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if err := h.issueService.SaveStories(ctx, id, params.Shorts); err != nil {
		return errcodes.Storage(ctx, "issues.save_shorts", err)
	}
	return envelope.OK(c, id)
}

func (h *handler) articles(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	articles, err := h.issueService.Articles(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "issues.articles", err)
	}
	return envelope.List(c, articles)
}

func (h *handler) saveArticles(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	params := SaveArticlesPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if err := h.issueService.SaveArticles(ctx, id, params.Articles); err != nil {
		return errcodes.Storage(ctx, "issues.save_articles", err)
	}
	return envelope.OK(c, id)
}
