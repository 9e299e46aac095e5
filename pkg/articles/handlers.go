package articles

import (
	"github.com/labstack/echo/v4"
	"github.com/suomisf/suomisf/pkg/binder"
	"github.com/suomisf/suomisf/pkg/envelope"
	"github.com/suomisf/suomisf/pkg/errcodes"
)

type handler struct {
	articleService *Service
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	article, err := h.articleService.RetrieveArticle(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "articles.retrieve", err)
	}
	return envelope.OK(c, article)
}
