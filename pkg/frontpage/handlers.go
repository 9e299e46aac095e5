package frontpage

import (
	"github.com/labstack/echo/v4"
	"github.com/suomisf/suomisf/pkg/envelope"
	"github.com/suomisf/suomisf/pkg/errcodes"
)

type handler struct {
	frontpageService *Service
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	data, err := h.frontpageService.Retrieve(ctx)
	if err != nil {
		return errcodes.Storage(ctx, "frontpage.retrieve", err)
	}
	return envelope.OK(c, data)
}
