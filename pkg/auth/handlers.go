package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/suomisf/suomisf/pkg/errcodes"
)

type handler struct {
	authService *Service
}

// login answers with the token pair directly, without the envelope.
func (h *handler) login(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := LoginPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.Authenticate(ctx, params.Username, params.Password)
	if err != nil {
		log.Info("login failed", logger.Data{"user": params.Username})
		return err
	}

	tokens, err := h.authService.IssueTokens(user)
	if err != nil {
		return errors.WithStack(err)
	}

	log.Info("login", logger.Data{"user_id": user.ID, "role": tokens.Role})
	return errors.WithStack(c.JSON(http.StatusOK, tokens))
}

func (h *handler) refresh(c echo.Context) error {
	token := bearerToken(c)
	if token == "" {
		return errcodes.Unauthorized("Kirjautuminen vaaditaan.")
	}

	tokens, err := h.authService.Refresh(c.Request().Context(), token)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, tokens))
}

func (h *handler) register(c echo.Context) error {
	ctx := c.Request().Context()

	params := RegisterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.Register(ctx, params.Username, params.Password)
	if err != nil {
		return err
	}

	tokens, err := h.authService.IssueTokens(user)
	if err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("registered", logger.Data{"user_id": user.ID})
	return errors.WithStack(c.JSON(http.StatusCreated, tokens))
}
