package users

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/suomisf/suomisf/pkg/binder"
	"github.com/suomisf/suomisf/pkg/envelope"
	"github.com/suomisf/suomisf/pkg/errcodes"
)

type handler struct {
	userService *Service
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userService.Retrieve(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "users.retrieve", err)
	}
	return envelope.OK(c, user)
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListUsersQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	users, err := h.userService.List(ctx, ListOptions(params))
	if err != nil {
		return errcodes.Storage(ctx, "users.list", err)
	}
	return envelope.List(c, users)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	params := UpdateUserPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.userService.Update(ctx, auth.UserFromContext(ctx), id, params)
	if err != nil {
		return errcodes.Storage(ctx, "users.update", err)
	}
	return envelope.OK(c, user)
}

func (h *handler) resetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	params := ResetPasswordPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	// Resetting your own password needs the current one, even for admins.
	actor := auth.UserFromContext(ctx)
	if actor.ID == id {
		if params.CurrentPassword == nil || *params.CurrentPassword == "" {
			return errcodes.ValidationError("Nykyinen salasana vaaditaan.")
		}
		valid, err := h.userService.VerifyPassword(ctx, id, *params.CurrentPassword)
		if err != nil {
			return errcodes.Storage(ctx, "users.reset_password", err)
		}
		if !valid {
			return errcodes.ValidationError("Nykyinen salasana on väärä.")
		}
	} else if !actor.IsAdministrator() {
		return errcodes.Forbidden("Toisen käyttäjän salasanan vaihto")
	}

	if err := h.userService.ResetPassword(ctx, id, params.NewPassword); err != nil {
		return errcodes.Storage(ctx, "users.reset_password", err)
	}
	log.Info("password reset", logger.Data{"user_id": id, "by": actor.ID})
	return envelope.OK(c, id)
}

func (h *handler) genres(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	counts, err := h.userService.GenreCounts(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "users.genres", err)
	}
	return envelope.List(c, counts)
}
