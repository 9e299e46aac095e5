package testutils

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

type handler struct {
	db *bun.DB
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
	IsAdmin  bool   `json:"is_admin"`
}

type createUserResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// createUser creates a test user.
// POST /api/test/users.
func (h *handler) createUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return errors.WithStack(err)
	}

	user, err := InsertUser(ctx, h.db, req.Name, req.Password, req.IsAdmin)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createUserResponse{
		ID:   user.ID,
		Name: user.Name,
	})
}

type deleteAllUsersResponse struct {
	Deleted int `json:"deleted"`
}

// deleteAllUsers removes every user together with their collections. Audit
// rows are kept but lose their user reference.
// DELETE /api/test/users.
func (h *handler) deleteAllUsers(c echo.Context) error {
	ctx := c.Request().Context()

	var deleted int64
	err := h.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range []any{
			(*models.UserBook)(nil),
			(*models.UserPubseries)(nil),
			(*models.UserBookseries)(nil),
		} {
			if _, err := tx.NewDelete().Model(model).Where("1=1").Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}
		if _, err := tx.NewUpdate().
			Model((*models.Log)(nil)).
			Set("user_id = NULL").
			Where("user_id IS NOT NULL").
			Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		result, err := tx.NewDelete().Model((*models.User)(nil)).Where("1=1").Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		deleted, _ = result.RowsAffected()
		return nil
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, deleteAllUsersResponse{
		Deleted: int(deleted),
	})
}

// seed loads the fixture catalog into an empty database.
// POST /api/test/seed.
func (h *handler) seed(c echo.Context) error {
	fixture, err := SeedCatalog(c.Request().Context(), h.db)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, fixture)
}
