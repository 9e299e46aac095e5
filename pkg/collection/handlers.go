package collection

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
	collectionService *Service
}

func (h *handler) owners(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	rows, err := h.collectionService.Owners(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "collection.owners", err)
	}
	return envelope.List(c, rows)
}

func (h *handler) owner(c echo.Context) error {
	ctx := c.Request().Context()
	ids, err := binder.PathIDs(c, "id", "userid")
	if err != nil {
		return err
	}

	row, err := h.collectionService.Owner(ctx, ids[0], ids[1])
	if err != nil {
		return errcodes.Storage(ctx, "collection.owner", err)
	}
	return envelope.OK(c, row)
}

func (h *handler) owned(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "userid")
	if err != nil {
		return err
	}

	rows, err := h.collectionService.Owned(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "collection.owned", err)
	}
	return envelope.List(c, rows)
}

func (h *handler) addOwner(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := OwnerPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	row, err := h.collectionService.AddOwner(ctx, auth.UserFromContext(ctx), params)
	if err != nil {
		return errcodes.Storage(ctx, "collection.add_owner", err)
	}
	log.Info("edition owner added", logger.Data{"edition_id": row.EditionID, "user_id": row.UserID})
	return envelope.Created(c, row)
}

func (h *handler) updateOwner(c echo.Context) error {
	ctx := c.Request().Context()

	params := OwnerPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	row, err := h.collectionService.UpdateOwner(ctx, auth.UserFromContext(ctx), params)
	if err != nil {
		return errcodes.Storage(ctx, "collection.update_owner", err)
	}
	return envelope.OK(c, row)
}

func (h *handler) removeOwner(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)
	ids, err := binder.PathIDs(c, "id", "userid")
	if err != nil {
		return err
	}

	if err := h.collectionService.RemoveOwner(ctx, auth.UserFromContext(ctx), ids[0], ids[1]); err != nil {
		return errcodes.Storage(ctx, "collection.remove_owner", err)
	}
	log.Info("edition owner removed", logger.Data{"edition_id": ids[0], "user_id": ids[1]})
	return envelope.OK(c, ids[0])
}

func (h *handler) wishers(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	users, err := h.collectionService.Wishers(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "collection.wishers", err)
	}
	return envelope.List(c, users)
}

func (h *handler) wishlistStatus(c echo.Context) error {
	ctx := c.Request().Context()
	ids, err := binder.PathIDs(c, "id", "userid")
	if err != nil {
		return err
	}

	ok, err := h.collectionService.Wishlisted(ctx, ids[0], ids[1])
	if err != nil {
		return errcodes.Storage(ctx, "collection.wishlist_status", err)
	}
	return envelope.OK(c, WishlistStatus{ok})
}

func (h *handler) wishlist(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "userid")
	if err != nil {
		return err
	}

	rows, err := h.collectionService.Wishlist(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "collection.wishlist", err)
	}
	return envelope.List(c, rows)
}

func (h *handler) addToWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	ids, err := binder.PathIDs(c, "id", "userid")
	if err != nil {
		return err
	}

	if err := h.collectionService.AddToWishlist(ctx, auth.UserFromContext(ctx), ids[0], ids[1]); err != nil {
		return errcodes.Storage(ctx, "collection.add_to_wishlist", err)
	}
	return envelope.OK(c, ids[0])
}

func (h *handler) removeFromWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	ids, err := binder.PathIDs(c, "id", "userid")
	if err != nil {
		return err
	}

	if err := h.collectionService.RemoveFromWishlist(ctx, auth.UserFromContext(ctx), ids[0], ids[1]); err != nil {
		return errcodes.Storage(ctx, "collection.remove_from_wishlist", err)
	}
	return envelope.OK(c, ids[0])
}
