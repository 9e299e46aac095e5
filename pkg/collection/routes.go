package collection

import (
	"github.com/labstack/echo/v4"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the owner and wishlist routes under /editions.
// Any signed-in user may edit their own collection.
func RegisterRoutes(api *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		collectionService: NewService(db),
	}

	api.GET("/editions/:id/owners", h.owners)
	api.GET("/editions/:id/owner/:userid", h.owner)
	api.GET("/editions/owned/:userid", h.owned)
	api.POST("/editions/owner", h.addOwner, authMiddleware.Authenticate)
	api.PUT("/editions/owner", h.updateOwner, authMiddleware.Authenticate)
	api.DELETE("/editions/:id/owner/:userid", h.removeOwner, authMiddleware.Authenticate)

	api.GET("/editions/:id/wishlist", h.wishers)
	api.GET("/editions/:id/wishlist/:userid", h.wishlistStatus)
	api.GET("/editions/wishlist/:userid", h.wishlist)
	api.PUT("/editions/:id/wishlist/:userid", h.addToWishlist, authMiddleware.Authenticate)
	api.DELETE("/editions/:id/wishlist/:userid", h.removeFromWishlist, authMiddleware.Authenticate)
}
