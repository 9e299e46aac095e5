package collection

type OwnerPayload struct {
	EditionID   int     `json:"edition_id" validate:"required,min=1"`
	UserID      int     `json:"user_id" validate:"required,min=1"`
	ConditionID *int    `json:"condition_id" validate:"omitempty,min=1,max=5"`
	Description *string `json:"description" mod:"trim,sanitize" validate:"omitempty,max=500"`
	Price       *int    `json:"price" validate:"omitempty,min=0"`
}

// WishlistStatus answers whether one user wishes for one edition.
type WishlistStatus struct {
	Wishlisted bool `json:"wishlisted"`
}
