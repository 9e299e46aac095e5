package users

// UpdateUserPayload changes a user's profile. Only administrators may change
// the admin flag.
type UpdateUserPayload struct {
	Name       *string `json:"name" mod:"trim,sanitize" validate:"omitempty,min=2,max=100"`
	LanguageID *int    `json:"language_id" validate:"omitempty,min=1"`
	IsAdmin    *bool   `json:"is_admin"`
}

// ResetPasswordPayload represents the request body for resetting a password.
type ResetPasswordPayload struct {
	CurrentPassword *string `json:"current_password"` // Required when resetting your own password
	NewPassword     string  `json:"new_password" validate:"required,min=8"`
}

// ListUsersQuery represents the query parameters for listing users.
type ListUsersQuery struct {
	Limit  int `query:"limit" default:"50" validate:"min=1,max=500"`
	Offset int `query:"offset" default:"0" validate:"min=0"`
}
