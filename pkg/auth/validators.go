package auth

type LoginPayload struct {
	Username string `json:"username" validate:"required,max=100" mod:"trim"`
	Password string `json:"password" validate:"required"`
}

type RegisterPayload struct {
	Username string `json:"username" validate:"required,min=2,max=100" mod:"trim,sanitize"`
	Password string `json:"password" validate:"required,min=8"`
}
