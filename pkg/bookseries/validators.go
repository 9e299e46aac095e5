package bookseries

type ListBookseriesQuery struct {
	Search *string `query:"search" json:"search,omitempty" mod:"trim,sanitize" validate:"omitempty,max=100"`
}

type CreateBookseriesPayload struct {
	Name      string  `json:"name" mod:"trim,sanitize" validate:"required,max=200"`
	OrigName  *string `json:"orig_name" mod:"trim,sanitize" validate:"omitempty,max=200"`
	Important bool    `json:"important"`
}

type UpdateBookseriesPayload struct {
	ID        int     `json:"id" validate:"required,min=1"`
	Name      string  `json:"name" mod:"trim,sanitize" validate:"required,max=200"`
	OrigName  *string `json:"orig_name" mod:"trim,sanitize" validate:"omitempty,max=200"`
	Important bool    `json:"important"`
}
