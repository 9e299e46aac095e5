package tags

type ListTagsQuery struct {
	Search *string `query:"search" json:"search,omitempty" mod:"trim,sanitize" validate:"omitempty,max=100"`
	TypeID *int    `query:"type_id" json:"type_id,omitempty" validate:"omitempty,min=1"`
}

type CreateTagPayload struct {
	Name        string  `json:"name" mod:"trim,sanitize" validate:"required,max=200"`
	Description *string `json:"description" mod:"trim" validate:"omitempty,max=5000"`
	TypeID      *int    `json:"type_id" validate:"omitempty,min=1"`
}

type UpdateTagPayload struct {
	ID          int     `json:"id" validate:"required,min=1"`
	Name        string  `json:"name" mod:"trim,sanitize" validate:"required,max=200"`
	Description *string `json:"description" mod:"trim" validate:"omitempty,max=5000"`
	TypeID      *int    `json:"type_id" validate:"omitempty,min=1"`
}
