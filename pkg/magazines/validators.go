package magazines

type MagazineFields struct {
	Name        string  `json:"name" mod:"trim,sanitize" validate:"required,max=200"`
	PublisherID *int    `json:"publisher_id" validate:"omitempty,min=1"`
	Description *string `json:"description" mod:"trim" validate:"omitempty,max=10000"`
	Link        *string `json:"link" mod:"trim" validate:"omitempty,max=500"`
	ISSN        *string `json:"issn" mod:"trim,sanitize" validate:"omitempty,max=20"`
	TypeID      *int    `json:"type_id" validate:"omitempty,min=1"`
}

type CreateMagazinePayload struct {
	MagazineFields
}

type UpdateMagazinePayload struct {
	ID int `json:"id" validate:"required,min=1"`
	MagazineFields
}
