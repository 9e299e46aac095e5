package pubseries

type ListPubseriesQuery struct {
	Search      *string `query:"search" json:"search,omitempty" mod:"trim,sanitize" validate:"omitempty,max=100"`
	PublisherID *int    `query:"publisher_id" json:"publisher_id,omitempty" validate:"omitempty,min=1"`
}

type CreatePubseriesPayload struct {
	Name        string `json:"name" mod:"trim,sanitize" validate:"required,max=200"`
	PublisherID int    `json:"publisher_id" validate:"required,min=1"`
	Important   bool   `json:"important"`
}

type UpdatePubseriesPayload struct {
	ID          int    `json:"id" validate:"required,min=1"`
	Name        string `json:"name" mod:"trim,sanitize" validate:"required,max=200"`
	PublisherID int    `json:"publisher_id" validate:"required,min=1"`
	Important   bool   `json:"important"`
}
