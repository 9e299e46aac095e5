package publishers

import (
	"github.com/suomisf/suomisf/pkg/links"
)

type ListPublishersQuery struct {
	Search *string `query:"search" json:"search,omitempty" mod:"trim,sanitize" validate:"omitempty,max=100"`
}

type CreatePublisherPayload struct {
	Name        string       `json:"name" mod:"trim,sanitize" validate:"required,max=200"`
	FullName    string       `json:"fullname" mod:"trim,sanitize" validate:"max=500"`
	Description *string      `json:"description" mod:"trim" validate:"omitempty,max=10000"`
	Links       []links.Link `json:"links" validate:"omitempty,dive"`
}

type UpdatePublisherPayload struct {
	ID          int          `json:"id" validate:"required,min=1"`
	Name        string       `json:"name" mod:"trim,sanitize" validate:"required,max=200"`
	FullName    string       `json:"fullname" mod:"trim,sanitize" validate:"max=500"`
	Description *string      `json:"description" mod:"trim" validate:"omitempty,max=10000"`
	Links       []links.Link `json:"links" validate:"omitempty,dive"`
}
