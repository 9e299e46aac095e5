package people

import (
	"github.com/suomisf/suomisf/pkg/links"
)

type ListPeopleQuery struct {
	Rows        int     `query:"rows" json:"rows,omitempty" default:"50" validate:"min=1,max=500"`
	Page        int     `query:"page" json:"page,omitempty" validate:"min=0"`
	Letter      *string `query:"letter" json:"letter,omitempty" mod:"trim" validate:"omitempty,max=1"`
	Nationality *int    `query:"nationality" json:"nationality,omitempty" validate:"omitempty,min=1"`
	Search      *string `query:"search" json:"search,omitempty" mod:"trim,sanitize" validate:"omitempty,max=100"`
	SortField   string  `query:"sortField" json:"sortField,omitempty" validate:"omitempty,oneof=name dob dod nationality workcount storycount"`
	SortOrder   int     `query:"sortOrder" json:"sortOrder,omitempty" validate:"omitempty,oneof=1 -1"`
}

type WorksQuery struct {
	Transitive bool `query:"transitive" json:"transitive,omitempty"`
}

type CreatePersonPayload struct {
	Name          string       `json:"name" mod:"trim,sanitize" validate:"required,max=250"`
	AltName       *string      `json:"alt_name" mod:"trim,sanitize" validate:"omitempty,max=250"`
	FullName      *string      `json:"fullname" mod:"trim,sanitize" validate:"omitempty,max=250"`
	OtherNames    *string      `json:"other_names" mod:"trim,sanitize" validate:"omitempty,max=500"`
	FirstName     *string      `json:"first_name" mod:"trim,sanitize" validate:"omitempty,max=100"`
	LastName      *string      `json:"last_name" mod:"trim,sanitize" validate:"omitempty,max=150"`
	ImageSrc      *string      `json:"image_src" mod:"trim" validate:"omitempty,max=500"`
	Dob           *int         `json:"dob" validate:"omitempty,min=-3000,max=2100"`
	Dod           *int         `json:"dod" validate:"omitempty,min=-3000,max=2100"`
	Bio           *string      `json:"bio" mod:"trim" validate:"omitempty,max=20000"`
	BioSrc        *string      `json:"bio_src" mod:"trim,sanitize" validate:"omitempty,max=500"`
	NationalityID *int         `json:"nationality_id" validate:"omitempty,min=1"`
	Links         []links.Link `json:"links" validate:"omitempty,dive"`
}

// UpdatePersonPayload replaces every editable field. Links are left alone
// when omitted.
type UpdatePersonPayload struct {
	ID int `json:"id" validate:"required,min=1"`
	CreatePersonPayload
}
