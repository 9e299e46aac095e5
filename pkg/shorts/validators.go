package shorts

import (
	"github.com/suomisf/suomisf/pkg/contributors"
	"github.com/suomisf/suomisf/pkg/models"
)

type ShortFields struct {
	Title         string                      `json:"title" mod:"trim,sanitize" validate:"required,max=500"`
	OrigTitle     *string                     `json:"orig_title" mod:"trim,sanitize" validate:"omitempty,max=500"`
	PubYear       *int                        `json:"pubyear" validate:"omitempty,year"`
	LanguageID    *int                        `json:"language_id" validate:"omitempty,min=1"`
	TypeID        *int                        `json:"type_id" validate:"omitempty,min=1"`
	Genres        []int                       `json:"genres" validate:"omitempty,dive,min=1"`
	Tags          []int                       `json:"tags" validate:"omitempty,dive,min=1"`
	Contributions []contributors.Contribution `json:"contributions" validate:"omitempty,dive"`
}

func (p ShortFields) apply(s *models.ShortStory) {
	s.Title = p.Title
	s.OrigTitle = p.OrigTitle
	s.PubYear = p.PubYear
	s.LanguageID = p.LanguageID
	s.StoryType = p.TypeID
}

type CreateShortPayload struct {
	ShortFields
}

// UpdateShortPayload replaces the fields of a story. Genres, tags and
// contributions are left alone when omitted.
type UpdateShortPayload struct {
	ID int `json:"id" validate:"required,min=1"`
	ShortFields
}

type SearchShortsPayload struct {
	Author       *string `json:"author" mod:"trim,sanitize" validate:"omitempty,max=200"`
	Title        *string `json:"title" mod:"trim,sanitize" validate:"omitempty,max=200"`
	OrigName     *string `json:"orig_name" mod:"trim,sanitize" validate:"omitempty,max=200"`
	PubYearFirst *int    `json:"pubyear_first" validate:"omitempty,year"`
	PubYearLast  *int    `json:"pubyear_last" validate:"omitempty,year"`
	Type         *int    `json:"type" validate:"omitempty,min=1"`
	Language     *int    `json:"language" validate:"omitempty,min=1"`
	Genre        []int   `json:"genre" validate:"omitempty,dive,min=1"`
}
