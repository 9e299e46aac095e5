package works

import (
	"github.com/suomisf/suomisf/pkg/contributors"
	"github.com/suomisf/suomisf/pkg/links"
	"github.com/suomisf/suomisf/pkg/models"
)

// WorkFields are the editable fields shared by create and update. Genres,
// tags, links and contributions are left alone on update when omitted.
type WorkFields struct {
	Title           string                      `json:"title" mod:"trim,sanitize" validate:"required,max=500"`
	Subtitle        *string                     `json:"subtitle" mod:"trim,sanitize" validate:"omitempty,max=500"`
	OrigTitle       *string                     `json:"orig_title" mod:"trim,sanitize" validate:"omitempty,max=500"`
	PubYear         *int                        `json:"pubyear" validate:"omitempty,year"`
	LanguageID      *int                        `json:"language_id" validate:"omitempty,min=1"`
	BookseriesID    *int                        `json:"bookseries_id" validate:"omitempty,min=1"`
	BookseriesNum   *string                     `json:"bookseriesnum" mod:"trim,sanitize" validate:"omitempty,max=20"`
	BookseriesOrder *int                        `json:"bookseriesorder" validate:"omitempty,min=0"`
	TypeID          *int                        `json:"type_id" validate:"omitempty,min=1"`
	Misc            *string                     `json:"misc" mod:"trim" validate:"omitempty,max=10000"`
	Description     *string                     `json:"description" mod:"trim" validate:"omitempty,max=50000"`
	DescrAttr       *string                     `json:"descr_attr" mod:"trim,sanitize" validate:"omitempty,max=500"`
	Genres          []int                       `json:"genres" validate:"omitempty,dive,min=1"`
	Tags            []int                       `json:"tags" validate:"omitempty,dive,min=1"`
	Links           []links.Link                `json:"links" validate:"omitempty,dive"`
	Contributions   []contributors.Contribution `json:"contributions" validate:"omitempty,dive"`
}

func (p WorkFields) apply(w *models.Work) {
	w.Title = p.Title
	w.Subtitle = p.Subtitle
	w.OrigTitle = p.OrigTitle
	w.PubYear = p.PubYear
	w.LanguageID = p.LanguageID
	w.BookseriesID = p.BookseriesID
	w.BookseriesNum = p.BookseriesNum
	w.BookseriesOrder = p.BookseriesOrder
	w.TypeID = p.TypeID
	w.Misc = p.Misc
	w.Description = p.Description
	w.DescrAttr = p.DescrAttr
}

type CreateWorkPayload struct {
	WorkFields
}

type UpdateWorkPayload struct {
	ID int `json:"id" validate:"required,min=1"`
	WorkFields
}

// SaveShortsPayload replaces the short stories of a work. The order of
// Shorts is the print order.
type SaveShortsPayload struct {
	WorkID int   `json:"work_id" validate:"required,min=1"`
	Shorts []int `json:"shorts" validate:"dive,min=1"`
}

// SearchWorksPayload is the composite work search. Every given field
// narrows the result.
type SearchWorksPayload struct {
	Author         *string  `json:"author" mod:"trim,sanitize" validate:"omitempty,max=200"`
	Title          *string  `json:"title" mod:"trim,sanitize" validate:"omitempty,max=200"`
	OrigName       *string  `json:"orig_name" mod:"trim,sanitize" validate:"omitempty,max=200"`
	PrintYearFirst *int     `json:"printyear_first" validate:"omitempty,year"`
	PrintYearLast  *int     `json:"printyear_last" validate:"omitempty,year"`
	PubYearFirst   *int     `json:"pubyear_first" validate:"omitempty,year"`
	PubYearLast    *int     `json:"pubyear_last" validate:"omitempty,year"`
	Genre          []int    `json:"genre" validate:"omitempty,dive,min=1"`
	Nationality    []string `json:"nationality" validate:"omitempty,dive,max=20"`
	EditionNum     *int     `json:"editionnum" validate:"omitempty,min=1"`
	DobFirst       *int     `json:"dob_first" validate:"omitempty,min=-3000,max=2100"`
	DobLast        *int     `json:"dob_last" validate:"omitempty,min=-3000,max=2100"`
	Type           *int     `json:"type" validate:"omitempty,min=1"`
}
