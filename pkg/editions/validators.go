package editions

import (
	"github.com/suomisf/suomisf/pkg/contributors"
	"github.com/suomisf/suomisf/pkg/links"
	"github.com/suomisf/suomisf/pkg/models"
)

// EditionFields are the editable fields shared by create and update.
type EditionFields struct {
	Title         string                      `json:"title" mod:"trim,sanitize" validate:"max=500"`
	Subtitle      *string                     `json:"subtitle" mod:"trim,sanitize" validate:"omitempty,max=500"`
	PubYear       *int                        `json:"pubyear" validate:"omitempty,year"`
	EditionNum    *int                        `json:"editionnum" validate:"omitempty,min=1,max=1000"`
	Version       *int                        `json:"version" validate:"omitempty,min=1,max=100"`
	PublisherID   *int                        `json:"publisher_id" validate:"omitempty,min=1"`
	PubseriesID   *int                        `json:"pubseries_id" validate:"omitempty,min=1"`
	PubseriesNum  *int                        `json:"pubseriesnum" validate:"omitempty,min=0"`
	ISBN          *string                     `json:"isbn" mod:"trim" validate:"omitempty,isbn_loose"`
	PrintedIn     *string                     `json:"printedin" mod:"trim,sanitize" validate:"omitempty,max=200"`
	CollInfo      *string                     `json:"coll_info" mod:"trim,sanitize" validate:"omitempty,max=500"`
	Pages         *int                        `json:"pages" validate:"omitempty,min=0,max=100000"`
	BindingID     *int                        `json:"binding_id" validate:"omitempty,min=1"`
	FormatID      *int                        `json:"format_id" validate:"omitempty,min=1"`
	Size          *int                        `json:"size" validate:"omitempty,min=0,max=1000"`
	Dustcover     int                         `json:"dustcover" validate:"omitempty,oneof=1 2 3"`
	CoverImage    int                         `json:"coverimage" validate:"omitempty,oneof=1 2 3"`
	Misc          *string                     `json:"misc" mod:"trim" validate:"omitempty,max=10000"`
	Verified      bool                        `json:"verified"`
	Contributions []contributors.Contribution `json:"contributions" validate:"omitempty,dive"`
	Links         []links.Link                `json:"links" validate:"omitempty,dive"`
}

func (p EditionFields) apply(e *models.Edition) {
	e.Title = p.Title
	e.Subtitle = p.Subtitle
	e.PubYear = p.PubYear
	e.EditionNum = p.EditionNum
	e.Version = p.Version
	e.PublisherID = p.PublisherID
	e.PubseriesID = p.PubseriesID
	e.PubseriesNum = p.PubseriesNum
	e.ISBN = p.ISBN
	e.PrintedIn = p.PrintedIn
	e.CollInfo = p.CollInfo
	e.Pages = p.Pages
	e.BindingID = p.BindingID
	e.FormatID = p.FormatID
	e.Size = p.Size
	e.Dustcover = p.Dustcover
	e.CoverImage = p.CoverImage
	e.Misc = p.Misc
	e.Verified = p.Verified
	if e.Dustcover == 0 {
		e.Dustcover = models.FlagUnknown
	}
	if e.CoverImage == 0 {
		e.CoverImage = models.FlagUnknown
	}
	if e.EditionNum == nil {
		one := 1
		e.EditionNum = &one
	}
	if e.Version == nil {
		one := 1
		e.Version = &one
	}
}

type CreateEditionPayload struct {
	WorkID int `json:"work_id" validate:"required,min=1"`
	EditionFields
}

type UpdateEditionPayload struct {
	ID int `json:"id" validate:"required,min=1"`
	EditionFields
}
