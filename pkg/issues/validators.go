package issues

import (
	"github.com/suomisf/suomisf/pkg/contributors"
)

type IssueFields struct {
	MagazineID  int     `json:"magazine_id" validate:"required,min=1"`
	Number      *int    `json:"number" validate:"omitempty,min=0"`
	NumberExtra *string `json:"number_extra" mod:"trim,sanitize" validate:"omitempty,max=20"`
	Count       *int    `json:"count" validate:"omitempty,min=0"`
	Year        *int    `json:"year" validate:"omitempty,year"`
	CoverNumber *string `json:"cover_number" mod:"trim,sanitize" validate:"omitempty,max=50"`
	ImageSrc    *string `json:"image_src" mod:"trim" validate:"omitempty,max=500"`
	ImageAttr   *string `json:"image_attr" mod:"trim,sanitize" validate:"omitempty,max=500"`
	Pages       *int    `json:"pages" validate:"omitempty,min=0"`
	SizeID      *int    `json:"size_id" validate:"omitempty,min=1"`
	Link        *string `json:"link" mod:"trim" validate:"omitempty,max=500"`
	Notes       *string `json:"notes" mod:"trim" validate:"omitempty,max=10000"`
	Title       *string `json:"title" mod:"trim,sanitize" validate:"omitempty,max=500"`

	// Editors replaces the issue's editors and cover artists when not nil.
	Editors []contributors.Contribution `json:"editors" validate:"omitempty,dive"`
}

type CreateIssuePayload struct {
	IssueFields
}

type UpdateIssuePayload struct {
	ID int `json:"id" validate:"required,min=1"`
	IssueFields
}

type SaveShortsPayload struct {
	Shorts []int `json:"shorts" validate:"dive,min=1"`
}

type SaveArticlesPayload struct {
	Articles []int `json:"articles" validate:"dive,min=1"`
}
