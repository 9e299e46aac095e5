package models

import (
	"github.com/uptrace/bun"
)

// Part threads an edition, a work and optionally a short story together.
// Contributors hang off parts, so which of the three references are set
// decides what a contribution is about:
//
//	work set, shortstory null:   the work (authors, editors) or the edition
//	                             (translators, cover artists) it appears in
//	shortstory set:              the short story in that edition, or, when
//	                             edition_id is null, a synthetic part that
//	                             keeps the story's contributors alive
type Part struct {
	bun.BaseModel `bun:"table:parts,alias:pt"`

	ID           int     `bun:",pk,nullzero" json:"id"`
	EditionID    *int    `json:"edition_id"`
	WorkID       *int    `json:"work_id"`
	ShortstoryID *int    `bun:"shortstory_id" json:"shortstory_id"`
	OrderNum     *int    `json:"order_num"`
	Title        *string `json:"title"`

	Edition    *Edition    `bun:"rel:belongs-to,join:edition_id=id" json:"edition,omitempty"`
	Work       *Work       `bun:"rel:belongs-to,join:work_id=id" json:"work,omitempty"`
	Shortstory *ShortStory `bun:"rel:belongs-to,join:shortstory_id=id" json:"shortstory,omitempty"`
}
