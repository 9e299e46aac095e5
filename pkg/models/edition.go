package models

import (
	"github.com/uptrace/bun"
)

// Dustcover and cover image flags.
const (
	FlagUnknown = 1
	FlagNo      = 2
	FlagYes     = 3
)

type Edition struct {
	bun.BaseModel `bun:"table:editions,alias:e"`

	ID             int     `bun:",pk,nullzero" json:"id"`
	Title          string  `bun:",notnull" json:"title"`
	Subtitle       *string `json:"subtitle"`
	PubYear        *int    `bun:"pubyear" json:"pubyear"`
	PublisherID    *int    `json:"publisher_id"`
	EditionNum     *int    `bun:"editionnum" json:"editionnum"`
	Version        *int    `json:"version"`
	ISBN           *string `bun:"isbn" json:"isbn"`
	PrintedIn      *string `bun:"printedin" json:"printedin"`
	PubseriesID    *int    `json:"pubseries_id"`
	PubseriesNum   *int    `bun:"pubseriesnum" json:"pubseriesnum"`
	CollInfo       *string `json:"coll_info"`
	Pages          *int    `json:"pages"`
	BindingID      *int    `json:"binding_id"`
	FormatID       *int    `json:"format_id"`
	Size           *int    `json:"size"`
	Dustcover      int     `bun:",notnull,default:1" json:"dustcover"`
	CoverImage     int     `bun:"coverimage,notnull,default:1" json:"coverimage"`
	Misc           *string `json:"misc"`
	ImportedString *string `json:"imported_string"`
	Verified       bool    `bun:",notnull,default:false" json:"verified"`

	Publisher *Publisher      `bun:"rel:belongs-to,join:publisher_id=id" json:"publisher,omitempty"`
	Pubseries *Pubseries      `bun:"rel:belongs-to,join:pubseries_id=id" json:"pubseries,omitempty"`
	Binding   *BindingType    `bun:"rel:belongs-to,join:binding_id=id" json:"binding,omitempty"`
	Format    *Format         `bun:"rel:belongs-to,join:format_id=id" json:"format,omitempty"`
	Images    []*EditionImage `bun:"rel:has-many,join:id=edition_id" json:"images,omitempty"`
	Links     []*EditionLink  `bun:"rel:has-many,join:id=edition_id" json:"links,omitempty"`
}

type EditionImage struct {
	bun.BaseModel `bun:"table:edition_images,alias:ei"`

	ID        int     `bun:",pk,nullzero" json:"id"`
	EditionID int     `bun:",notnull" json:"edition_id"`
	ImageSrc  string  `bun:",notnull" json:"image_src"`
	ImageAttr *string `json:"image_attr"`
}

type EditionLink struct {
	bun.BaseModel `bun:"table:edition_links,alias:el"`

	ID          int     `bun:",pk,nullzero" json:"id"`
	EditionID   int     `bun:",notnull" json:"edition_id"`
	Link        string  `bun:",notnull" json:"link"`
	Description *string `json:"description"`
}

type BindingType struct {
	bun.BaseModel `bun:"table:binding_types,alias:bt"`

	ID   int    `bun:",pk,nullzero" json:"id"`
	Name string `bun:",notnull" json:"name"`
}

type Format struct {
	bun.BaseModel `bun:"table:formats,alias:f"`

	ID   int    `bun:",pk,nullzero" json:"id"`
	Name string `bun:",notnull" json:"name"`
}
