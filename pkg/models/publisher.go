package models

import (
	"github.com/uptrace/bun"
)

type Publisher struct {
	bun.BaseModel `bun:"table:publishers,alias:pb"`

	ID          int     `bun:",pk,nullzero" json:"id"`
	Name        string  `bun:",notnull,unique" json:"name"`
	FullName    string  `bun:"fullname,notnull" json:"fullname"`
	Description *string `json:"description"`
	ImageSrc    *string `json:"image_src"`
	ImageAttr   *string `json:"image_attr"`

	Links []*PublisherLink `bun:"rel:has-many,join:id=publisher_id" json:"links,omitempty"`
}

type PublisherLink struct {
	bun.BaseModel `bun:"table:publisher_links,alias:pbl"`

	ID          int     `bun:",pk,nullzero" json:"id"`
	PublisherID int     `bun:",notnull" json:"publisher_id"`
	Link        string  `bun:",notnull" json:"link"`
	Description *string `json:"description"`
}

type Pubseries struct {
	bun.BaseModel `bun:"table:pubseries,alias:ps"`

	ID          int     `bun:",pk,nullzero" json:"id"`
	Name        string  `bun:",notnull" json:"name"`
	PublisherID int     `bun:",notnull" json:"publisher_id"`
	Important   bool    `bun:",notnull,default:false" json:"important"`
	ImageSrc    *string `json:"image_src"`
	ImageAttr   *string `json:"image_attr"`

	Publisher *Publisher `bun:"rel:belongs-to,join:publisher_id=id" json:"publisher,omitempty"`
}

type Bookseries struct {
	bun.BaseModel `bun:"table:bookseries,alias:bs"`

	ID        int     `bun:",pk,nullzero" json:"id"`
	Name      string  `bun:",notnull" json:"name"`
	OrigName  *string `json:"orig_name"`
	Important bool    `bun:",notnull,default:false" json:"important"`
	ImageSrc  *string `json:"image_src"`
	ImageAttr *string `json:"image_attr"`
}
