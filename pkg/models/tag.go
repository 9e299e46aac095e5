package models

import (
	"github.com/uptrace/bun"
)

type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:t"`

	ID          int     `bun:",pk,nullzero" json:"id"`
	Name        string  `bun:",notnull" json:"name"`
	Description *string `json:"description"`
	TypeID      *int    `json:"type_id"`

	Type *TagType `bun:"rel:belongs-to,join:type_id=id" json:"type,omitempty"`
}

type TagType struct {
	bun.BaseModel `bun:"table:tag_types,alias:tt"`

	ID   int    `bun:",pk,nullzero" json:"id"`
	Name string `bun:",notnull,unique" json:"name"`
}

type Genre struct {
	bun.BaseModel `bun:"table:genres,alias:g"`

	ID   int    `bun:",pk,nullzero" json:"id"`
	Name string `bun:",notnull" json:"name"`
	Abbr string `bun:",notnull" json:"abbr"`
}
