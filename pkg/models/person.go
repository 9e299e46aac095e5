package models

import (
	"github.com/uptrace/bun"
)

type Person struct {
	bun.BaseModel `bun:"table:persons,alias:p"`

	ID             int     `bun:",pk,nullzero" json:"id"`
	Name           string  `bun:",notnull,unique" json:"name"`
	AltName        *string `json:"alt_name"`
	FullName       *string `bun:"fullname" json:"fullname"`
	OtherNames     *string `json:"other_names"`
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	ImageSrc       *string `json:"image_src"`
	ImageAttr      *string `json:"image_attr"`
	Dob            *int    `json:"dob"`
	Dod            *int    `json:"dod"`
	Bio            *string `json:"bio"`
	BioSrc         *string `json:"bio_src"`
	NationalityID  *int    `json:"nationality_id"`
	ImportedString *string `json:"imported_string"`

	Nationality *Country      `bun:"rel:belongs-to,join:nationality_id=id" json:"nationality,omitempty"`
	Links       []*PersonLink `bun:"rel:has-many,join:id=person_id" json:"links,omitempty"`
	Tags        []*Tag        `bun:"m2m:person_tags,join:Person=Tag" json:"tags,omitempty"`
}

// Alias links a pseudonym to the person behind it. Alias is the pseudonym,
// RealName the real person.
type Alias struct {
	bun.BaseModel `bun:"table:aliases,alias:al"`

	Alias    int `bun:",pk" json:"alias"`
	RealName int `bun:"realname,pk" json:"realname"`
}

type PersonLink struct {
	bun.BaseModel `bun:"table:person_links,alias:pl"`

	ID          int     `bun:",pk,nullzero" json:"id"`
	PersonID    int     `bun:",notnull" json:"person_id"`
	Link        string  `bun:",notnull" json:"link"`
	Description *string `json:"description"`
}

type PersonTag struct {
	bun.BaseModel `bun:"table:person_tags,alias:ptg"`

	PersonID int     `bun:",pk" json:"person_id"`
	Person   *Person `bun:"rel:belongs-to,join:person_id=id" json:"-"`
	TagID    int     `bun:",pk" json:"tag_id"`
	Tag      *Tag    `bun:"rel:belongs-to,join:tag_id=id" json:"-"`
}
