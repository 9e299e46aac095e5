package models

import (
	"github.com/uptrace/bun"
)

type Work struct {
	bun.BaseModel `bun:"table:works,alias:w"`

	ID              int     `bun:",pk,nullzero" json:"id"`
	Title           string  `bun:",notnull" json:"title"`
	Subtitle        *string `json:"subtitle"`
	OrigTitle       *string `json:"orig_title"`
	PubYear         *int    `bun:"pubyear" json:"pubyear"`
	LanguageID      *int    `bun:"language" json:"-"`
	BookseriesID    *int    `json:"bookseries_id"`
	BookseriesNum   *string `bun:"bookseriesnum" json:"bookseriesnum"`
	BookseriesOrder *int    `bun:"bookseriesorder" json:"bookseriesorder"`
	TypeID          *int    `bun:"type," json:"-"`
	Misc            *string `json:"misc"`
	Description     *string `json:"description"`
	DescrAttr       *string `json:"descr_attr"`
	ImportedString  *string `json:"imported_string"`
	AuthorStr       string  `bun:",notnull,default:''" json:"author_str"`

	Language   *Language   `bun:"rel:belongs-to,join:language=id" json:"language_name,omitempty"`
	WorkType   *WorkType   `bun:"rel:belongs-to,join:type=id" json:"work_type,omitempty"`
	Bookseries *Bookseries `bun:"rel:belongs-to,join:bookseries_id=id" json:"bookseries,omitempty"`
	Links      []*WorkLink `bun:"rel:has-many,join:id=work_id" json:"links,omitempty"`
	Genres     []*Genre    `bun:"m2m:work_genres,join:Work=Genre" json:"genres,omitempty"`
	Tags       []*Tag      `bun:"m2m:work_tags,join:Work=Tag" json:"tags,omitempty"`
}

type WorkType struct {
	bun.BaseModel `bun:"table:work_types,alias:wt"`

	ID   int    `bun:",pk,nullzero" json:"id"`
	Name string `bun:",notnull" json:"name"`
}

type WorkLink struct {
	bun.BaseModel `bun:"table:work_links,alias:wl"`

	ID          int     `bun:",pk,nullzero" json:"id"`
	WorkID      int     `bun:",notnull" json:"work_id"`
	Link        string  `bun:",notnull" json:"link"`
	Description *string `json:"description"`
}

type WorkGenre struct {
	bun.BaseModel `bun:"table:work_genres,alias:wg"`

	WorkID  int    `bun:",pk" json:"work_id"`
	Work    *Work  `bun:"rel:belongs-to,join:work_id=id" json:"-"`
	GenreID int    `bun:",pk" json:"genre_id"`
	Genre   *Genre `bun:"rel:belongs-to,join:genre_id=id" json:"genre,omitempty"`
}

type WorkTag struct {
	bun.BaseModel `bun:"table:work_tags,alias:wtg"`

	WorkID int   `bun:",pk" json:"work_id"`
	Work   *Work `bun:"rel:belongs-to,join:work_id=id" json:"-"`
	TagID  int   `bun:",pk" json:"tag_id"`
	Tag    *Tag  `bun:"rel:belongs-to,join:tag_id=id" json:"tag,omitempty"`
}
