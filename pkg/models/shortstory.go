package models

import (
	"github.com/uptrace/bun"
)

type ShortStory struct {
	bun.BaseModel `bun:"table:shortstories,alias:s"`

	ID         int     `bun:",pk,nullzero" json:"id"`
	Title      string  `bun:",notnull" json:"title"`
	OrigTitle  *string `json:"orig_title"`
	LanguageID *int    `bun:"language" json:"-"`
	PubYear    *int    `bun:"pubyear" json:"pubyear"`
	StoryType  *int    `bun:"story_type" json:"-"`
	AuthorStr  string  `bun:",notnull,default:''" json:"author_str"`

	Language *Language  `bun:"rel:belongs-to,join:language=id" json:"lang,omitempty"`
	Type     *StoryType `bun:"rel:belongs-to,join:story_type=id" json:"type,omitempty"`
	Tags     []*Tag     `bun:"m2m:story_tags,join:Story=Tag" json:"tags,omitempty"`
	Genres   []*Genre   `bun:"m2m:story_genres,join:Story=Genre" json:"genres,omitempty"`
}

// Story types counted as fiction on the front page.
var FictionStoryTypes = []int{1, 2, 3}

type StoryType struct {
	bun.BaseModel `bun:"table:story_types,alias:st"`

	ID   int    `bun:",pk,nullzero" json:"id"`
	Name string `bun:",notnull" json:"name"`
}

type StoryTag struct {
	bun.BaseModel `bun:"table:story_tags,alias:stg"`

	ShortstoryID int         `bun:"shortstory_id,pk" json:"shortstory_id"`
	Story        *ShortStory `bun:"rel:belongs-to,join:shortstory_id=id" json:"-"`
	TagID        int         `bun:",pk" json:"tag_id"`
	Tag          *Tag        `bun:"rel:belongs-to,join:tag_id=id" json:"-"`
}

type StoryGenre struct {
	bun.BaseModel `bun:"table:story_genres,alias:sg"`

	ShortstoryID int         `bun:"shortstory_id,pk" json:"shortstory_id"`
	Story        *ShortStory `bun:"rel:belongs-to,join:shortstory_id=id" json:"-"`
	GenreID      int         `bun:",pk" json:"genre_id"`
	Genre        *Genre      `bun:"rel:belongs-to,join:genre_id=id" json:"-"`
}
