package models

import (
	"github.com/uptrace/bun"
)

type Magazine struct {
	bun.BaseModel `bun:"table:magazines,alias:m"`

	ID          int     `bun:",pk,nullzero" json:"id"`
	Name        string  `bun:",notnull" json:"name"`
	PublisherID *int    `json:"publisher_id"`
	Description *string `json:"description"`
	Link        *string `json:"link"`
	ISSN        *string `bun:"issn" json:"issn"`
	TypeID      *int    `json:"type_id"`

	Publisher *Publisher    `bun:"rel:belongs-to,join:publisher_id=id" json:"publisher,omitempty"`
	Type      *MagazineType `bun:"rel:belongs-to,join:type_id=id" json:"type,omitempty"`
}

type MagazineType struct {
	bun.BaseModel `bun:"table:magazine_types,alias:mt"`

	ID   int    `bun:",pk,nullzero" json:"id"`
	Name string `bun:",notnull" json:"name"`
}

type Issue struct {
	bun.BaseModel `bun:"table:issues,alias:i"`

	ID          int     `bun:",pk,nullzero" json:"id"`
	MagazineID  int     `bun:",notnull" json:"magazine_id"`
	Number      *int    `json:"number"`
	NumberExtra *string `json:"number_extra"`
	Count       *int    `json:"count"`
	Year        *int    `json:"year"`
	CoverNumber *string `json:"cover_number"`
	ImageSrc    *string `json:"image_src"`
	ImageAttr   *string `json:"image_attr"`
	Pages       *int    `json:"pages"`
	SizeID      *int    `json:"size_id"`
	Link        *string `json:"link"`
	Notes       *string `json:"notes"`
	Title       *string `json:"title"`

	Magazine *Magazine        `bun:"rel:belongs-to,join:magazine_id=id" json:"magazine,omitempty"`
	Size     *PublicationSize `bun:"rel:belongs-to,join:size_id=id" json:"size,omitempty"`
	Tags     []*Tag           `bun:"m2m:issue_tags,join:Issue=Tag" json:"tags,omitempty"`
}

type PublicationSize struct {
	bun.BaseModel `bun:"table:publication_sizes,alias:psz"`

	ID       int    `bun:",pk,nullzero" json:"id"`
	Name     string `bun:",notnull" json:"name"`
	MMWidth  *int   `bun:"mm_width" json:"mm_width"`
	MMHeight *int   `bun:"mm_height" json:"mm_height"`
}

// IssueContent is one article or one short story printed in an issue.
type IssueContent struct {
	bun.BaseModel `bun:"table:issue_contents,alias:ic"`

	ID           int  `bun:",pk,nullzero" json:"id"`
	IssueID      int  `bun:",notnull" json:"issue_id"`
	ArticleID    *int `json:"article_id"`
	ShortstoryID *int `bun:"shortstory_id" json:"shortstory_id"`

	Article    *Article    `bun:"rel:belongs-to,join:article_id=id" json:"article,omitempty"`
	Shortstory *ShortStory `bun:"rel:belongs-to,join:shortstory_id=id" json:"shortstory,omitempty"`
}

type IssueEditor struct {
	bun.BaseModel `bun:"table:issue_editors,alias:ied"`

	IssueID  int     `bun:",pk" json:"issue_id"`
	PersonID int     `bun:",pk" json:"person_id"`
	RoleID   int     `bun:",pk" json:"role_id"`
	Person   *Person `bun:"rel:belongs-to,join:person_id=id" json:"person,omitempty"`
}

type IssueTag struct {
	bun.BaseModel `bun:"table:issue_tags,alias:itg"`

	IssueID int    `bun:",pk" json:"issue_id"`
	Issue   *Issue `bun:"rel:belongs-to,join:issue_id=id" json:"-"`
	TagID   int    `bun:",pk" json:"tag_id"`
	Tag     *Tag   `bun:"rel:belongs-to,join:tag_id=id" json:"-"`
}

type Article struct {
	bun.BaseModel `bun:"table:articles,alias:a"`

	ID      int     `bun:",pk,nullzero" json:"id"`
	Title   string  `bun:",notnull" json:"title"`
	Person  *string `json:"person"`
	Excerpt *string `json:"excerpt"`

	Authors []*Person `bun:"m2m:article_authors,join:Article=Person" json:"author_rel,omitempty"`
	People  []*Person `bun:"m2m:article_persons,join:Article=Person" json:"person_rel,omitempty"`
	Tags    []*Tag    `bun:"m2m:article_tags,join:Article=Tag" json:"tags,omitempty"`
}

type ArticleAuthor struct {
	bun.BaseModel `bun:"table:article_authors,alias:aa"`

	ArticleID int      `bun:",pk" json:"article_id"`
	Article   *Article `bun:"rel:belongs-to,join:article_id=id" json:"-"`
	PersonID  int      `bun:",pk" json:"person_id"`
	Person    *Person  `bun:"rel:belongs-to,join:person_id=id" json:"-"`
}

type ArticlePerson struct {
	bun.BaseModel `bun:"table:article_persons,alias:ap"`

	ArticleID int      `bun:",pk" json:"article_id"`
	Article   *Article `bun:"rel:belongs-to,join:article_id=id" json:"-"`
	PersonID  int      `bun:",pk" json:"person_id"`
	Person    *Person  `bun:"rel:belongs-to,join:person_id=id" json:"-"`
}

type ArticleTag struct {
	bun.BaseModel `bun:"table:article_tags,alias:atg"`

	ArticleID int      `bun:",pk" json:"article_id"`
	Article   *Article `bun:"rel:belongs-to,join:article_id=id" json:"-"`
	TagID     int      `bun:",pk" json:"tag_id"`
	Tag       *Tag     `bun:"rel:belongs-to,join:tag_id=id" json:"-"`
}
