// Package models holds the bun models for every catalog table.
package models

import (
	"github.com/uptrace/bun"
)

// Register registers the join models bun needs for m2m relations. It must
// run before the first query.
func Register(db *bun.DB) {
	db.RegisterModel(
		(*WorkGenre)(nil),
		(*WorkTag)(nil),
		(*StoryTag)(nil),
		(*StoryGenre)(nil),
		(*PersonTag)(nil),
		(*IssueTag)(nil),
		(*ArticleAuthor)(nil),
		(*ArticlePerson)(nil),
		(*ArticleTag)(nil),
		(*AwardCategoryAward)(nil),
	)
}

// Brief is the {id, text} pair returned by filter and lookup endpoints.
type Brief struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}
