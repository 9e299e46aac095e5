package models

import (
	"github.com/uptrace/bun"
)

// FinlandCountryID is the nationality "foreign" is measured against.
const FinlandCountryID = 1

type Country struct {
	bun.BaseModel `bun:"table:countries,alias:co"`

	ID   int    `bun:",pk,nullzero" json:"id"`
	Name string `bun:",notnull" json:"name"`
}

type Language struct {
	bun.BaseModel `bun:"table:languages,alias:l"`

	ID   int    `bun:",pk,nullzero" json:"id"`
	Name string `bun:",notnull" json:"name"`
}

// WishlistConditionID marks a user_books row as wished for rather than owned.
const WishlistConditionID = 6

type BookCondition struct {
	bun.BaseModel `bun:"table:book_conditions,alias:bc"`

	ID    int    `bun:",pk,nullzero" json:"id"`
	Name  string `bun:",notnull" json:"name"`
	Value int    `bun:",notnull" json:"value"`
}
