package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	LogActionCreate = "Uusi"
	LogActionUpdate = "Päivitys"
	LogActionDelete = "Poisto"
)

// Log is one audit row. Rows are only ever inserted.
type Log struct {
	bun.BaseModel `bun:"table:logs,alias:lg"`

	ID         int       `bun:",pk,nullzero" json:"id"`
	TableName  string    `bun:",notnull" json:"table_name"`
	FieldName  *string   `json:"field_name"`
	TableID    int       `bun:",notnull" json:"table_id"`
	ObjectName string    `bun:",notnull" json:"object_name"`
	Action     string    `bun:",notnull" json:"action"`
	UserID     *int      `json:"user_id"`
	OldValue   *string   `json:"old_value"`
	Date       time.Time `bun:",notnull" json:"date"`

	User *User `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
}
