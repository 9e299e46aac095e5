package models

import (
	"time"

	"github.com/uptrace/bun"
)

// DemoAdminName is the shared demo account. It gets admin claims but a
// distinct role label.
const DemoAdminName = "demo_admin"

const (
	RoleNameAdmin     = "admin"
	RoleNameDemoAdmin = "demo_admin"
	RoleNameUser      = "user"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int    `bun:",pk,nullzero" json:"id"`
	Name         string `bun:",notnull,unique" json:"name"`
	PasswordHash string `bun:",notnull" json:"-"` // Never expose password hash
	IsAdmin      bool   `bun:",notnull,default:false" json:"is_admin"`
	LanguageID   *int   `bun:"language" json:"language"`
}

// RoleName is the role label carried in tokens.
func (u *User) RoleName() string {
	switch {
	case u.Name == DemoAdminName:
		return RoleNameDemoAdmin
	case u.IsAdmin:
		return RoleNameAdmin
	default:
		return RoleNameUser
	}
}

// IsAdministrator reports whether the user passes the admin gate. The demo
// account has admin-equivalent claims.
func (u *User) IsAdministrator() bool {
	return u.IsAdmin || u.Name == DemoAdminName
}

type UserBook struct {
	bun.BaseModel `bun:"table:user_books,alias:ub"`

	UserID      int        `bun:",pk" json:"user_id"`
	EditionID   int        `bun:",pk" json:"edition_id"`
	ConditionID *int       `json:"condition_id"`
	Description *string    `json:"description"`
	Price       *int       `json:"price"`
	Added       *time.Time `json:"added"`

	User      *User          `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Edition   *Edition       `bun:"rel:belongs-to,join:edition_id=id" json:"edition,omitempty"`
	Condition *BookCondition `bun:"rel:belongs-to,join:condition_id=id" json:"condition,omitempty"`
}

// Wishlisted reports whether the row is a wish rather than an owned copy.
func (ub *UserBook) Wishlisted() bool {
	return ub.ConditionID != nil && *ub.ConditionID == WishlistConditionID
}

type UserPubseries struct {
	bun.BaseModel `bun:"table:user_pubseries,alias:ups"`

	UserID   int `bun:",pk" json:"user_id"`
	SeriesID int `bun:",pk" json:"series_id"`
}

type UserBookseries struct {
	bun.BaseModel `bun:"table:user_bookseries,alias:ubs"`

	UserID   int `bun:",pk" json:"user_id"`
	SeriesID int `bun:",pk" json:"series_id"`
}
