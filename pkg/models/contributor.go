package models

import (
	"github.com/uptrace/bun"
)

const (
	RoleAuthor      = 1
	RoleTranslator  = 2
	RoleEditor      = 3
	RoleCoverArtist = 4
	RoleIllustrator = 5
	RoleSubject     = 6
	RoleChiefEditor = 7
)

// Contribution targets. Each target accepts its own set of roles.
const (
	TargetWork    = "work"
	TargetEdition = "edition"
	TargetShort   = "short"
	TargetIssue   = "issue"
)

var rolesByTarget = map[string][]int{
	TargetWork:    {RoleAuthor, RoleEditor, RoleSubject},
	TargetEdition: {RoleTranslator, RoleCoverArtist, RoleIllustrator, RoleChiefEditor},
	TargetShort:   {RoleAuthor, RoleTranslator, RoleSubject},
	TargetIssue:   {RoleChiefEditor, RoleCoverArtist},
}

// RolesFor returns the role ids accepted for target, or nil for an unknown
// target.
func RolesFor(target string) []int {
	roles, ok := rolesByTarget[target]
	if !ok {
		return nil
	}
	out := make([]int, len(roles))
	copy(out, roles)
	return out
}

// RoleAllowed reports whether role can be attached to target.
func RoleAllowed(target string, role int) bool {
	for _, r := range rolesByTarget[target] {
		if r == role {
			return true
		}
	}
	return false
}

// IsWorkRole reports whether role describes the work itself rather than a
// particular edition of it.
func IsWorkRole(role int) bool {
	return RoleAllowed(TargetWork, role)
}

type ContributorRole struct {
	bun.BaseModel `bun:"table:contributor_roles,alias:cr"`

	ID   int    `bun:",pk,nullzero" json:"id"`
	Name string `bun:",notnull" json:"name"`
}

type Contributor struct {
	bun.BaseModel `bun:"table:contributors,alias:c"`

	PartID       int     `bun:",pk" json:"part_id"`
	PersonID     int     `bun:",pk" json:"person_id"`
	RoleID       int     `bun:",pk" json:"role_id"`
	RealPersonID *int    `json:"real_person_id"`
	Description  *string `json:"description"`

	Person     *Person          `bun:"rel:belongs-to,join:person_id=id" json:"person,omitempty"`
	RealPerson *Person          `bun:"rel:belongs-to,join:real_person_id=id" json:"real_person,omitempty"`
	Role       *ContributorRole `bun:"rel:belongs-to,join:role_id=id" json:"role,omitempty"`
	Part       *Part            `bun:"rel:belongs-to,join:part_id=id" json:"-"`
}
