package models

import (
	"github.com/uptrace/bun"
)

// Award category types say what kind of target a category is given to.
const (
	AwardCategoryPerson = 0
	AwardCategoryWork   = 1
	AwardCategoryStory  = 2
)

type Award struct {
	bun.BaseModel `bun:"table:awards,alias:aw"`

	ID          int     `bun:",pk,nullzero" json:"id"`
	Name        string  `bun:",notnull" json:"name"`
	Description *string `json:"description"`
	Domestic    bool    `bun:",notnull,default:false" json:"domestic"`

	Categories []*AwardCategory `bun:"m2m:award_category_awards,join:Award=Category" json:"categories,omitempty"`
}

type AwardCategory struct {
	bun.BaseModel `bun:"table:award_categories,alias:ac"`

	ID   int    `bun:",pk,nullzero" json:"id"`
	Name string `bun:",notnull" json:"name"`
	Type int    `bun:",notnull" json:"type"`
}

type AwardCategoryAward struct {
	bun.BaseModel `bun:"table:award_category_awards,alias:aca"`

	AwardID    int            `bun:",pk" json:"award_id"`
	Award      *Award         `bun:"rel:belongs-to,join:award_id=id" json:"-"`
	CategoryID int            `bun:",pk" json:"category_id"`
	Category   *AwardCategory `bun:"rel:belongs-to,join:category_id=id" json:"-"`
}

// Awarded is one win. Exactly one of PersonID, WorkID and StoryID is set; use
// Target to read it as a sum type.
type Awarded struct {
	bun.BaseModel `bun:"table:awarded,alias:ad"`

	ID         int  `bun:",pk,nullzero" json:"id"`
	Year       *int `json:"year"`
	AwardID    int  `bun:",notnull" json:"award_id"`
	CategoryID int  `bun:",notnull" json:"category_id"`
	PersonID   *int `json:"person_id"`
	WorkID     *int `json:"work_id"`
	StoryID    *int `json:"story_id"`

	Award    *Award         `bun:"rel:belongs-to,join:award_id=id" json:"award,omitempty"`
	Category *AwardCategory `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
	Person   *Person        `bun:"rel:belongs-to,join:person_id=id" json:"person,omitempty"`
	Work     *Work          `bun:"rel:belongs-to,join:work_id=id" json:"work,omitempty"`
	Story    *ShortStory    `bun:"rel:belongs-to,join:story_id=id" json:"story,omitempty"`
}

type AwardTargetKind string

const (
	AwardTargetPerson AwardTargetKind = "person"
	AwardTargetWork   AwardTargetKind = "work"
	AwardTargetStory  AwardTargetKind = "story"
)

// AwardTarget is the recipient of an Awarded row.
type AwardTarget struct {
	Kind AwardTargetKind
	ID   int
}

// Target returns the single recipient. ok is false when the row doesn't have
// exactly one target set.
func (a *Awarded) Target() (AwardTarget, bool) {
	var targets []AwardTarget
	if a.PersonID != nil {
		targets = append(targets, AwardTarget{AwardTargetPerson, *a.PersonID})
	}
	if a.WorkID != nil {
		targets = append(targets, AwardTarget{AwardTargetWork, *a.WorkID})
	}
	if a.StoryID != nil {
		targets = append(targets, AwardTarget{AwardTargetStory, *a.StoryID})
	}
	if len(targets) != 1 {
		return AwardTarget{}, false
	}
	return targets[0], true
}

// SetTarget clears all recipient columns and sets the one named by t.
func (a *Awarded) SetTarget(t AwardTarget) {
	a.PersonID, a.WorkID, a.StoryID = nil, nil, nil
	id := t.ID
	switch t.Kind {
	case AwardTargetPerson:
		a.PersonID = &id
	case AwardTargetWork:
		a.WorkID = &id
	case AwardTargetStory:
		a.StoryID = &id
	}
}
