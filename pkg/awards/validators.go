package awards

// Win is one award win of a target.
type Win struct {
	AwardID    int  `json:"award_id" validate:"required,min=1"`
	CategoryID int  `json:"category_id" validate:"required,min=1"`
	Year       *int `json:"year" validate:"omitempty,year"`
}

type SaveWorkAwardsPayload struct {
	WorkID int   `json:"work_id" validate:"required,min=1"`
	Awards []Win `json:"awards" validate:"dive"`
}

type SavePersonAwardsPayload struct {
	PersonID int   `json:"person_id" validate:"required,min=1"`
	Awards   []Win `json:"awards" validate:"dive"`
}

// CreateAwardedPayload names exactly one of person, work and story.
type CreateAwardedPayload struct {
	Win
	PersonID *int `json:"person_id" validate:"omitempty,min=1"`
	WorkID   *int `json:"work_id" validate:"omitempty,min=1"`
	StoryID  *int `json:"story_id" validate:"omitempty,min=1"`
}
