package changes

// ListChangesQuery filters GET /api/changes. Period is in days.
type ListChangesQuery struct {
	Period *int    `query:"period" validate:"omitempty,min=1,max=3650"`
	Table  *string `query:"table" mod:"trim,sanitize"`
	ID     *int    `query:"id" validate:"omitempty,min=1"`
	Action *string `query:"action" validate:"omitempty,oneof=Uusi Päivitys Poisto"`
	Field  *string `query:"field" mod:"trim,sanitize"`
	UserID *int    `query:"userid" validate:"omitempty,min=1"`
	Limit  int     `query:"limit" validate:"min=0,max=1000"`
}
