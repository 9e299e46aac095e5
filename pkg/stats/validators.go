package stats

// PersonCountsQuery selects the people ranked by personcounts and
// storypersoncounts.
type PersonCountsQuery struct {
	Role  int     `query:"role" default:"1" validate:"min=1,max=7"`
	Count int     `query:"count" default:"10"`
	Genre *string `query:"genre" mod:"trim,sanitize" validate:"omitempty,max=10"`
}

type PublisherCountsQuery struct {
	Count int `query:"count" default:"10"`
}
