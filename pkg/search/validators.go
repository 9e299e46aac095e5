package search

// Result kinds.
const (
	TypeWork      = "work"
	TypePerson    = "person"
	TypeStory     = "story"
	TypeArticle   = "article"
	TypePublisher = "publisher"
	TypeTag       = "tag"
)

// Scores rank a hit on the entity's own name above a hit elsewhere in its
// text. A name that starts with the word gets StartsWith on top.
const (
	ScorePersonName     = 20
	ScorePersonOther    = 10
	ScoreWorkTitle      = 19
	ScoreWorkOther      = 9
	ScoreStoryName      = 18
	ScoreStoryOther     = 8
	ScoreArticleTitle   = 17
	ScoreArticleOther   = 7
	ScorePublisherName  = 16
	ScorePublisherOther = 6
	ScoreTagName        = 15
	ScoreTagOther       = 5
	ScoreStartsWith     = 10
)

// MaxResults caps the result list.
const MaxResults = 50

// Result is one search hit.
type Result struct {
	ID          int    `json:"id"`
	Img         string `json:"img"`
	Header      string `json:"header"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Type        string `json:"type"`
	Score       int    `json:"score"`
}
