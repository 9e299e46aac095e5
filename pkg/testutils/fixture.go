package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

// Fixture holds the ids of the small catalog SeedCatalog inserts.
//
// Asimov writes Säätiö and Säätiö ja Imperiumi (book series "Säätiö", two
// editions of the first one) and the story Yöllinen vieras. Paul French is
// his pseudonym and writes Robotti. Both stories appear in the anthology
// Uusi maailma edited by Salo. Lem writes Solaris. Ranta translates. Portti
// 1/2000 prints Yöllinen vieras and one article.
type Fixture struct {
	AdminID int `json:"admin_id"`
	UserID  int `json:"user_id"`

	TammiID      int `json:"tammi_id"`
	WSOYID       int `json:"wsoy_id"`
	PubseriesID  int `json:"pubseries_id"`
	BookseriesID int `json:"bookseries_id"`

	AsimovID int `json:"asimov_id"`
	FrenchID int `json:"french_id"`
	LemID    int `json:"lem_id"`
	RantaID  int `json:"ranta_id"`
	SaloID   int `json:"salo_id"`

	FoundationID       int `json:"foundation_id"`
	FoundationEmpireID int `json:"foundation_empire_id"`
	SolarisID          int `json:"solaris_id"`
	AnthologyID        int `json:"anthology_id"`

	FoundationEd1ID      int `json:"foundation_ed1_id"`
	FoundationEd2ID      int `json:"foundation_ed2_id"`
	FoundationEmpireEdID int `json:"foundation_empire_ed_id"`
	SolarisEdID          int `json:"solaris_ed_id"`
	AnthologyEdID        int `json:"anthology_ed_id"`

	NightfallID int `json:"nightfall_id"`
	RobotID     int `json:"robot_id"`

	MagazineID int `json:"magazine_id"`
	IssueID    int `json:"issue_id"`
	ArticleID  int `json:"article_id"`

	AwardID            int `json:"award_id"`
	NovelCategoryID    int `json:"novel_category_id"`
	LifetimeCategoryID int `json:"lifetime_category_id"`
	StoryCategoryID    int `json:"story_category_id"`

	SpaceTagID int `json:"space_tag_id"`
	RobotTagID int `json:"robot_tag_id"`
}

// Seed inserts the fixture catalog into db and fails the test on error.
func Seed(t testing.TB, db *bun.DB) *Fixture {
	t.Helper()
	f, err := SeedCatalog(context.Background(), db)
	require.NoError(t, err)
	return f
}

type seeder struct {
	ctx context.Context
	tx  bun.Tx
	err error
}

func (s *seeder) insert(model any) {
	if s.err != nil {
		return
	}
	if _, err := s.tx.NewInsert().Model(model).Exec(s.ctx); err != nil {
		s.err = errors.Wrapf(err, "seed %T", model)
	}
}

func (s *seeder) part(editionID, workID, shortID *int) int {
	p := &models.Part{EditionID: editionID, WorkID: workID, ShortstoryID: shortID}
	s.insert(p)
	return p.ID
}

func (s *seeder) contribute(partID, personID, roleID int, realPersonID *int) {
	s.insert(&models.Contributor{PartID: partID, PersonID: personID, RoleID: roleID, RealPersonID: realPersonID})
}

// SeedCatalog inserts the fixture catalog together with the test users.
func SeedCatalog(ctx context.Context, db *bun.DB) (*Fixture, error) {
	f := &Fixture{}

	admin, user, err := EnsureTestUsers(ctx, db)
	if err != nil {
		return nil, err
	}
	f.AdminID, f.UserID = admin.ID, user.ID

	err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		s := &seeder{ctx: ctx, tx: tx}
		seedPublishing(s, f)
		seedPeople(s, f)
		seedWorks(s, f)
		seedStories(s, f)
		seedMagazines(s, f)
		seedAwards(s, f)
		seedTags(s, f)
		seedCollections(s, f)
		return s.err
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func seedPublishing(s *seeder, f *Fixture) {
	tammi := &models.Publisher{Name: "Tammi", FullName: "Kustannusosakeyhtiö Tammi"}
	wsoy := &models.Publisher{Name: "WSOY", FullName: "Werner Söderström Osakeyhtiö"}
	s.insert(tammi)
	s.insert(wsoy)
	f.TammiID, f.WSOYID = tammi.ID, wsoy.ID

	pubseries := &models.Pubseries{Name: "Tammen Jokeri", PublisherID: tammi.ID, Important: true}
	s.insert(pubseries)
	f.PubseriesID = pubseries.ID

	bookseries := &models.Bookseries{Name: "Säätiö", OrigName: pointerutil.String("Foundation"), Important: true}
	s.insert(bookseries)
	f.BookseriesID = bookseries.ID
}

func seedPeople(s *seeder, f *Fixture) {
	people := []*models.Person{
		{Name: "Asimov, Isaac", AltName: pointerutil.String("Isaac Asimov"), FirstName: pointerutil.String("Isaac"), LastName: pointerutil.String("Asimov"), Dob: pointerutil.Int(1920), Dod: pointerutil.Int(1992), NationalityID: pointerutil.Int(3)},
		{Name: "French, Paul", AltName: pointerutil.String("Paul French"), NationalityID: pointerutil.Int(3)},
		{Name: "Lem, Stanisław", AltName: pointerutil.String("Stanisław Lem"), Dob: pointerutil.Int(1921), Dod: pointerutil.Int(2006), NationalityID: pointerutil.Int(9)},
		{Name: "Ranta, Jussi", AltName: pointerutil.String("Jussi Ranta"), Dob: pointerutil.Int(1950), NationalityID: pointerutil.Int(models.FinlandCountryID)},
		{Name: "Salo, Aino", AltName: pointerutil.String("Aino Salo"), Dob: pointerutil.Int(1960), NationalityID: pointerutil.Int(models.FinlandCountryID)},
	}
	for _, p := range people {
		s.insert(p)
	}
	f.AsimovID, f.FrenchID, f.LemID, f.RantaID, f.SaloID = people[0].ID, people[1].ID, people[2].ID, people[3].ID, people[4].ID

	s.insert(&models.Alias{Alias: f.FrenchID, RealName: f.AsimovID})
	s.insert(&models.PersonLink{PersonID: f.AsimovID, Link: "https://www.asimovonline.com", Description: pointerutil.String("Kotisivu")})
}

func seedWorks(s *seeder, f *Fixture) {
	foundation := &models.Work{
		Title: "Säätiö", OrigTitle: pointerutil.String("Foundation"), PubYear: pointerutil.Int(1951),
		LanguageID: pointerutil.Int(2), TypeID: pointerutil.Int(1), AuthorStr: "Asimov, Isaac",
		BookseriesID: &f.BookseriesID, BookseriesNum: pointerutil.String("1"), BookseriesOrder: pointerutil.Int(1),
		Description: pointerutil.String("<p>Galaktinen <b>imperiumi</b> on romahtamassa.</p>"),
	}
	empire := &models.Work{
		Title: "Säätiö ja Imperiumi", OrigTitle: pointerutil.String("Foundation and Empire"), PubYear: pointerutil.Int(1952),
		LanguageID: pointerutil.Int(2), TypeID: pointerutil.Int(1), AuthorStr: "Asimov, Isaac",
		BookseriesID: &f.BookseriesID, BookseriesNum: pointerutil.String("2"), BookseriesOrder: pointerutil.Int(2),
	}
	solaris := &models.Work{
		Title: "Solaris", OrigTitle: pointerutil.String("Solaris"), PubYear: pointerutil.Int(1961),
		LanguageID: pointerutil.Int(7), TypeID: pointerutil.Int(1), AuthorStr: "Lem, Stanisław",
	}
	anthology := &models.Work{
		Title: "Uusi maailma", PubYear: pointerutil.Int(1985),
		LanguageID: pointerutil.Int(1), TypeID: pointerutil.Int(3), AuthorStr: "Salo, Aino (toim.)",
	}
	for _, w := range []*models.Work{foundation, empire, solaris, anthology} {
		s.insert(w)
		s.insert(&models.WorkGenre{WorkID: w.ID, GenreID: 1})
	}
	f.FoundationID, f.FoundationEmpireID, f.SolarisID, f.AnthologyID = foundation.ID, empire.ID, solaris.ID, anthology.ID
	s.insert(&models.WorkLink{WorkID: foundation.ID, Link: "https://fi.wikipedia.org/wiki/Säätiö_(romaani)", Description: pointerutil.String("Wikipedia")})

	editions := []*models.Edition{
		{Title: "Säätiö", PubYear: pointerutil.Int(1960), PublisherID: &f.TammiID, EditionNum: pointerutil.Int(1), Version: pointerutil.Int(1), PubseriesID: &f.PubseriesID, PubseriesNum: pointerutil.Int(12), Pages: pointerutil.Int(240), BindingID: pointerutil.Int(3), Dustcover: models.FlagYes, CoverImage: models.FlagYes},
		{Title: "Säätiö", PubYear: pointerutil.Int(1980), PublisherID: &f.WSOYID, EditionNum: pointerutil.Int(2), Version: pointerutil.Int(1), ISBN: pointerutil.String("951-0-09876-5"), Pages: pointerutil.Int(256), BindingID: pointerutil.Int(2), Dustcover: models.FlagNo, CoverImage: models.FlagYes},
		{Title: "Säätiö ja Imperiumi", PubYear: pointerutil.Int(1962), PublisherID: &f.TammiID, EditionNum: pointerutil.Int(1), Version: pointerutil.Int(1), PubseriesID: &f.PubseriesID, PubseriesNum: pointerutil.Int(15), Pages: pointerutil.Int(230), BindingID: pointerutil.Int(3), Dustcover: models.FlagUnknown, CoverImage: models.FlagUnknown},
		{Title: "Solaris", PubYear: pointerutil.Int(1974), PublisherID: &f.WSOYID, EditionNum: pointerutil.Int(1), Version: pointerutil.Int(1), Pages: pointerutil.Int(208), BindingID: pointerutil.Int(3), Dustcover: models.FlagYes, CoverImage: models.FlagUnknown},
		{Title: "Uusi maailma", PubYear: pointerutil.Int(1985), PublisherID: &f.TammiID, EditionNum: pointerutil.Int(1), Version: pointerutil.Int(1), Pages: pointerutil.Int(320), BindingID: pointerutil.Int(2), Dustcover: models.FlagNo, CoverImage: models.FlagNo},
	}
	for _, e := range editions {
		s.insert(e)
	}
	f.FoundationEd1ID, f.FoundationEd2ID, f.FoundationEmpireEdID, f.SolarisEdID, f.AnthologyEdID =
		editions[0].ID, editions[1].ID, editions[2].ID, editions[3].ID, editions[4].ID
	s.insert(&models.EditionImage{EditionID: f.FoundationEd1ID, ImageSrc: "/images/books/saatio_1960.jpg"})

	for _, ed := range []int{f.FoundationEd1ID, f.FoundationEd2ID} {
		part := s.part(pointerutil.Int(ed), pointerutil.Int(f.FoundationID), nil)
		s.contribute(part, f.AsimovID, models.RoleAuthor, nil)
		if ed == f.FoundationEd1ID {
			s.contribute(part, f.RantaID, models.RoleTranslator, nil)
		}
	}
	part := s.part(pointerutil.Int(f.FoundationEmpireEdID), pointerutil.Int(f.FoundationEmpireID), nil)
	s.contribute(part, f.AsimovID, models.RoleAuthor, nil)

	part = s.part(pointerutil.Int(f.SolarisEdID), pointerutil.Int(f.SolarisID), nil)
	s.contribute(part, f.LemID, models.RoleAuthor, nil)
	s.contribute(part, f.RantaID, models.RoleTranslator, nil)

	part = s.part(pointerutil.Int(f.AnthologyEdID), pointerutil.Int(f.AnthologyID), nil)
	s.contribute(part, f.SaloID, models.RoleEditor, nil)
}

func seedStories(s *seeder, f *Fixture) {
	nightfall := &models.ShortStory{
		Title: "Yöllinen vieras", OrigTitle: pointerutil.String("Nightfall"), PubYear: pointerutil.Int(1941),
		LanguageID: pointerutil.Int(2), StoryType: pointerutil.Int(1), AuthorStr: "Asimov, Isaac",
	}
	robot := &models.ShortStory{
		Title: "Robotti", OrigTitle: pointerutil.String("Robot"), PubYear: pointerutil.Int(1950),
		LanguageID: pointerutil.Int(2), StoryType: pointerutil.Int(1), AuthorStr: "French, Paul",
	}
	s.insert(nightfall)
	s.insert(robot)
	f.NightfallID, f.RobotID = nightfall.ID, robot.ID

	part := s.part(pointerutil.Int(f.AnthologyEdID), pointerutil.Int(f.AnthologyID), pointerutil.Int(f.NightfallID))
	s.contribute(part, f.AsimovID, models.RoleAuthor, nil)
	s.contribute(part, f.RantaID, models.RoleTranslator, nil)

	part = s.part(pointerutil.Int(f.AnthologyEdID), pointerutil.Int(f.AnthologyID), pointerutil.Int(f.RobotID))
	s.contribute(part, f.FrenchID, models.RoleAuthor, pointerutil.Int(f.AsimovID))
}

func seedMagazines(s *seeder, f *Fixture) {
	magazine := &models.Magazine{Name: "Portti", PublisherID: &f.TammiID, TypeID: pointerutil.Int(3), ISSN: pointerutil.String("0788-1215")}
	s.insert(magazine)
	f.MagazineID = magazine.ID

	issue := &models.Issue{
		MagazineID: magazine.ID, Number: pointerutil.Int(1), Count: pointerutil.Int(1), Year: pointerutil.Int(2000),
		CoverNumber: pointerutil.String("1/2000"), Pages: pointerutil.Int(96), SizeID: pointerutil.Int(2),
	}
	s.insert(issue)
	f.IssueID = issue.ID
	s.insert(&models.IssueEditor{IssueID: issue.ID, PersonID: f.SaloID, RoleID: models.RoleChiefEditor})

	article := &models.Article{Title: "Asimovin robotit", Excerpt: pointerutil.String("Katsaus robottinovelleihin.")}
	s.insert(article)
	f.ArticleID = article.ID
	s.insert(&models.ArticleAuthor{ArticleID: article.ID, PersonID: f.SaloID})
	s.insert(&models.ArticlePerson{ArticleID: article.ID, PersonID: f.AsimovID})

	s.insert(&models.IssueContent{IssueID: issue.ID, ShortstoryID: &f.NightfallID})
	s.insert(&models.IssueContent{IssueID: issue.ID, ArticleID: &f.ArticleID})
}

func seedAwards(s *seeder, f *Fixture) {
	award := &models.Award{Name: "Hugo", Description: pointerutil.String("Maailman SF-konventin palkinto.")}
	s.insert(award)
	f.AwardID = award.ID

	categories := []*models.AwardCategory{
		{Name: "Paras romaani", Type: models.AwardCategoryWork},
		{Name: "Elämäntyö", Type: models.AwardCategoryPerson},
		{Name: "Paras novelli", Type: models.AwardCategoryStory},
	}
	for _, c := range categories {
		s.insert(c)
		s.insert(&models.AwardCategoryAward{AwardID: award.ID, CategoryID: c.ID})
	}
	f.NovelCategoryID, f.LifetimeCategoryID, f.StoryCategoryID = categories[0].ID, categories[1].ID, categories[2].ID

	s.insert(&models.Awarded{Year: pointerutil.Int(1966), AwardID: award.ID, CategoryID: f.NovelCategoryID, WorkID: &f.FoundationID})
	s.insert(&models.Awarded{Year: pointerutil.Int(1987), AwardID: award.ID, CategoryID: f.LifetimeCategoryID, PersonID: &f.AsimovID})
	s.insert(&models.Awarded{Year: pointerutil.Int(1968), AwardID: award.ID, CategoryID: f.StoryCategoryID, StoryID: &f.NightfallID})
}

func seedTags(s *seeder, f *Fixture) {
	space := &models.Tag{Name: "avaruus", TypeID: pointerutil.Int(3)}
	robots := &models.Tag{Name: "robotit", TypeID: pointerutil.Int(3)}
	s.insert(space)
	s.insert(robots)
	f.SpaceTagID, f.RobotTagID = space.ID, robots.ID

	s.insert(&models.WorkTag{WorkID: f.FoundationID, TagID: space.ID})
	s.insert(&models.WorkTag{WorkID: f.SolarisID, TagID: space.ID})
	s.insert(&models.StoryTag{ShortstoryID: f.RobotID, TagID: robots.ID})
	s.insert(&models.PersonTag{PersonID: f.AsimovID, TagID: robots.ID})
	s.insert(&models.ArticleTag{ArticleID: f.ArticleID, TagID: robots.ID})
}

func seedCollections(s *seeder, f *Fixture) {
	added := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.insert(&models.UserBook{UserID: f.UserID, EditionID: f.SolarisEdID, ConditionID: pointerutil.Int(2), Price: pointerutil.Int(5), Added: &added})
	s.insert(&models.UserBook{UserID: f.UserID, EditionID: f.FoundationEmpireEdID, ConditionID: pointerutil.Int(models.WishlistConditionID), Added: &added})
	s.insert(&models.UserBookseries{UserID: f.UserID, SeriesID: f.BookseriesID})
}
