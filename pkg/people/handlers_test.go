package people_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/apitest"
	"github.com/suomisf/suomisf/pkg/contributors"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/suomisf/suomisf/pkg/people"
)

func briefIDs(list []models.Brief) []int {
	ids := make([]int, 0, len(list))
	for _, b := range list {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestPeople_List(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, people.RegisterRoutes)

	list := apitest.Decode[people.PeopleList](t, s.Get("/api/people/"))
	assert.Equal(t, 5, list.TotalRecords)
	require.Len(t, list.People, 5)
	assert.Equal(t, "Asimov, Isaac", list.People[0].Name)
	assert.Equal(t, 2, list.People[0].WorkCount)
	assert.Equal(t, 1, list.People[0].StoryCount)

	list = apitest.Decode[people.PeopleList](t, s.Get("/api/people?letter=l"))
	require.Len(t, list.People, 1)
	assert.Equal(t, "Lem, Stanisław", list.People[0].Name)

	list = apitest.Decode[people.PeopleList](t, s.Get(fmt.Sprintf("/api/people?nationality=%d", models.FinlandCountryID)))
	assert.Equal(t, 2, list.TotalRecords)

	list = apitest.Decode[people.PeopleList](t, s.Get("/api/people?rows=2&page=1"))
	assert.Equal(t, 5, list.TotalRecords)
	require.Len(t, list.People, 2)
	assert.Equal(t, "Lem, Stanisław", list.People[0].Name)

	list = apitest.Decode[people.PeopleList](t, s.Get("/api/people?rows=2&page=2"))
	assert.Equal(t, 5, list.TotalRecords)
	require.Len(t, list.People, 1)
	assert.Equal(t, "Salo, Aino", list.People[0].Name)

	assert.Equal(t, http.StatusBadRequest, s.Get("/api/people?sortField=shoesize").Code)
}

func TestPeople_Retrieve(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, people.RegisterRoutes)
	f := s.Fixture

	rec := s.Get(fmt.Sprintf("/api/people/%d", f.AsimovID))
	require.Equal(t, http.StatusOK, rec.Code)
	detail := apitest.Decode[people.PersonDetail](t, rec)
	assert.Equal(t, "Asimov, Isaac", detail.Name)
	assert.Equal(t, []int{f.FrenchID}, briefIDs(detail.Aliases))
	require.Len(t, detail.Works, 2)
	assert.Equal(t, f.FoundationID, detail.Works[0].ID)
	assert.Len(t, detail.Stories, 2, "stories written as Paul French are included")
	require.NotEmpty(t, detail.Roles)
	assert.Equal(t, models.RoleAuthor, detail.Roles[0].ID)

	// A pseudonym of one person resolves to the real person.
	detail = apitest.Decode[people.PersonDetail](t, s.Get(fmt.Sprintf("/api/people/%d", f.FrenchID)))
	assert.Equal(t, f.AsimovID, detail.ID)

	rec = s.Get("/api/people/Ranta,%20Jussi")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	detail = apitest.Decode[people.PersonDetail](t, rec)
	assert.Equal(t, f.RantaID, detail.ID)
	assert.Len(t, detail.Translations, 2)

	rec = s.Get("/api/people/Asimov%2C%20Isaac")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, f.AsimovID, apitest.Decode[people.PersonDetail](t, rec).ID)

	rec = s.Get("/api/people/LEM%2C%20STANIS%C5%81AW")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, f.LemID, apitest.Decode[people.PersonDetail](t, rec).ID)

	assert.Equal(t, http.StatusNotFound, s.Get("/api/people/999").Code)
	assert.Equal(t, http.StatusNotFound, s.Get("/api/people/Nobody").Code)
	assert.Equal(t, http.StatusBadRequest, s.Get("/api/people/0").Code)
}

func TestPeople_WorksTransitive(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, people.RegisterRoutes)
	f := s.Fixture

	_, err := contributors.Attach(t.Context(), s.DB, contributors.WorkTarget(f.SolarisID), contributors.Contribution{
		PersonID: f.FrenchID,
		RoleID:   models.RoleAuthor,
	})
	require.NoError(t, err)

	literal := apitest.Decode[[]*models.Work](t, s.Get(fmt.Sprintf("/api/people/%d/works", f.AsimovID)))
	assert.Len(t, literal, 2)

	transitive := apitest.Decode[[]*models.Work](t, s.Get(fmt.Sprintf("/api/people/%d/works?transitive=true", f.AsimovID)))
	assert.Len(t, transitive, 3)

	assert.Equal(t, http.StatusNotFound, s.Get("/api/people/999/works").Code)
}

func TestPeople_Relations(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, people.RegisterRoutes)
	f := s.Fixture

	shorts := apitest.Decode[[]*models.ShortStory](t, s.Get(fmt.Sprintf("/api/people/%d/shorts", f.AsimovID)))
	require.Len(t, shorts, 1)
	assert.Equal(t, f.NightfallID, shorts[0].ID)

	articles := apitest.Decode[[]*models.Article](t, s.Get(fmt.Sprintf("/api/people/%d/articles", f.SaloID)))
	require.Len(t, articles, 1)
	assert.Equal(t, f.ArticleID, articles[0].ID)

	issues := apitest.Decode[[]*models.Issue](t, s.Get(fmt.Sprintf("/api/people/%d/chiefeditor", f.SaloID)))
	require.Len(t, issues, 1)
	assert.Equal(t, f.IssueID, issues[0].ID)

	contributions := apitest.Decode[[]people.IssueContribution](t, s.Get(fmt.Sprintf("/api/people/%d/issue-contributions", f.SaloID)))
	require.Len(t, contributions, 1)
	assert.Equal(t, "Portti 1/2000", contributions[0].Name)
	assert.Equal(t, models.RoleChiefEditor, contributions[0].Role.ID)

	empty := apitest.Decode[[]*models.Issue](t, s.Get(fmt.Sprintf("/api/people/%d/chiefeditor", f.LemID)))
	assert.Empty(t, empty)
}

func TestPeople_CreateUpdateDelete(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, people.RegisterRoutes)
	f := s.Fixture

	body := `{"name":"Arthur C. Clarke","dob":1917,"nationality_id":2}`
	assert.Equal(t, http.StatusUnauthorized, s.Do(http.MethodPost, "/api/people", body, "").Code)

	rec := s.Admin(http.MethodPost, "/api/people", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := apitest.Decode[int](t, rec)

	detail := apitest.Decode[people.PersonDetail](t, s.Get(fmt.Sprintf("/api/people/%d", id)))
	assert.Equal(t, "Clarke, Arthur C.", detail.Name)
	require.NotNil(t, detail.AltName)
	assert.Equal(t, "Arthur C. Clarke", *detail.AltName)

	rec = s.Admin(http.MethodPost, "/api/people", `{"name":"Clarke, Arthur C."}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.Admin(http.MethodPost, "/api/people", `{"name":"Ei Maata","nationality_id":999}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.Admin(http.MethodPut, "/api/people", fmt.Sprintf(`{"id":%d,"name":"Clarke, Arthur Charles","dob":1917}`, id))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	detail = apitest.Decode[people.PersonDetail](t, s.Get(fmt.Sprintf("/api/people/%d", id)))
	assert.Equal(t, "Clarke, Arthur Charles", detail.Name)
	assert.Nil(t, detail.NationalityID)

	rec = s.Admin(http.MethodDelete, fmt.Sprintf("/api/people/%d", f.LemID), "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.Admin(http.MethodDelete, fmt.Sprintf("/api/people/%d", id), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusNotFound, s.Get(fmt.Sprintf("/api/people/%d", id)).Code)
}

func TestPeople_RenameRecomputesAuthorString(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, people.RegisterRoutes)
	f := s.Fixture

	rec := s.Admin(http.MethodPut, "/api/people", fmt.Sprintf(`{"id":%d,"name":"Lem, S."}`, f.LemID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var authorStr string
	err := s.DB.NewSelect().Model((*models.Work)(nil)).Column("w.author_str").Where("w.id = ?", f.SolarisID).Scan(t.Context(), &authorStr)
	require.NoError(t, err)
	assert.Equal(t, "Lem, S.", authorStr)
}

func TestPeople_Aliases(t *testing.T) {
	t.Parallel()
	s := apitest.New(t, people.RegisterRoutes)
	f := s.Fixture

	path := fmt.Sprintf("/api/people/%d/aliases/%d", f.LemID, f.RantaID)
	require.Equal(t, http.StatusOK, s.Admin(http.MethodPut, path, "").Code)
	require.Equal(t, http.StatusOK, s.Admin(http.MethodPut, path, "").Code)

	aliases := apitest.Decode[[]models.Brief](t, s.Get(fmt.Sprintf("/api/filter/alias/%d", f.LemID)))
	assert.Equal(t, []int{f.RantaID}, briefIDs(aliases))

	require.Equal(t, http.StatusOK, s.Admin(http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, s.Admin(http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusBadRequest, s.Admin(http.MethodPut, fmt.Sprintf("/api/people/%d/aliases/%d", f.LemID, f.LemID), "").Code)
}
