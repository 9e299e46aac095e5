package contributors

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/suomisf/suomisf/pkg/testutils"
	"github.com/uptrace/bun"
)

func workAuthorStr(t *testing.T, db bun.IDB, id int) string {
	t.Helper()
	w := &models.Work{}
	require.NoError(t, db.NewSelect().Model(w).Where("w.id = ?", id).Scan(context.Background()))
	return w.AuthorStr
}

func httpCode(err error) int {
	var e *errcodes.Error
	if errors.As(err, &e) {
		return e.HTTPCode
	}
	return 0
}

func TestAttach_FansOutOverWorkParts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	f := testutils.Seed(t, db)

	added, err := Attach(ctx, db, WorkTarget(f.FoundationID), Contribution{PersonID: f.LemID, RoleID: models.RoleAuthor})
	require.NoError(t, err)
	assert.True(t, added)

	count, err := db.NewSelect().
		Model((*models.Contributor)(nil)).
		Join("JOIN parts AS pt ON pt.id = c.part_id").
		Where("pt.work_id = ?", f.FoundationID).
		Where("c.person_id = ?", f.LemID).
		Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one row per edition of the work")

	assert.Equal(t, "Asimov, Isaac & Lem, Stanisław", workAuthorStr(t, db, f.FoundationID))

	// Attaching again changes nothing.
	added, err = Attach(ctx, db, WorkTarget(f.FoundationID), Contribution{PersonID: f.LemID, RoleID: models.RoleAuthor})
	require.NoError(t, err)
	assert.False(t, added)
}

func TestAttach_RejectsRoleOfOtherTarget(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	f := testutils.Seed(t, db)

	_, err := Attach(ctx, db, WorkTarget(f.SolarisID), Contribution{PersonID: f.RantaID, RoleID: models.RoleTranslator})
	assert.Equal(t, 400, httpCode(err))

	_, err = Attach(ctx, db, WorkTarget(999), Contribution{PersonID: f.RantaID, RoleID: models.RoleAuthor})
	assert.Equal(t, 404, httpCode(err))

	_, err = Attach(ctx, db, WorkTarget(f.SolarisID), Contribution{PersonID: 999, RoleID: models.RoleAuthor})
	assert.Equal(t, 404, httpCode(err))
}

func TestAttach_ShortWithoutPartsGetsSyntheticPart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	f := testutils.Seed(t, db)

	story := &models.ShortStory{Title: "Orpo"}
	_, err := db.NewInsert().Model(story).Exec(ctx)
	require.NoError(t, err)

	_, err = Attach(ctx, db, ShortTarget(story.ID), Contribution{PersonID: f.LemID, RoleID: models.RoleAuthor})
	require.NoError(t, err)

	var parts []*models.Part
	require.NoError(t, db.NewSelect().Model(&parts).Where("pt.shortstory_id = ?", story.ID).Scan(ctx))
	require.Len(t, parts, 1)
	assert.Nil(t, parts[0].EditionID)
	assert.Nil(t, parts[0].WorkID)

	s := &models.ShortStory{}
	require.NoError(t, db.NewSelect().Model(s).Where("s.id = ?", story.ID).Scan(ctx))
	assert.Equal(t, "Lem, Stanisław", s.AuthorStr)
}

func TestDetach(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	f := testutils.Seed(t, db)

	require.NoError(t, Detach(ctx, db, WorkTarget(f.SolarisID), f.LemID, models.RoleAuthor))
	assert.Empty(t, workAuthorStr(t, db, f.SolarisID))

	err := Detach(ctx, db, WorkTarget(f.SolarisID), f.LemID, models.RoleAuthor)
	assert.Equal(t, 404, httpCode(err))

	// Edition roles live on the same parts and stay.
	views, err := List(ctx, db, EditionTarget(f.SolarisEdID))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, f.RantaID, views[0].Person.ID)
}

func TestReplace_KeepsRolesOfOtherTargets(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	f := testutils.Seed(t, db)

	changed, err := Replace(ctx, db, WorkTarget(f.FoundationID), []Contribution{
		{PersonID: f.LemID, RoleID: models.RoleAuthor},
		{PersonID: f.LemID, RoleID: models.RoleAuthor},
	})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Lem, Stanisław", workAuthorStr(t, db, f.FoundationID))

	views, err := List(ctx, db, WorkTarget(f.FoundationID))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Kirjoittaja", views[0].Role.Name)

	translators, err := List(ctx, db, EditionTarget(f.FoundationEd1ID))
	require.NoError(t, err)
	require.Len(t, translators, 1)
	assert.Equal(t, f.RantaID, translators[0].Person.ID)

	changed, err = Replace(ctx, db, WorkTarget(f.FoundationID), []Contribution{{PersonID: f.LemID, RoleID: models.RoleAuthor}})
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestList_IssueEditors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	f := testutils.Seed(t, db)

	views, err := List(ctx, db, IssueTarget(f.IssueID))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Salo, Aino", views[0].Person.Name)
	assert.Equal(t, "Päätoimittaja", views[0].Role.Name)

	added, err := Attach(ctx, db, IssueTarget(f.IssueID), Contribution{PersonID: f.LemID, RoleID: models.RoleCoverArtist})
	require.NoError(t, err)
	assert.True(t, added)
	require.NoError(t, Detach(ctx, db, IssueTarget(f.IssueID), f.LemID, models.RoleCoverArtist))
}

func TestWorkAuthorString_FallsBackToFirstEditionEditors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	f := testutils.Seed(t, db)

	s, err := WorkAuthorString(ctx, db, f.AnthologyID)
	require.NoError(t, err)
	assert.Equal(t, "Salo, Aino (toim.)", s)

	// A later edition with another editor doesn't change the string.
	later := &models.Edition{Title: "Uusi maailma", PubYear: ptr(1999), EditionNum: ptr(2)}
	_, err = db.NewInsert().Model(later).Exec(ctx)
	require.NoError(t, err)
	part := &models.Part{EditionID: &later.ID, WorkID: &f.AnthologyID}
	_, err = db.NewInsert().Model(part).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewInsert().Model(&models.Contributor{PartID: part.ID, PersonID: f.LemID, RoleID: models.RoleEditor}).Exec(ctx)
	require.NoError(t, err)

	s, err = WorkAuthorString(ctx, db, f.AnthologyID)
	require.NoError(t, err)
	assert.Equal(t, "Salo, Aino (toim.)", s)

	first, ok, err := FirstEditionID(ctx, db, f.AnthologyID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, f.AnthologyEdID, first)
}

func TestRecomputeForPerson(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	f := testutils.Seed(t, db)

	_, err := db.NewUpdate().Model((*models.Person)(nil)).Set("name = ?", "Asimov, I.").Where("id = ?", f.AsimovID).Exec(ctx)
	require.NoError(t, err)
	require.NoError(t, RecomputeForPerson(ctx, db, f.AsimovID))

	assert.Equal(t, "Asimov, I.", workAuthorStr(t, db, f.FoundationID))
	s := &models.ShortStory{}
	require.NoError(t, db.NewSelect().Model(s).Where("s.id = ?", f.NightfallID).Scan(ctx))
	assert.Equal(t, "Asimov, I.", s.AuthorStr)
}

func TestCopyWorkContributions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	f := testutils.Seed(t, db)

	ed := &models.Edition{Title: "Solaris", PubYear: ptr(2010)}
	_, err := db.NewInsert().Model(ed).Exec(ctx)
	require.NoError(t, err)
	part := &models.Part{EditionID: &ed.ID, WorkID: &f.SolarisID}
	_, err = db.NewInsert().Model(part).Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, CopyWorkContributions(ctx, db, f.SolarisID, part.ID))

	var rows []*models.Contributor
	require.NoError(t, db.NewSelect().Model(&rows).Where("c.part_id = ?", part.ID).Scan(ctx))
	require.Len(t, rows, 1, "only work roles are copied")
	assert.Equal(t, f.LemID, rows[0].PersonID)
}

func ptr[T any](v T) *T { return &v }
