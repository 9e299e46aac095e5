// Package contributors attaches people to works, editions, short stories and
// issues. Contributions live on parts: a work contribution is copied to every
// part of the work that isn't a short story slot, an edition contribution to
// every such part of the edition, and a short story contribution to every
// part carrying the story. Derived author strings are recomputed after each
// change.
package contributors

import (
	"context"
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/suomisf/suomisf/pkg/sortname"
	"github.com/uptrace/bun"
)

// Target names the object contributions are attached to.
type Target struct {
	Kind string
	ID   int
}

func WorkTarget(id int) Target    { return Target{models.TargetWork, id} }
func EditionTarget(id int) Target { return Target{models.TargetEdition, id} }
func ShortTarget(id int) Target   { return Target{models.TargetShort, id} }
func IssueTarget(id int) Target   { return Target{models.TargetIssue, id} }

// Contribution is one person in one role.
type Contribution struct {
	PersonID     int     `json:"person_id" validate:"required,min=1"`
	RoleID       int     `json:"role_id" validate:"required,min=1"`
	RealPersonID *int    `json:"real_person_id" validate:"omitempty,min=1"`
	Description  *string `json:"description" mod:"trim,sanitize" validate:"omitempty,max=500"`
}

type PersonBrief struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	AltName *string `json:"alt_name"`
}

// View is a deduplicated contribution as shown by read endpoints.
type View struct {
	Person      *PersonBrief            `json:"person"`
	Role        *models.ContributorRole `json:"role"`
	RealPerson  *PersonBrief            `json:"real_person,omitempty"`
	Description *string                 `json:"description"`
}

func brief(p *models.Person) *PersonBrief {
	if p == nil {
		return nil
	}
	return &PersonBrief{ID: p.ID, Name: p.Name, AltName: p.AltName}
}

func checkRole(target Target, role int) error {
	if models.RolesFor(target.Kind) == nil {
		return errcodes.BadRequest(fmt.Sprintf("Tuntematon kohde %q.", target.Kind))
	}
	if !models.RoleAllowed(target.Kind, role) {
		return errcodes.BadRequest(fmt.Sprintf("Rooli %d ei ole sallittu kohteelle %s.", role, target.Kind))
	}
	return nil
}

func checkPerson(ctx context.Context, db bun.IDB, id int) error {
	exists, err := db.NewSelect().Model((*models.Person)(nil)).Where("p.id = ?", id).Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.NotFound("Henkilö")
	}
	return nil
}

var targetResources = map[string]string{
	models.TargetWork:    "Teos",
	models.TargetEdition: "Painos",
	models.TargetShort:   "Novelli",
	models.TargetIssue:   "Irtonumero",
}

func checkTarget(ctx context.Context, db bun.IDB, target Target) error {
	var (
		model any
		where string
	)
	switch target.Kind {
	case models.TargetWork:
		model, where = (*models.Work)(nil), "w.id = ?"
	case models.TargetEdition:
		model, where = (*models.Edition)(nil), "e.id = ?"
	case models.TargetShort:
		model, where = (*models.ShortStory)(nil), "s.id = ?"
	case models.TargetIssue:
		model, where = (*models.Issue)(nil), "i.id = ?"
	default:
		return errcodes.BadRequest(fmt.Sprintf("Tuntematon kohde %q.", target.Kind))
	}
	exists, err := db.NewSelect().Model(model).Where(where, target.ID).Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.NotFound(targetResources[target.Kind])
	}
	return nil
}

// PartIDs returns the parts contributions of target are stored on.
func PartIDs(ctx context.Context, db bun.IDB, target Target) ([]int, error) {
	q := db.NewSelect().Model((*models.Part)(nil)).Column("pt.id").Order("pt.id")
	switch target.Kind {
	case models.TargetWork:
		q = q.Where("pt.work_id = ?", target.ID).Where("pt.shortstory_id IS NULL")
	case models.TargetEdition:
		q = q.Where("pt.edition_id = ?", target.ID).Where("pt.shortstory_id IS NULL")
	case models.TargetShort:
		q = q.Where("pt.shortstory_id = ?", target.ID)
	default:
		return nil, errcodes.BadRequest(fmt.Sprintf("Tuntematon kohde %q.", target.Kind))
	}
	var ids []int
	if err := q.Scan(ctx, &ids); err != nil {
		return nil, errors.WithStack(err)
	}
	return ids, nil
}

// partsForWrite returns the parts of target, creating the synthetic part of
// a short story that appears nowhere yet.
func partsForWrite(ctx context.Context, db bun.IDB, target Target) ([]int, error) {
	ids, err := PartIDs(ctx, db, target)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		return ids, nil
	}
	if target.Kind != models.TargetShort {
		return nil, errcodes.UnprocessableEntity("Kohteella ei ole yhtään osaa.")
	}
	id := target.ID
	part := &models.Part{ShortstoryID: &id}
	if _, err := db.NewInsert().Model(part).Exec(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return []int{part.ID}, nil
}

func insertOnParts(ctx context.Context, db bun.IDB, partIDs []int, list []Contribution) (int64, error) {
	rows := make([]*models.Contributor, 0, len(partIDs)*len(list))
	for _, partID := range partIDs {
		for _, c := range list {
			rows = append(rows, &models.Contributor{
				PartID:       partID,
				PersonID:     c.PersonID,
				RoleID:       c.RoleID,
				RealPersonID: c.RealPersonID,
				Description:  c.Description,
			})
		}
	}
	if len(rows) == 0 {
		return 0, nil
	}
	res, err := db.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Attach adds one contribution to target and reports whether a row was
// added. Attaching an existing contribution is a no-op.
func Attach(ctx context.Context, db bun.IDB, target Target, c Contribution) (bool, error) {
	if err := checkRole(target, c.RoleID); err != nil {
		return false, err
	}
	if err := checkTarget(ctx, db, target); err != nil {
		return false, err
	}
	if err := checkPerson(ctx, db, c.PersonID); err != nil {
		return false, err
	}
	if c.RealPersonID != nil {
		if err := checkPerson(ctx, db, *c.RealPersonID); err != nil {
			return false, err
		}
	}

	if target.Kind == models.TargetIssue {
		editor := &models.IssueEditor{IssueID: target.ID, PersonID: c.PersonID, RoleID: c.RoleID}
		res, err := db.NewInsert().Model(editor).On("CONFLICT DO NOTHING").Exec(ctx)
		if err != nil {
			return false, errors.WithStack(err)
		}
		n, _ := res.RowsAffected()
		return n > 0, nil
	}

	partIDs, err := partsForWrite(ctx, db, target)
	if err != nil {
		return false, err
	}
	n, err := insertOnParts(ctx, db, partIDs, []Contribution{c})
	if err != nil || n == 0 {
		return false, err
	}
	return true, Recompute(ctx, db, target)
}

// Detach removes one person in one role from target.
func Detach(ctx context.Context, db bun.IDB, target Target, personID, roleID int) error {
	if err := checkRole(target, roleID); err != nil {
		return err
	}

	if target.Kind == models.TargetIssue {
		res, err := db.NewDelete().
			Model((*models.IssueEditor)(nil)).
			Where("issue_id = ?", target.ID).
			Where("person_id = ?", personID).
			Where("role_id = ?", roleID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errcodes.NotFound("Tekijä")
		}
		return nil
	}

	partIDs, err := PartIDs(ctx, db, target)
	if err != nil {
		return err
	}
	if len(partIDs) == 0 {
		return errcodes.NotFound("Tekijä")
	}
	res, err := db.NewDelete().
		Model((*models.Contributor)(nil)).
		Where("part_id IN (?)", bun.In(partIDs)).
		Where("person_id = ?", personID).
		Where("role_id = ?", roleID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Tekijä")
	}

	if target.Kind == models.TargetShort {
		if err := PruneSyntheticParts(ctx, db, target.ID); err != nil {
			return err
		}
	}
	return Recompute(ctx, db, target)
}

// Replace sets the contributions of target to list, keeping contributions
// in roles that belong to other targets. It reports whether anything
// changed.
func Replace(ctx context.Context, db bun.IDB, target Target, list []Contribution) (bool, error) {
	list = dedupe(list)
	for _, c := range list {
		if err := checkRole(target, c.RoleID); err != nil {
			return false, err
		}
		if err := checkPerson(ctx, db, c.PersonID); err != nil {
			return false, err
		}
	}

	current, err := List(ctx, db, target)
	if err != nil {
		return false, err
	}
	if sameContributions(current, list) {
		return false, nil
	}

	if target.Kind == models.TargetIssue {
		if _, err := db.NewDelete().
			Model((*models.IssueEditor)(nil)).
			Where("issue_id = ?", target.ID).
			Exec(ctx); err != nil {
			return false, errors.WithStack(err)
		}
		if len(list) == 0 {
			return true, nil
		}
		editors := make([]*models.IssueEditor, 0, len(list))
		for _, c := range list {
			editors = append(editors, &models.IssueEditor{IssueID: target.ID, PersonID: c.PersonID, RoleID: c.RoleID})
		}
		_, err := db.NewInsert().Model(&editors).On("CONFLICT DO NOTHING").Exec(ctx)
		return true, errors.WithStack(err)
	}

	partIDs, err := partsForWrite(ctx, db, target)
	if err != nil {
		return false, err
	}
	if _, err := db.NewDelete().
		Model((*models.Contributor)(nil)).
		Where("part_id IN (?)", bun.In(partIDs)).
		Where("role_id IN (?)", bun.In(models.RolesFor(target.Kind))).
		Exec(ctx); err != nil {
		return false, errors.WithStack(err)
	}
	if _, err := insertOnParts(ctx, db, partIDs, list); err != nil {
		return false, err
	}
	return true, Recompute(ctx, db, target)
}

func dedupe(list []Contribution) []Contribution {
	type key struct{ person, role int }
	seen := make(map[key]struct{}, len(list))
	out := make([]Contribution, 0, len(list))
	for _, c := range list {
		k := key{c.PersonID, c.RoleID}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}
	return out
}

func sameContributions(current []*View, list []Contribution) bool {
	if len(current) != len(list) {
		return false
	}
	type key struct {
		person, role, real int
		desc               string
	}
	set := make(map[key]struct{}, len(current))
	for _, v := range current {
		k := key{person: v.Person.ID, role: v.Role.ID}
		if v.RealPerson != nil {
			k.real = v.RealPerson.ID
		}
		if v.Description != nil {
			k.desc = *v.Description
		}
		set[k] = struct{}{}
	}
	for _, c := range list {
		k := key{person: c.PersonID, role: c.RoleID}
		if c.RealPersonID != nil {
			k.real = *c.RealPersonID
		}
		if c.Description != nil {
			k.desc = *c.Description
		}
		if _, ok := set[k]; !ok {
			return false
		}
	}
	return true
}

// List returns the deduplicated contributions of target ordered by role
// and then by person name.
func List(ctx context.Context, db bun.IDB, target Target) ([]*View, error) {
	if target.Kind == models.TargetIssue {
		return listIssueEditors(ctx, db, target.ID)
	}

	partIDs, err := PartIDs(ctx, db, target)
	if err != nil {
		return nil, err
	}
	if len(partIDs) == 0 {
		return []*View{}, nil
	}

	var rows []*models.Contributor
	err = db.NewSelect().
		Model(&rows).
		Relation("Person").
		Relation("RealPerson").
		Relation("Role").
		Where("c.part_id IN (?)", bun.In(partIDs)).
		Where("c.role_id IN (?)", bun.In(models.RolesFor(target.Kind))).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return toViews(rows), nil
}

func toViews(rows []*models.Contributor) []*View {
	type key struct{ person, role, real int }
	seen := make(map[key]struct{}, len(rows))
	views := make([]*View, 0, len(rows))
	for _, r := range rows {
		k := key{person: r.PersonID, role: r.RoleID}
		if r.RealPersonID != nil {
			k.real = *r.RealPersonID
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		views = append(views, &View{
			Person:      brief(r.Person),
			Role:        r.Role,
			RealPerson:  brief(r.RealPerson),
			Description: r.Description,
		})
	}
	sortViews(views)
	return views
}

func sortViews(views []*View) {
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Role.ID != views[j].Role.ID {
			return views[i].Role.ID < views[j].Role.ID
		}
		return sortname.Less(views[i].Person.Name, views[j].Person.Name)
	})
}

func listIssueEditors(ctx context.Context, db bun.IDB, issueID int) ([]*View, error) {
	var rows []*models.IssueEditor
	err := db.NewSelect().
		Model(&rows).
		Relation("Person").
		Where("ied.issue_id = ?", issueID).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	roles, err := roleMap(ctx, db)
	if err != nil {
		return nil, err
	}
	views := make([]*View, 0, len(rows))
	for _, r := range rows {
		views = append(views, &View{Person: brief(r.Person), Role: roles[r.RoleID]})
	}
	sortViews(views)
	return views, nil
}

func roleMap(ctx context.Context, db bun.IDB) (map[int]*models.ContributorRole, error) {
	var roles []*models.ContributorRole
	if err := db.NewSelect().Model(&roles).Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	out := make(map[int]*models.ContributorRole, len(roles))
	for _, r := range roles {
		out[r.ID] = r
	}
	return out, nil
}

// PruneSyntheticParts removes edition-less parts of a short story that hold
// no contributors, as long as the story still appears somewhere else.
func PruneSyntheticParts(ctx context.Context, db bun.IDB, shortID int) error {
	_, err := db.ExecContext(ctx, `
		DELETE FROM parts
		WHERE shortstory_id = ? AND edition_id IS NULL
		AND NOT EXISTS (SELECT 1 FROM contributors AS c WHERE c.part_id = parts.id)
		AND EXISTS (SELECT 1 FROM parts AS p2 WHERE p2.shortstory_id = ? AND p2.id <> parts.id)`,
		shortID, shortID,
	)
	return errors.WithStack(err)
}

// CopyWorkContributions copies the work-level contributions of workID onto
// a newly created part of the work.
func CopyWorkContributions(ctx context.Context, db bun.IDB, workID, partID int) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO contributors (part_id, person_id, role_id, real_person_id, description)
		SELECT DISTINCT ?, c.person_id, c.role_id, c.real_person_id, c.description
		FROM contributors AS c
		JOIN parts AS pt ON pt.id = c.part_id
		WHERE pt.work_id = ? AND pt.shortstory_id IS NULL AND pt.id <> ? AND c.role_id IN (?)
		ON CONFLICT DO NOTHING`,
		partID, workID, partID, bun.In(models.RolesFor(models.TargetWork)),
	)
	return errors.WithStack(err)
}
