package people

import (
	"context"
	"database/sql"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/changes"
	"github.com/suomisf/suomisf/pkg/contributors"
	"github.com/suomisf/suomisf/pkg/database"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/links"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/suomisf/suomisf/pkg/sortname"
	"github.com/uptrace/bun"
)

const resource = "Henkilö"

type ListPeopleOptions struct {
	Letter        *string
	NationalityID *int
	Search        *string
	Limit         int
	Offset        int
	SortField     string
	Descending    bool
}

// PersonRow is one person of the people list.
type PersonRow struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	AltName     *string `json:"alt_name"`
	Dob         *int    `json:"dob"`
	Dod         *int    `json:"dod"`
	Nationality *string `json:"nationality"`
	WorkCount   int     `json:"workcount"`
	StoryCount  int     `json:"storycount"`
}

type PeopleList struct {
	People       []*PersonRow `json:"people"`
	TotalRecords int          `json:"totalRecords"`
}

// PersonDetail is a person with everything the person page shows. Works,
// edits and stories include those published under the person's aliases.
type PersonDetail struct {
	*models.Person
	Links        []links.Link              `json:"links"`
	Aliases      []models.Brief            `json:"aliases"`
	RealNames    []models.Brief            `json:"real_names"`
	Roles        []*models.ContributorRole `json:"roles"`
	Works        []*models.Work            `json:"works"`
	Edits        []*models.Work            `json:"edits"`
	Translations []*models.Edition         `json:"translations"`
	Stories      []*models.ShortStory      `json:"stories"`
}

// IssueContribution is one issue a person edited or illustrated.
type IssueContribution struct {
	Issue *models.Issue           `json:"issue"`
	Name  string                  `json:"name"`
	Role  *models.ContributorRole `json:"role"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreatePerson(ctx context.Context, payload CreatePersonPayload) (*models.Person, error) {
	person := &models.Person{
		Name:          sortname.ForPerson(payload.Name),
		AltName:       payload.AltName,
		FullName:      payload.FullName,
		OtherNames:    payload.OtherNames,
		FirstName:     payload.FirstName,
		LastName:      payload.LastName,
		ImageSrc:      payload.ImageSrc,
		Dob:           payload.Dob,
		Dod:           payload.Dod,
		Bio:           payload.Bio,
		BioSrc:        payload.BioSrc,
		NationalityID: payload.NationalityID,
	}
	if person.AltName == nil {
		alt := sortname.DisplayName(person.Name)
		person.AltName = &alt
	}
	if person.FullName == nil {
		person.FullName = person.AltName
	}

	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		if err := checkCountry(ctx, tx, person.NationalityID); err != nil {
			return err
		}
		if _, err := tx.NewInsert().Model(person).Returning("*").Exec(ctx); err != nil {
			return errcodes.FromDB(err, resource+" "+person.Name)
		}
		if _, err := links.Replace(ctx, tx, links.Person, person.ID, payload.Links); err != nil {
			return err
		}
		return changes.LogCreate(ctx, tx, changes.TablePerson, person.ID, person.Name)
	})
	if err != nil {
		return nil, err
	}
	return person, nil
}

// ResolvePerson finds a person by numeric id or by canonical name. A
// pseudonym used by exactly one real person resolves to that person.
func (svc *Service) ResolvePerson(ctx context.Context, key string) (int, error) {
	key = strings.TrimSpace(key)
	id, err := strconv.Atoi(key)
	if err != nil {
		err = svc.db.NewSelect().
			Model((*models.Person)(nil)).
			Column("p.id").
			Where("p.name GLOB ?", database.GlobEqual(key)).
			Limit(1).
			Scan(ctx, &id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, errcodes.NotFound(resource)
			}
			return 0, errors.WithStack(err)
		}
	} else if id <= 0 {
		return 0, errcodes.InvalidID(key)
	}

	var real []int
	err = svc.db.NewSelect().
		Model((*models.Alias)(nil)).
		Column("al.realname").
		Where("al.alias = ?", id).
		Scan(ctx, &real)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	if len(real) == 1 {
		return real[0], nil
	}
	return id, nil
}

func (svc *Service) RetrievePerson(ctx context.Context, id int) (*PersonDetail, error) {
	person := &models.Person{}
	err := svc.db.NewSelect().
		Model(person).
		Relation("Nationality").
		Relation("Tags").
		Where("p.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound(resource)
		}
		return nil, errors.WithStack(err)
	}

	detail := &PersonDetail{Person: person}
	if detail.Links, err = links.List(ctx, svc.db, links.Person, id); err != nil {
		return nil, err
	}
	if detail.Aliases, err = svc.Aliases(ctx, id); err != nil {
		return nil, err
	}
	if detail.RealNames, err = svc.RealNames(ctx, id); err != nil {
		return nil, err
	}

	ids := []int{id}
	for _, a := range detail.Aliases {
		ids = append(ids, a.ID)
	}
	if detail.Roles, err = svc.roles(ctx, ids); err != nil {
		return nil, err
	}
	if detail.Works, err = svc.works(ctx, ids, models.RoleAuthor); err != nil {
		return nil, err
	}
	if detail.Edits, err = svc.works(ctx, ids, models.RoleEditor); err != nil {
		return nil, err
	}
	if detail.Stories, err = svc.stories(ctx, ids); err != nil {
		return nil, err
	}
	err = svc.db.NewSelect().
		Model(&detail.Translations).
		Relation("Publisher").
		Where("e.id IN (?)", partSubquery(svc.db, "pt.edition_id", ids, models.RoleTranslator).Where("pt.shortstory_id IS NULL")).
		OrderExpr("e.pubyear, e.title").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return detail, nil
}

// partSubquery selects column of every part on which one of ids has role.
func partSubquery(db bun.IDB, column string, ids []int, role int) *bun.SelectQuery {
	return db.NewSelect().
		TableExpr("parts AS pt").
		ColumnExpr(column).
		Join("JOIN contributors AS c ON c.part_id = pt.id").
		Where("c.role_id = ?", role).
		Where("c.person_id IN (?)", bun.In(ids))
}

func (svc *Service) works(ctx context.Context, ids []int, role int) ([]*models.Work, error) {
	var works []*models.Work
	err := svc.db.NewSelect().
		Model(&works).
		Relation("Bookseries").
		Where("w.id IN (?)", partSubquery(svc.db, "pt.work_id", ids, role).Where("pt.shortstory_id IS NULL")).
		OrderExpr("w.pubyear IS NULL, w.pubyear, w.title").
		Scan(ctx)
	return works, errors.WithStack(err)
}

func (svc *Service) stories(ctx context.Context, ids []int) ([]*models.ShortStory, error) {
	var shorts []*models.ShortStory
	err := svc.db.NewSelect().
		Model(&shorts).
		Relation("Type").
		Where("s.id IN (?)", partSubquery(svc.db, "pt.shortstory_id", ids, models.RoleAuthor)).
		OrderExpr("s.pubyear IS NULL, s.pubyear, s.title").
		Scan(ctx)
	return shorts, errors.WithStack(err)
}

func (svc *Service) roles(ctx context.Context, ids []int) ([]*models.ContributorRole, error) {
	var roles []*models.ContributorRole
	err := svc.db.NewSelect().
		Model(&roles).
		Where("cr.id IN (SELECT c.role_id FROM contributors AS c WHERE c.person_id IN (?))", bun.In(ids)).
		WhereOr("cr.id IN (SELECT ied.role_id FROM issue_editors AS ied WHERE ied.person_id IN (?))", bun.In(ids)).
		Order("cr.id").
		Scan(ctx)
	return roles, errors.WithStack(err)
}

// Works returns the works a person wrote. With transitive set, works
// published under the person's aliases are included.
func (svc *Service) Works(ctx context.Context, id int, transitive bool) ([]*models.Work, error) {
	if err := svc.exists(ctx, id); err != nil {
		return nil, err
	}
	ids := []int{id}
	if transitive {
		aliases, err := svc.Aliases(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, a := range aliases {
			ids = append(ids, a.ID)
		}
	}
	return svc.works(ctx, ids, models.RoleAuthor)
}

// Shorts returns the short stories a person wrote.
func (svc *Service) Shorts(ctx context.Context, id int) ([]*models.ShortStory, error) {
	if err := svc.exists(ctx, id); err != nil {
		return nil, err
	}
	return svc.stories(ctx, []int{id})
}

// Articles returns the articles a person wrote.
func (svc *Service) Articles(ctx context.Context, id int) ([]*models.Article, error) {
	if err := svc.exists(ctx, id); err != nil {
		return nil, err
	}
	var articles []*models.Article
	err := svc.db.NewSelect().
		Model(&articles).
		Where("a.id IN (SELECT aa.article_id FROM article_authors AS aa WHERE aa.person_id = ?)", id).
		Order("a.title").
		Scan(ctx)
	return articles, errors.WithStack(err)
}

// ChiefEditor returns the issues a person was editor in chief of.
func (svc *Service) ChiefEditor(ctx context.Context, id int) ([]*models.Issue, error) {
	if err := svc.exists(ctx, id); err != nil {
		return nil, err
	}
	var issues []*models.Issue
	err := svc.db.NewSelect().
		Model(&issues).
		Relation("Magazine").
		Where("i.id IN (SELECT ied.issue_id FROM issue_editors AS ied WHERE ied.person_id = ? AND ied.role_id = ?)", id, models.RoleChiefEditor).
		OrderExpr("i.year, i.number, i.id").
		Scan(ctx)
	return issues, errors.WithStack(err)
}

// IssueContributions returns every issue role a person holds.
func (svc *Service) IssueContributions(ctx context.Context, id int) ([]*IssueContribution, error) {
	if err := svc.exists(ctx, id); err != nil {
		return nil, err
	}
	var rows []*models.IssueEditor
	err := svc.db.NewSelect().
		Model(&rows).
		Where("ied.person_id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	issueIDs := make([]int, 0, len(rows))
	for _, r := range rows {
		issueIDs = append(issueIDs, r.IssueID)
	}
	var issues []*models.Issue
	err = svc.db.NewSelect().
		Model(&issues).
		Relation("Magazine").
		Where("i.id IN (?)", bun.In(issueIDs)).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	byID := make(map[int]*models.Issue, len(issues))
	for _, i := range issues {
		byID[i.ID] = i
	}
	var roles []*models.ContributorRole
	if err := svc.db.NewSelect().Model(&roles).Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	roleByID := make(map[int]*models.ContributorRole, len(roles))
	for _, r := range roles {
		roleByID[r.ID] = r
	}

	out := make([]*IssueContribution, 0, len(rows))
	for _, r := range rows {
		issue := byID[r.IssueID]
		if issue == nil {
			continue
		}
		out = append(out, &IssueContribution{
			Issue: issue,
			Name:  contributors.IssueName(issue),
			Role:  roleByID[r.RoleID],
		})
	}
	sortContributions(out)
	return out, nil
}

// Aliases returns the pseudonyms of a person.
func (svc *Service) Aliases(ctx context.Context, id int) ([]models.Brief, error) {
	return svc.briefs(ctx, "p.id IN (SELECT al.alias FROM aliases AS al WHERE al.realname = ?)", id)
}

// RealNames returns the people behind a pseudonym.
func (svc *Service) RealNames(ctx context.Context, id int) ([]models.Brief, error) {
	return svc.briefs(ctx, "p.id IN (SELECT al.realname FROM aliases AS al WHERE al.alias = ?)", id)
}

func (svc *Service) briefs(ctx context.Context, where string, args ...any) ([]models.Brief, error) {
	var out []models.Brief
	err := svc.db.NewSelect().
		Model((*models.Person)(nil)).
		ColumnExpr("p.id AS id, p.name AS text").
		Where(where, args...).
		Order("p.name").
		Scan(ctx, &out)
	return out, errors.WithStack(err)
}

// AddAlias records alias as a pseudonym of the person realID.
func (svc *Service) AddAlias(ctx context.Context, realID, aliasID int) error {
	if realID == aliasID {
		return errcodes.BadRequest("Henkilö ei voi olla oma aliaksensa.")
	}
	return database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		var name string
		if err := tx.NewSelect().Model((*models.Person)(nil)).Column("p.name").Where("p.id = ?", realID).Scan(ctx, &name); err != nil {
			return errcodes.FromDB(err, resource)
		}
		var alias string
		if err := tx.NewSelect().Model((*models.Person)(nil)).Column("p.name").Where("p.id = ?", aliasID).Scan(ctx, &alias); err != nil {
			return errcodes.FromDB(err, resource)
		}
		res, err := tx.NewInsert().
			Model(&models.Alias{Alias: aliasID, RealName: realID}).
			On("CONFLICT DO NOTHING").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		tr := &changes.Tracker{}
		tr.Touch("Aliakset", "")
		return changes.LogUpdate(ctx, tx, changes.TablePerson, realID, name, tr)
	})
}

// RemoveAlias drops the pseudonym link between realID and aliasID.
func (svc *Service) RemoveAlias(ctx context.Context, realID, aliasID int) error {
	return database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		var name string
		if err := tx.NewSelect().Model((*models.Person)(nil)).Column("p.name").Where("p.id = ?", realID).Scan(ctx, &name); err != nil {
			return errcodes.FromDB(err, resource)
		}
		res, err := tx.NewDelete().
			Model((*models.Alias)(nil)).
			Where("alias = ? AND realname = ?", aliasID, realID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errcodes.NotFound("Alias")
		}
		tr := &changes.Tracker{}
		tr.Touch("Aliakset", strconv.Itoa(aliasID))
		return changes.LogUpdate(ctx, tx, changes.TablePerson, realID, name, tr)
	})
}

// ListPeople returns a page of people who have at least one contribution.
func (svc *Service) ListPeople(ctx context.Context, opts ListPeopleOptions) (*PeopleList, error) {
	var rows []*PersonRow

	q := svc.db.
		NewSelect().
		Model((*models.Person)(nil)).
		Column("p.id", "p.name", "p.alt_name", "p.dob", "p.dod").
		ColumnExpr("co.name AS nationality").
		ColumnExpr(`(SELECT COUNT(DISTINCT pt.work_id) FROM parts AS pt JOIN contributors AS c ON c.part_id = pt.id
			WHERE c.person_id = p.id AND c.role_id = ? AND pt.shortstory_id IS NULL) AS work_count`, models.RoleAuthor).
		ColumnExpr(`(SELECT COUNT(DISTINCT pt.shortstory_id) FROM parts AS pt JOIN contributors AS c ON c.part_id = pt.id
			WHERE c.person_id = p.id AND c.role_id = ? AND pt.shortstory_id IS NOT NULL) AS story_count`, models.RoleAuthor).
		Join("LEFT JOIN countries AS co ON co.id = p.nationality_id").
		Where(`p.id IN (SELECT c.person_id FROM contributors AS c
			UNION SELECT c.real_person_id FROM contributors AS c WHERE c.real_person_id IS NOT NULL)`)

	if opts.Letter != nil && *opts.Letter != "" {
		q = q.Where("p.name GLOB ?", database.GlobPrefix(*opts.Letter))
	}
	if opts.NationalityID != nil {
		q = q.Where("p.nationality_id = ?", *opts.NationalityID)
	}
	if opts.Search != nil && *opts.Search != "" {
		q = q.Where("p.name GLOB ?", database.GlobContains(*opts.Search))
	}

	dir := "ASC"
	if opts.Descending {
		dir = "DESC"
	}
	switch opts.SortField {
	case "dob", "dod":
		q = q.OrderExpr("p." + opts.SortField + " " + dir).OrderExpr("p.name ASC")
	case "nationality":
		q = q.OrderExpr("co.name " + dir).OrderExpr("p.name ASC")
	case "workcount":
		q = q.OrderExpr("work_count " + dir).OrderExpr("p.name ASC")
	case "storycount":
		q = q.OrderExpr("story_count " + dir).OrderExpr("p.name ASC")
	default:
		q = q.OrderExpr("p.name " + dir)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit).Offset(opts.Offset)
	}

	total, err := q.ScanAndCount(ctx, &rows)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if rows == nil {
		rows = []*PersonRow{}
	}
	return &PeopleList{People: rows, TotalRecords: total}, nil
}

func (svc *Service) UpdatePerson(ctx context.Context, payload UpdatePersonPayload) (*models.Person, error) {
	person := &models.Person{}
	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(person).Where("p.id = ?", payload.ID).Scan(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}
		if err := checkCountry(ctx, tx, payload.NationalityID); err != nil {
			return err
		}

		renamed := false
		tr := &changes.Tracker{}
		if name := sortname.ForPerson(payload.Name); name != person.Name {
			changes.Set(tr, "name", "Nimi", &person.Name, name)
			renamed = true
		}
		changes.SetPtr(tr, "alt_name", "Vaihtoehtoinen nimi", &person.AltName, payload.AltName)
		changes.SetPtr(tr, "fullname", "Koko nimi", &person.FullName, payload.FullName)
		changes.SetPtr(tr, "other_names", "Muut nimet", &person.OtherNames, payload.OtherNames)
		changes.SetPtr(tr, "first_name", "Etunimi", &person.FirstName, payload.FirstName)
		changes.SetPtr(tr, "last_name", "Sukunimi", &person.LastName, payload.LastName)
		changes.SetPtr(tr, "image_src", "Kuvan lähde", &person.ImageSrc, payload.ImageSrc)
		changes.SetPtr(tr, "dob", "Syntymävuosi", &person.Dob, payload.Dob)
		changes.SetPtr(tr, "dod", "Kuolinvuosi", &person.Dod, payload.Dod)
		changes.SetPtr(tr, "bio", "Biografia", &person.Bio, payload.Bio)
		changes.SetPtr(tr, "bio_src", "Biografian lähde", &person.BioSrc, payload.BioSrc)
		changes.SetPtr(tr, "nationality_id", "Kansallisuus", &person.NationalityID, payload.NationalityID)

		if cols := tr.Columns(); len(cols) > 0 {
			_, err := tx.NewUpdate().Model(person).Column(cols...).WherePK().Exec(ctx)
			if err != nil {
				return errcodes.FromDB(err, resource+" "+person.Name)
			}
		}
		if renamed {
			if err := contributors.RecomputeForPerson(ctx, tx, person.ID); err != nil {
				return err
			}
		}
		if payload.Links != nil {
			changed, err := links.Replace(ctx, tx, links.Person, person.ID, payload.Links)
			if err != nil {
				return err
			}
			if changed {
				tr.Touch("Linkit", "")
			}
		}
		return changes.LogUpdate(ctx, tx, changes.TablePerson, person.ID, person.Name, tr)
	})
	if err != nil {
		return nil, err
	}
	return person, nil
}

// DeletePerson removes a person nothing refers to any more.
func (svc *Service) DeletePerson(ctx context.Context, id int) error {
	blockers := []struct {
		query string
		msg   string
	}{
		{"SELECT 1 FROM contributors WHERE person_id = ? OR real_person_id = ?", "Henkilöä ei voi poistaa, koska hänellä on rooleja."},
		{"SELECT 1 FROM aliases WHERE alias = ? OR realname = ?", "Henkilöä ei voi poistaa, koska hänellä on aliaksia."},
		{"SELECT 1 FROM issue_editors WHERE person_id = ? OR person_id = ?", "Henkilöä ei voi poistaa, koska hänellä on toimittajuuksia."},
		{"SELECT 1 FROM article_authors WHERE person_id = ? UNION SELECT 1 FROM article_persons WHERE person_id = ?", "Henkilöä ei voi poistaa, koska hänestä on artikkeleita."},
		{"SELECT 1 FROM awarded WHERE person_id = ? OR person_id = ?", "Henkilöä ei voi poistaa, koska hänelle on annettu palkintoja."},
	}
	return database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		person := &models.Person{}
		if err := tx.NewSelect().Model(person).Where("p.id = ?", id).Scan(ctx); err != nil {
			return errcodes.FromDB(err, resource)
		}
		for _, b := range blockers {
			var n int
			err := tx.NewRaw("SELECT COUNT(*) FROM ("+b.query+")", id, id).Scan(ctx, &n)
			if err != nil {
				return errors.WithStack(err)
			}
			if n > 0 {
				return errcodes.InUse(b.msg)
			}
		}

		if err := links.Delete(ctx, tx, links.Person, id); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*models.PersonTag)(nil)).Where("person_id = ?", id).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		if _, err := tx.NewDelete().Model((*models.Person)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		return changes.LogDelete(ctx, tx, changes.TablePerson, id, person.Name)
	})
}

func (svc *Service) exists(ctx context.Context, id int) error {
	ok, err := svc.db.NewSelect().Model((*models.Person)(nil)).Where("p.id = ?", id).Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !ok {
		return errcodes.NotFound(resource)
	}
	return nil
}

func sortContributions(list []*IssueContribution) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].Issue, list[j].Issue
		if ay, by := deref(a.Year), deref(b.Year); ay != by {
			return ay < by
		}
		if an, bn := deref(a.Number), deref(b.Number); an != bn {
			return an < bn
		}
		return a.ID < b.ID
	})
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func checkCountry(ctx context.Context, db bun.IDB, id *int) error {
	if id == nil {
		return nil
	}
	ok, err := db.NewSelect().Model((*models.Country)(nil)).Where("id = ?", *id).Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !ok {
		return errcodes.NotFound("Maa")
	}
	return nil
}
