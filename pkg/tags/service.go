package tags

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/changes"
	"github.com/suomisf/suomisf/pkg/database"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

type RetrieveTagOptions struct {
	ID   *int
	Name *string
}

type ListTagsOptions struct {
	Search *string
	TypeID *int
}

// TagWithCounts is a tag row of the full tag list.
type TagWithCounts struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	TypeID       *int    `json:"type_id"`
	WorkCount    int     `json:"workcount"`
	ShortCount   int     `json:"storycount"`
	ArticleCount int     `json:"articlecount"`
}

// TagDetail is a tag with everything it is attached to.
type TagDetail struct {
	*models.Tag
	Works    []*models.Work       `json:"works"`
	Shorts   []*models.ShortStory `json:"stories"`
	Articles []*models.Article    `json:"articles"`
	Issues   []*models.Issue      `json:"issues"`
	People   []*models.Person     `json:"people"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateTag(ctx context.Context, tag *models.Tag) error {
	return database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		if err := checkUniqueName(ctx, tx, tag.Name, 0); err != nil {
			return err
		}
		if _, err := tx.NewInsert().Model(tag).Returning("*").Exec(ctx); err != nil {
			return errcodes.FromDB(err, "Asiasana")
		}
		return changes.LogCreate(ctx, tx, changes.TableTag, tag.ID, tag.Name)
	})
}

func checkUniqueName(ctx context.Context, db bun.IDB, name string, exceptID int) error {
	exists, err := db.NewSelect().
		Model((*models.Tag)(nil)).
		Where("t.name GLOB ?", database.GlobEqual(name)).
		Where("t.id != ?", exceptID).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if exists {
		return errcodes.Conflict("Asiasana " + name)
	}
	return nil
}

func (svc *Service) RetrieveTag(ctx context.Context, opts RetrieveTagOptions) (*models.Tag, error) {
	tag := &models.Tag{}

	q := svc.db.
		NewSelect().
		Model(tag).
		Relation("Type")

	if opts.ID != nil {
		q = q.Where("t.id = ?", *opts.ID)
	}
	if opts.Name != nil {
		q = q.Where("t.name GLOB ?", database.GlobEqual(*opts.Name))
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Asiasana")
		}
		return nil, errors.WithStack(err)
	}

	return tag, nil
}

// RetrieveTagDetail returns the tag with its works, stories, articles,
// issues and people.
func (svc *Service) RetrieveTagDetail(ctx context.Context, id int) (*TagDetail, error) {
	tag, err := svc.RetrieveTag(ctx, RetrieveTagOptions{ID: &id})
	if err != nil {
		return nil, err
	}
	detail := &TagDetail{Tag: tag}

	err = svc.db.NewSelect().
		Model(&detail.Works).
		Join("JOIN work_tags AS wtg ON wtg.work_id = w.id").
		Where("wtg.tag_id = ?", id).
		OrderExpr("w.author_str, w.title").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	err = svc.db.NewSelect().
		Model(&detail.Shorts).
		Join("JOIN story_tags AS stg ON stg.shortstory_id = s.id").
		Where("stg.tag_id = ?", id).
		OrderExpr("s.author_str, s.title").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	err = svc.db.NewSelect().
		Model(&detail.Articles).
		Join("JOIN article_tags AS atg ON atg.article_id = a.id").
		Where("atg.tag_id = ?", id).
		Order("a.title").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	err = svc.db.NewSelect().
		Model(&detail.Issues).
		Relation("Magazine").
		Join("JOIN issue_tags AS itg ON itg.issue_id = i.id").
		Where("itg.tag_id = ?", id).
		OrderExpr("i.year, i.number").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	err = svc.db.NewSelect().
		Model(&detail.People).
		Join("JOIN person_tags AS ptg ON ptg.person_id = p.id").
		Where("ptg.tag_id = ?", id).
		Order("p.name").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return detail, nil
}

// ListTags returns tags ordered by name with their usage counts.
func (svc *Service) ListTags(ctx context.Context, opts ListTagsOptions) ([]*TagWithCounts, error) {
	var rows []*TagWithCounts

	q := svc.db.
		NewSelect().
		Model((*models.Tag)(nil)).
		Column("t.id", "t.name", "t.description", "t.type_id").
		ColumnExpr("(SELECT COUNT(*) FROM work_tags AS wtg WHERE wtg.tag_id = t.id) AS work_count").
		ColumnExpr("(SELECT COUNT(*) FROM story_tags AS stg WHERE stg.tag_id = t.id) AS short_count").
		ColumnExpr("(SELECT COUNT(*) FROM article_tags AS atg WHERE atg.tag_id = t.id) AS article_count").
		Order("t.name ASC")

	if opts.Search != nil && *opts.Search != "" {
		q = q.Where("t.name GLOB ?", database.GlobContains(*opts.Search))
	}
	if opts.TypeID != nil {
		q = q.Where("t.type_id = ?", *opts.TypeID)
	}

	if err := q.Scan(ctx, &rows); err != nil {
		return nil, errors.WithStack(err)
	}
	return rows, nil
}

// ListTagsQuick returns every tag without counts.
func (svc *Service) ListTagsQuick(ctx context.Context) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := svc.db.NewSelect().Model(&tags).Order("t.name ASC").Scan(ctx)
	return tags, errors.WithStack(err)
}

func (svc *Service) ListTagTypes(ctx context.Context) ([]*models.TagType, error) {
	var types []*models.TagType
	err := svc.db.NewSelect().Model(&types).Order("tt.id").Scan(ctx)
	return types, errors.WithStack(err)
}

// UpdateTag applies payload to the tag and logs the changed fields.
func (svc *Service) UpdateTag(ctx context.Context, payload UpdateTagPayload) (*models.Tag, error) {
	var tag *models.Tag
	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		tag = &models.Tag{}
		err := tx.NewSelect().Model(tag).Where("t.id = ?", payload.ID).Scan(ctx)
		if err != nil {
			return errcodes.FromDB(err, "Asiasana")
		}
		oldName := tag.Name

		tr := &changes.Tracker{}
		changes.Set(tr, "name", "Nimi", &tag.Name, payload.Name)
		changes.SetPtr(tr, "description", "Kuvaus", &tag.Description, payload.Description)
		changes.SetPtr(tr, "type_id", "Tyyppi", &tag.TypeID, payload.TypeID)
		if !tr.Changed() {
			return nil
		}
		if tag.Name != oldName {
			if err := checkUniqueName(ctx, tx, tag.Name, tag.ID); err != nil {
				return err
			}
		}

		_, err = tx.NewUpdate().
			Model(tag).
			Column(tr.Columns()...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errcodes.FromDB(err, "Asiasana")
		}
		return changes.LogUpdate(ctx, tx, changes.TableTag, tag.ID, tag.Name, tr)
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag deletes an unused tag. A tag still attached to anything is
// UNPROCESSABLE_ENTITY.
func (svc *Service) DeleteTag(ctx context.Context, tagID int) error {
	return database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		tag := &models.Tag{}
		if err := tx.NewSelect().Model(tag).Where("t.id = ?", tagID).Scan(ctx); err != nil {
			return errcodes.FromDB(err, "Asiasana")
		}
		for _, link := range links {
			used, err := tx.NewSelect().TableExpr(link.table).Where("tag_id = ?", tagID).Exists(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
			if used {
				return errcodes.UnprocessableEntity("Asiasanaa käytetään, sitä ei voi poistaa.")
			}
		}
		if _, err := tx.NewDelete().Model((*models.Tag)(nil)).Where("id = ?", tagID).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		return changes.LogDelete(ctx, tx, changes.TableTag, tag.ID, tag.Name)
	})
}

// MergeTags moves every association of sourceID onto targetID and deletes
// the source tag.
func (svc *Service) MergeTags(ctx context.Context, targetID, sourceID int) error {
	if targetID == sourceID {
		return errcodes.BadRequest("Asiasanaa ei voi yhdistää itseensä.")
	}
	return database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		var source, target models.Tag
		if err := tx.NewSelect().Model(&source).Where("t.id = ?", sourceID).Scan(ctx); err != nil {
			return errcodes.FromDB(err, "Asiasana")
		}
		if err := tx.NewSelect().Model(&target).Where("t.id = ?", targetID).Scan(ctx); err != nil {
			return errcodes.FromDB(err, "Asiasana")
		}

		for _, link := range links {
			// Rows already carrying the target would collide with the
			// primary key, so only the others move.
			_, err := tx.NewRaw(`
				UPDATE `+link.table+`
				SET tag_id = ?
				WHERE tag_id = ?
				AND `+link.column+` NOT IN (SELECT `+link.column+` FROM `+link.table+` WHERE tag_id = ?)
			`, targetID, sourceID, targetID).Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
			_, err = tx.NewRaw(`DELETE FROM `+link.table+` WHERE tag_id = ?`, sourceID).Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		if _, err := tx.NewDelete().Model((*models.Tag)(nil)).Where("id = ?", sourceID).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		if err := changes.LogDelete(ctx, tx, changes.TableTag, source.ID, source.Name); err != nil {
			return err
		}
		tr := &changes.Tracker{}
		tr.Touch("Yhdistetty", source.Name)
		return changes.LogUpdate(ctx, tx, changes.TableTag, target.ID, target.Name, tr)
	})
}
