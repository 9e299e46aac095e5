package contributors

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/suomisf/suomisf/pkg/binder"
	"github.com/suomisf/suomisf/pkg/changes"
	"github.com/suomisf/suomisf/pkg/database"
	"github.com/suomisf/suomisf/pkg/envelope"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

// fieldLabel is the audit log field name of contributor changes.
const fieldLabel = "Tekijät"

var logTables = map[string]string{
	models.TargetWork:    changes.TableWork,
	models.TargetEdition: changes.TableEdition,
	models.TargetShort:   changes.TableShort,
	models.TargetIssue:   changes.TableIssue,
}

type handler struct {
	db *bun.DB
}

func (h *handler) roles(c echo.Context) error {
	ctx := c.Request().Context()
	var roles []*models.ContributorRole
	if err := h.db.NewSelect().Model(&roles).Order("cr.id").Scan(ctx); err != nil {
		return errcodes.Storage(ctx, "contributors.roles", err)
	}
	return envelope.List(c, roles)
}

func (h *handler) rolesForTarget(c echo.Context) error {
	ctx := c.Request().Context()
	target := c.Param("target")
	ids := models.RolesFor(target)
	if ids == nil {
		return errcodes.BadRequest("Tuntematon kohde: " + target)
	}
	var roles []*models.ContributorRole
	err := h.db.NewSelect().
		Model(&roles).
		Where("cr.id IN (?)", bun.In(ids)).
		Order("cr.id").
		Scan(ctx)
	if err != nil {
		return errcodes.Storage(ctx, "contributors.roles", err)
	}
	return envelope.List(c, roles)
}

func (h *handler) list(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := binder.PathID(c, "id")
		if err != nil {
			return err
		}
		target := Target{kind, id}
		if err := checkTarget(ctx, h.db, target); err != nil {
			return err
		}
		views, err := List(ctx, h.db, target)
		if err != nil {
			return errcodes.Storage(ctx, "contributors.list", err)
		}
		return envelope.List(c, views)
	}
}

func (h *handler) attach(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := logger.FromContext(ctx)
		id, err := binder.PathID(c, "id")
		if err != nil {
			return err
		}

		params := Contribution{}
		if err := c.Bind(&params); err != nil {
			return errors.WithStack(err)
		}

		target := Target{kind, id}
		err = database.RunInTx(ctx, h.db, func(ctx context.Context, tx bun.Tx) error {
			added, err := Attach(ctx, tx, target, params)
			if err != nil || !added {
				return err
			}
			return logChange(ctx, tx, target, "")
		})
		if err != nil {
			return errcodes.Storage(ctx, "contributors.attach", err)
		}
		log.Info("contributor attached", logger.Data{"target": kind, "id": id, "person_id": params.PersonID, "role_id": params.RoleID})

		views, err := List(ctx, h.db, target)
		if err != nil {
			return errcodes.Storage(ctx, "contributors.list", err)
		}
		return envelope.OK(c, views)
	}
}

func (h *handler) detach(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := logger.FromContext(ctx)
		ids, err := binder.PathIDs(c, "id", "personid", "roleid")
		if err != nil {
			return err
		}

		target := Target{kind, ids[0]}
		err = database.RunInTx(ctx, h.db, func(ctx context.Context, tx bun.Tx) error {
			if err := Detach(ctx, tx, target, ids[1], ids[2]); err != nil {
				return err
			}
			return logChange(ctx, tx, target, strconv.Itoa(ids[1])+"/"+strconv.Itoa(ids[2]))
		})
		if err != nil {
			return errcodes.Storage(ctx, "contributors.detach", err)
		}
		log.Info("contributor detached", logger.Data{"target": kind, "id": ids[0], "person_id": ids[1], "role_id": ids[2]})

		views, err := List(ctx, h.db, target)
		if err != nil {
			return errcodes.Storage(ctx, "contributors.list", err)
		}
		return envelope.OK(c, views)
	}
}

func logChange(ctx context.Context, db bun.IDB, target Target, old string) error {
	name, err := ObjectName(ctx, db, target)
	if err != nil {
		return err
	}
	tr := &changes.Tracker{}
	tr.Touch(fieldLabel, old)
	return changes.LogUpdate(ctx, db, logTables[target.Kind], target.ID, name, tr)
}

// ObjectName returns the display name of target used in audit rows.
func ObjectName(ctx context.Context, db bun.IDB, target Target) (string, error) {
	var (
		name string
		err  error
	)
	switch target.Kind {
	case models.TargetWork:
		err = db.NewSelect().Model((*models.Work)(nil)).Column("w.title").Where("w.id = ?", target.ID).Scan(ctx, &name)
	case models.TargetEdition:
		err = db.NewSelect().Model((*models.Edition)(nil)).Column("e.title").Where("e.id = ?", target.ID).Scan(ctx, &name)
	case models.TargetShort:
		err = db.NewSelect().Model((*models.ShortStory)(nil)).Column("s.title").Where("s.id = ?", target.ID).Scan(ctx, &name)
	case models.TargetIssue:
		issue := &models.Issue{}
		err = db.NewSelect().Model(issue).Relation("Magazine").Where("i.id = ?", target.ID).Scan(ctx)
		if err == nil {
			name = IssueName(issue)
		}
	}
	if errors.Is(err, sql.ErrNoRows) {
		return "", errcodes.NotFound(targetResources[target.Kind])
	}
	return name, errors.WithStack(err)
}

// IssueName renders an issue as "Magazine 1/2000", falling back to the
// issue title or id.
func IssueName(issue *models.Issue) string {
	var b strings.Builder
	if issue.Magazine != nil {
		b.WriteString(issue.Magazine.Name)
	}
	switch {
	case issue.CoverNumber != nil:
		b.WriteString(" " + *issue.CoverNumber)
	case issue.Number != nil && issue.Year != nil:
		b.WriteString(" " + strconv.Itoa(*issue.Number) + "/" + strconv.Itoa(*issue.Year))
	case issue.Title != nil:
		b.WriteString(" " + *issue.Title)
	default:
		b.WriteString(" #" + strconv.Itoa(issue.ID))
	}
	return strings.TrimSpace(b.String())
}
