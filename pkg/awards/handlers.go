package awards

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/suomisf/suomisf/pkg/binder"
	"github.com/suomisf/suomisf/pkg/envelope"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/models"
)

type handler struct {
	awardService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	awards, err := h.awardService.ListAwards(ctx)
	if err != nil {
		return errcodes.Storage(ctx, "awards.list", err)
	}
	return envelope.List(c, awards)
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	award, err := h.awardService.RetrieveAward(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "awards.retrieve", err)
	}
	return envelope.OK(c, award)
}

func pathCategoryType(c echo.Context, name string) (int, error) {
	t, ok := CategoryType(c.Param(name))
	if !ok {
		return 0, errcodes.BadRequest(fmt.Sprintf("Tuntematon palkintotyyppi %q.", c.Param(name)))
	}
	return t, nil
}

func (h *handler) byType(c echo.Context) error {
	ctx := c.Request().Context()
	t, err := pathCategoryType(c, "type")
	if err != nil {
		return err
	}

	awards, err := h.awardService.AwardsForType(ctx, t)
	if err != nil {
		return errcodes.Storage(ctx, "awards.by_type", err)
	}
	return envelope.List(c, awards)
}

// categories serves both the categories of one award (numeric parameter)
// and the categories of one target type.
func (h *handler) categories(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		categories []*models.AwardCategory
		err        error
	)
	if _, convErr := strconv.Atoi(c.Param("key")); convErr == nil {
		id, err := binder.PathID(c, "key")
		if err != nil {
			return err
		}
		categories, err = h.awardService.CategoriesForAward(ctx, id)
		if err != nil {
			return errcodes.Storage(ctx, "awards.categories", err)
		}
		return envelope.List(c, categories)
	}

	t, err := pathCategoryType(c, "key")
	if err != nil {
		return err
	}
	categories, err = h.awardService.CategoriesForType(ctx, t)
	if err != nil {
		return errcodes.Storage(ctx, "awards.categories", err)
	}
	return envelope.List(c, categories)
}

func (h *handler) filter(c echo.Context) error {
	ctx := c.Request().Context()
	pattern, err := binder.PathPattern(c, "pattern")
	if err != nil {
		return err
	}
	if len([]rune(pattern)) < 2 {
		return envelope.List(c, []*models.Award{})
	}

	awards, err := h.awardService.FilterAwards(ctx, pattern)
	if err != nil {
		return errcodes.Storage(ctx, "awards.filter", err)
	}
	return envelope.List(c, awards)
}

func (h *handler) awardedTo(kind models.AwardTargetKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := binder.PathID(c, "id")
		if err != nil {
			return err
		}

		rows, err := h.awardService.AwardedTo(ctx, models.AwardTarget{Kind: kind, ID: id})
		if err != nil {
			return errcodes.Storage(ctx, "awards.awarded", err)
		}
		return envelope.List(c, rows)
	}
}

func (h *handler) personAwards(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	rows, err := h.awardService.PersonAwards(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "awards.person", err)
	}
	return envelope.List(c, rows)
}

func (h *handler) saveWorkAwards(c echo.Context) error {
	ctx := c.Request().Context()

	params := SaveWorkAwardsPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	target := models.AwardTarget{Kind: models.AwardTargetWork, ID: params.WorkID}
	if err := h.awardService.ReplaceAwards(ctx, target, params.Awards); err != nil {
		return errcodes.Storage(ctx, "awards.save_work", err)
	}
	return envelope.OK(c, params.WorkID)
}

func (h *handler) savePersonAwards(c echo.Context) error {
	ctx := c.Request().Context()

	params := SavePersonAwardsPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	target := models.AwardTarget{Kind: models.AwardTargetPerson, ID: params.PersonID}
	if err := h.awardService.ReplaceAwards(ctx, target, params.Awards); err != nil {
		return errcodes.Storage(ctx, "awards.save_person", err)
	}
	return envelope.OK(c, params.PersonID)
}

func (h *handler) createAwarded(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := CreateAwardedPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	row, err := h.awardService.CreateAwarded(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "awards.create_awarded", err)
	}
	log.Info("award win added", logger.Data{"awarded_id": row.ID, "award_id": row.AwardID})
	return envelope.Created(c, row.ID)
}
