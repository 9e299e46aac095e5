package people

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/suomisf/suomisf/pkg/binder"
	"github.com/suomisf/suomisf/pkg/envelope"
	"github.com/suomisf/suomisf/pkg/errcodes"
)

type handler struct {
	personService *Service
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	key, err := binder.PathText(c, "id")
	if err != nil {
		return err
	}
	id, err := h.personService.ResolvePerson(ctx, key)
	if err != nil {
		return errcodes.Storage(ctx, "people.retrieve", err)
	}
	person, err := h.personService.RetrievePerson(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "people.retrieve", err)
	}
	return envelope.OK(c, person)
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListPeopleQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	people, err := h.personService.ListPeople(ctx, ListPeopleOptions{
		Letter:        params.Letter,
		NationalityID: params.Nationality,
		Search:        params.Search,
		Limit:         params.Rows,
		Offset:        params.Rows * params.Page,
		SortField:     params.SortField,
		Descending:    params.SortOrder == -1,
	})
	if err != nil {
		return errcodes.Storage(ctx, "people.list", err)
	}
	return envelope.OK(c, people)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := CreatePersonPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	person, err := h.personService.CreatePerson(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "people.create", err)
	}
	log.Info("person created", logger.Data{"person_id": person.ID})
	return envelope.Created(c, person.ID)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdatePersonPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	person, err := h.personService.UpdatePerson(ctx, params)
	if err != nil {
		return errcodes.Storage(ctx, "people.update", err)
	}
	return envelope.OK(c, person.ID)
}

func (h *handler) deletePerson(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.personService.DeletePerson(ctx, id); err != nil {
		return errcodes.Storage(ctx, "people.delete", err)
	}
	log.Info("person deleted", logger.Data{"person_id": id})
	return envelope.OK(c, id)
}

func (h *handler) works(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	params := WorksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	works, err := h.personService.Works(ctx, id, params.Transitive)
	if err != nil {
		return errcodes.Storage(ctx, "people.works", err)
	}
	return envelope.List(c, works)
}

func (h *handler) shorts(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	shorts, err := h.personService.Shorts(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "people.shorts", err)
	}
	return envelope.List(c, shorts)
}

func (h *handler) articles(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	articles, err := h.personService.Articles(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "people.articles", err)
	}
	return envelope.List(c, articles)
}

func (h *handler) chiefEditor(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	issues, err := h.personService.ChiefEditor(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "people.chiefeditor", err)
	}
	return envelope.List(c, issues)
}

func (h *handler) issueContributions(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	contributions, err := h.personService.IssueContributions(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "people.issue_contributions", err)
	}
	return envelope.List(c, contributions)
}

func (h *handler) aliases(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := binder.PathID(c, "id")
	if err != nil {
		return err
	}

	aliases, err := h.personService.Aliases(ctx, id)
	if err != nil {
		return errcodes.Storage(ctx, "people.aliases", err)
	}
	return envelope.List(c, aliases)
}

func (h *handler) addAlias(c echo.Context) error {
	ctx := c.Request().Context()
	ids, err := binder.PathIDs(c, "id", "aliasid")
	if err != nil {
		return err
	}

	if err := h.personService.AddAlias(ctx, ids[0], ids[1]); err != nil {
		return errcodes.Storage(ctx, "people.add_alias", err)
	}
	return envelope.OK(c, ids[1])
}

func (h *handler) removeAlias(c echo.Context) error {
	ctx := c.Request().Context()
	ids, err := binder.PathIDs(c, "id", "aliasid")
	if err != nil {
		return err
	}

	if err := h.personService.RemoveAlias(ctx, ids[0], ids[1]); err != nil {
		return errcodes.Storage(ctx, "people.remove_alias", err)
	}
	return envelope.OK(c, ids[1])
}
