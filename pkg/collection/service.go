// Package collection keeps the personal collections of users: the editions
// they own and the ones on their wishlist. Both live in user_books and a
// wishlist row is told apart by its condition.
package collection

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/database"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

const ownedOnly = "(ub.condition_id IS NULL OR ub.condition_id != ?)"

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// authorize lets users touch their own rows. Administrators may edit anyone.
func authorize(actor *models.User, userID int) error {
	if actor == nil {
		return errcodes.Unauthorized("Kirjautuminen vaaditaan.")
	}
	if actor.ID != userID && !actor.IsAdministrator() {
		return errcodes.Forbidden("Toisen käyttäjän kokoelman muokkaus")
	}
	return nil
}

func (svc *Service) requireEdition(ctx context.Context, id int) error {
	exists, err := svc.db.NewSelect().Model((*models.Edition)(nil)).Where("e.id = ?", id).Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.NotFound("Painos")
	}
	return nil
}

func (svc *Service) requireUser(ctx context.Context, id int) error {
	exists, err := svc.db.NewSelect().Model((*models.User)(nil)).Where("u.id = ?", id).Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.NotFound("Käyttäjä")
	}
	return nil
}

func (svc *Service) row(ctx context.Context, db bun.IDB, editionID, userID int) (*models.UserBook, error) {
	ub := &models.UserBook{}
	err := db.NewSelect().
		Model(ub).
		Where("ub.edition_id = ? AND ub.user_id = ?", editionID, userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return ub, nil
}

// Owners lists who owns an edition, by user name.
func (svc *Service) Owners(ctx context.Context, editionID int) ([]*models.UserBook, error) {
	if err := svc.requireEdition(ctx, editionID); err != nil {
		return nil, err
	}
	var rows []*models.UserBook
	err := svc.db.NewSelect().
		Model(&rows).
		Relation("User").
		Relation("Condition").
		Where("ub.edition_id = ?", editionID).
		Where(ownedOnly, models.WishlistConditionID).
		OrderExpr(`"user"."name" ASC`).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return rows, nil
}

// Owner returns the ownership record of one user for one edition.
func (svc *Service) Owner(ctx context.Context, editionID, userID int) (*models.UserBook, error) {
	ub := &models.UserBook{}
	err := svc.db.NewSelect().
		Model(ub).
		Relation("User").
		Relation("Condition").
		Where("ub.edition_id = ? AND ub.user_id = ?", editionID, userID).
		Where(ownedOnly, models.WishlistConditionID).
		Scan(ctx)
	if err != nil {
		return nil, errcodes.FromDB(err, "Omistustieto")
	}
	return ub, nil
}

func (svc *Service) editionsOf(ctx context.Context, userID int, wishlist bool) ([]*models.UserBook, error) {
	if err := svc.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	var rows []*models.UserBook
	q := svc.db.NewSelect().
		Model(&rows).
		Relation("Edition").
		Relation("Edition.Publisher").
		Relation("Condition").
		Where("ub.user_id = ?", userID)
	if wishlist {
		q = q.Where("ub.condition_id = ?", models.WishlistConditionID)
	} else {
		q = q.Where(ownedOnly, models.WishlistConditionID)
	}
	if err := q.OrderExpr(`"edition"."title" ASC, "edition"."pubyear" ASC`).Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return rows, nil
}

// Owned lists the editions a user owns.
func (svc *Service) Owned(ctx context.Context, userID int) ([]*models.UserBook, error) {
	return svc.editionsOf(ctx, userID, false)
}

// AddOwner records that a user owns an edition. A wishlist row for the same
// pair turns into an ownership row.
func (svc *Service) AddOwner(ctx context.Context, actor *models.User, p OwnerPayload) (*models.UserBook, error) {
	if err := authorize(actor, p.UserID); err != nil {
		return nil, err
	}
	if err := svc.requireEdition(ctx, p.EditionID); err != nil {
		return nil, err
	}
	if err := svc.requireUser(ctx, p.UserID); err != nil {
		return nil, err
	}

	var ub *models.UserBook
	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		existing, err := svc.row(ctx, tx, p.EditionID, p.UserID)
		if err != nil {
			return err
		}
		if existing != nil && !existing.Wishlisted() {
			return errcodes.Conflict("Omistustieto")
		}

		now := time.Now()
		ub = &models.UserBook{
			UserID:      p.UserID,
			EditionID:   p.EditionID,
			ConditionID: p.ConditionID,
			Description: p.Description,
			Price:       p.Price,
			Added:       &now,
		}
		if existing != nil {
			_, err = tx.NewUpdate().Model(ub).WherePK().Exec(ctx)
		} else {
			_, err = tx.NewInsert().Model(ub).Exec(ctx)
		}
		return errcodes.FromDB(err, "Omistustieto")
	})
	if err != nil {
		return nil, err
	}
	return ub, nil
}

// UpdateOwner replaces condition, description and price of an owned edition.
func (svc *Service) UpdateOwner(ctx context.Context, actor *models.User, p OwnerPayload) (*models.UserBook, error) {
	if err := authorize(actor, p.UserID); err != nil {
		return nil, err
	}
	existing, err := svc.row(ctx, svc.db, p.EditionID, p.UserID)
	if err != nil {
		return nil, err
	}
	if existing == nil || existing.Wishlisted() {
		return nil, errcodes.NotFound("Omistustieto")
	}

	existing.ConditionID = p.ConditionID
	existing.Description = p.Description
	existing.Price = p.Price
	_, err = svc.db.NewUpdate().
		Model(existing).
		Column("condition_id", "description", "price").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errcodes.FromDB(err, "Omistustieto")
	}
	return existing, nil
}

// RemoveOwner drops an ownership record. Wishlist rows are not touched.
func (svc *Service) RemoveOwner(ctx context.Context, actor *models.User, editionID, userID int) error {
	if err := authorize(actor, userID); err != nil {
		return err
	}
	res, err := svc.db.NewDelete().
		Model((*models.UserBook)(nil)).
		Where("edition_id = ? AND user_id = ?", editionID, userID).
		Where("(condition_id IS NULL OR condition_id != ?)", models.WishlistConditionID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Omistustieto")
	}
	return nil
}

// Wishers lists the users that have an edition on their wishlist.
func (svc *Service) Wishers(ctx context.Context, editionID int) ([]*models.User, error) {
	if err := svc.requireEdition(ctx, editionID); err != nil {
		return nil, err
	}
	var users []*models.User
	err := svc.db.NewSelect().
		Model(&users).
		Join("JOIN user_books AS ub ON ub.user_id = u.id").
		Where("ub.edition_id = ?", editionID).
		Where("ub.condition_id = ?", models.WishlistConditionID).
		Order("u.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return users, nil
}

func (svc *Service) Wishlisted(ctx context.Context, editionID, userID int) (bool, error) {
	ub, err := svc.row(ctx, svc.db, editionID, userID)
	if err != nil {
		return false, err
	}
	return ub != nil && ub.Wishlisted(), nil
}

// Wishlist lists the editions a user wishes for.
func (svc *Service) Wishlist(ctx context.Context, userID int) ([]*models.UserBook, error) {
	return svc.editionsOf(ctx, userID, true)
}

// AddToWishlist puts an edition on a user's wishlist. Adding it twice is a
// no-op; an edition the user already owns can't be wished for.
func (svc *Service) AddToWishlist(ctx context.Context, actor *models.User, editionID, userID int) error {
	if err := authorize(actor, userID); err != nil {
		return err
	}
	if err := svc.requireEdition(ctx, editionID); err != nil {
		return err
	}
	if err := svc.requireUser(ctx, userID); err != nil {
		return err
	}

	existing, err := svc.row(ctx, svc.db, editionID, userID)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Wishlisted() {
			return nil
		}
		return errcodes.UnprocessableEntity("Painos on jo kokoelmassa.")
	}

	now := time.Now()
	condition := models.WishlistConditionID
	_, err = svc.db.NewInsert().Model(&models.UserBook{
		UserID:      userID,
		EditionID:   editionID,
		ConditionID: &condition,
		Added:       &now,
	}).Exec(ctx)
	return errcodes.FromDB(err, "Toive")
}

func (svc *Service) RemoveFromWishlist(ctx context.Context, actor *models.User, editionID, userID int) error {
	if err := authorize(actor, userID); err != nil {
		return err
	}
	res, err := svc.db.NewDelete().
		Model((*models.UserBook)(nil)).
		Where("edition_id = ? AND user_id = ? AND condition_id = ?", editionID, userID, models.WishlistConditionID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Toive")
	}
	return nil
}
