package users

import (
	"context"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

// Service handles user operations.
type Service struct {
	db *bun.DB
}

// NewService creates a new users service.
func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// GenreCount is the number of owned works of one genre.
type GenreCount struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Abbr  string `json:"abbr"`
	Count int    `json:"count"`
}

// Retrieve gets a user by ID.
func (s *Service) Retrieve(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, errcodes.FromDB(err, "Käyttäjä")
	}
	return user, nil
}

// ListOptions contains options for listing users.
type ListOptions struct {
	Limit  int
	Offset int
}

// List returns a page of users ordered by id.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*models.User, error) {
	users := []*models.User{}

	query := s.db.NewSelect().
		Model(&users).
		Order("u.id ASC")

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return users, nil
}

// Update applies a profile change made by actor. Users may edit themselves;
// administrators may edit anyone and grant or revoke the admin flag.
func (s *Service) Update(ctx context.Context, actor *models.User, id int, p UpdateUserPayload) (*models.User, error) {
	if actor.ID != id && !actor.IsAdministrator() {
		return nil, errcodes.Forbidden("Toisen käyttäjän muokkaus")
	}
	if p.IsAdmin != nil && !actor.IsAdministrator() {
		return nil, errcodes.Forbidden("Ylläpito-oikeuden muuttaminen")
	}

	user, err := s.Retrieve(ctx, id)
	if err != nil {
		return nil, err
	}

	columns := []string{}
	if p.Name != nil && *p.Name != user.Name {
		user.Name = *p.Name
		columns = append(columns, "name")
	}
	if p.LanguageID != nil {
		exists, err := s.db.NewSelect().Model((*models.Language)(nil)).Where("id = ?", *p.LanguageID).Exists(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if !exists {
			return nil, errcodes.NotFound("Kieli")
		}
		user.LanguageID = p.LanguageID
		columns = append(columns, "language")
	}
	if p.IsAdmin != nil && *p.IsAdmin != user.IsAdmin {
		user.IsAdmin = *p.IsAdmin
		columns = append(columns, "is_admin")
	}
	if len(columns) == 0 {
		return user, nil
	}

	_, err = s.db.NewUpdate().
		Model(user).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errcodes.FromDB(err, "Käyttäjä "+user.Name)
	}
	return user, nil
}

// ResetPassword changes a user's password.
func (s *Service) ResetPassword(ctx context.Context, userID int, newPassword string) error {
	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	res, err := s.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("password_hash = ?", hashedPassword).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Käyttäjä")
	}
	return nil
}

// VerifyPassword checks if the password is correct for a user.
func (s *Service) VerifyPassword(ctx context.Context, userID int, password string) (bool, error) {
	user, err := s.Retrieve(ctx, userID)
	if err != nil {
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil, nil
}

// GenreCounts counts the works a user owns per genre. Each work counts once
// however many of its editions the user has, and wishes are left out.
func (s *Service) GenreCounts(ctx context.Context, userID int) ([]GenreCount, error) {
	if _, err := s.Retrieve(ctx, userID); err != nil {
		return nil, err
	}

	var counts []GenreCount
	err := s.db.NewSelect().
		TableExpr("genres AS g").
		ColumnExpr("g.id, g.name, g.abbr").
		ColumnExpr("COUNT(DISTINCT wg.work_id) AS count").
		Join("JOIN work_genres AS wg ON wg.genre_id = g.id").
		Join("JOIN parts AS pt ON pt.work_id = wg.work_id AND pt.shortstory_id IS NULL").
		Join("JOIN user_books AS ub ON ub.edition_id = pt.edition_id").
		Where("ub.user_id = ?", userID).
		Where("(ub.condition_id IS NULL OR ub.condition_id != ?)", models.WishlistConditionID).
		GroupExpr("g.id, g.name, g.abbr").
		OrderExpr("count DESC, g.id ASC").
		Scan(ctx, &counts)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return counts, nil
}
