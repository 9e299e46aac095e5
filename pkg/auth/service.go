package auth

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/config"
	"github.com/suomisf/suomisf/pkg/database"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing.
	BcryptCost = 12

	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

const loginFailed = "Väärä käyttäjätunnus tai salasana."

// Claims is the payload of both access and refresh tokens. The subject is
// the user id.
type Claims struct {
	IsAdministrator bool   `json:"is_administrator"`
	Role            string `json:"role"`
	Name            string `json:"name"`
	TokenType       string `json:"token_type"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (int, error) {
	id, err := strconv.Atoi(c.Subject)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return id, nil
}

// Tokens is the login and refresh response. It is returned without the
// response envelope.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         string `json:"user"`
	Role         string `json:"role"`
	ID           int    `json:"id"`
}

// Service handles authentication operations.
type Service struct {
	db            *bun.DB
	jwtSecret     []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

// NewService creates a new auth service.
func NewService(db *bun.DB, cfg *config.Config) *Service {
	return &Service{
		db:            db,
		jwtSecret:     []byte(cfg.JWTSecretKey),
		accessExpiry:  cfg.AccessTokenExpiry,
		refreshExpiry: cfg.RefreshTokenExpiry,
		now:           time.Now,
	}
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(hash), nil
}

// Authenticate validates credentials and returns the user if valid.
func (s *Service) Authenticate(ctx context.Context, name, password string) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Where("u.name = ?", name).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.Unauthorized(loginFailed)
		}
		return nil, errors.WithStack(err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, errcodes.Unauthorized(loginFailed)
	}

	return user, nil
}

// Register creates a regular user.
func (s *Service) Register(ctx context.Context, name, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         name,
		PasswordHash: hash,
	}
	_, err = s.db.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errcodes.Conflict("Käyttäjä " + name)
		}
		return nil, errors.WithStack(err)
	}
	return user, nil
}

// GetUserByID loads a user.
func (s *Service) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Käyttäjä")
		}
		return nil, errors.WithStack(err)
	}
	return user, nil
}

// IssueTokens signs a fresh access and refresh token pair for user.
func (s *Service) IssueTokens(user *models.User) (*Tokens, error) {
	access, err := s.sign(user, TokenTypeAccess, s.accessExpiry)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user, TokenTypeRefresh, s.refreshExpiry)
	if err != nil {
		return nil, err
	}
	return &Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user.Name,
		Role:         user.RoleName(),
		ID:           user.ID,
	}, nil
}

func (s *Service) sign(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		IsAdministrator: user.IsAdministrator(),
		Role:            user.RoleName(),
		Name:            user.Name,
		TokenType:       tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return signedToken, nil
}

// ValidateToken validates a token of the expected type and returns its
// claims.
func (s *Service) ValidateToken(tokenString, tokenType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.TokenType != tokenType {
		return nil, errors.Errorf("expected %s token, got %q", tokenType, claims.TokenType)
	}

	return claims, nil
}

// Refresh validates a refresh token and reissues both tokens with the
// claims of the current user row.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	claims, err := s.ValidateToken(refreshToken, TokenTypeRefresh)
	if err != nil {
		return nil, errcodes.Unauthorized("Virheellinen tai vanhentunut tunniste.")
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, errcodes.Unauthorized("Virheellinen tai vanhentunut tunniste.")
	}
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, errcodes.Unauthorized("Käyttäjää ei löytynyt.")
	}
	return s.IssueTokens(user)
}
