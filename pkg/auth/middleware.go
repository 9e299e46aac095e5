package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/models"
)

// Middleware provides authentication middleware.
type Middleware struct {
	authService *Service
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(authService *Service) *Middleware {
	return &Middleware{
		authService: authService,
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func (m *Middleware) resolve(c echo.Context) (*models.User, *Claims, error) {
	token := bearerToken(c)
	if token == "" {
		return nil, nil, errcodes.Unauthorized("Kirjautuminen vaaditaan.")
	}

	claims, err := m.authService.ValidateToken(token, TokenTypeAccess)
	if err != nil {
		return nil, nil, errcodes.Unauthorized("Virheellinen tai vanhentunut tunniste.")
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, nil, errcodes.Unauthorized("Virheellinen tai vanhentunut tunniste.")
	}

	user, err := m.authService.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return nil, nil, errcodes.Unauthorized("Käyttäjää ei löytynyt.")
	}
	return user, claims, nil
}

func store(c echo.Context, user *models.User, claims *Claims) {
	c.Set("user", user)
	c.Set("claims", claims)
	req := c.Request()
	c.SetRequest(req.WithContext(WithUser(req.Context(), user)))
}

// Authenticate requires a valid access token in the Authorization header and
// stores the user on both the echo context and the request context.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, claims, err := m.resolve(c)
		if err != nil {
			return err
		}
		store(c, user, claims)
		return next(c)
	}
}

// AuthenticateOptional stores the user when a valid token is present and
// lets anonymous requests through.
func (m *Middleware) AuthenticateOptional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if bearerToken(c) != "" {
			if user, claims, err := m.resolve(c); err == nil {
				store(c, user, claims)
			}
		}
		return next(c)
	}
}

// RequireAdmin authenticates the request and rejects tokens without the
// administrator claim. The demo account carries that claim.
func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.Authenticate(func(c echo.Context) error {
		claims, ok := c.Get("claims").(*Claims)
		if !ok || !claims.IsAdministrator {
			return errcodes.Forbidden("Toiminto")
		}
		return next(c)
	})
}
