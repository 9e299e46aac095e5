package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/suomisf/suomisf/pkg/articles"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/suomisf/suomisf/pkg/awards"
	"github.com/suomisf/suomisf/pkg/binder"
	"github.com/suomisf/suomisf/pkg/bookseries"
	"github.com/suomisf/suomisf/pkg/changes"
	"github.com/suomisf/suomisf/pkg/collection"
	"github.com/suomisf/suomisf/pkg/config"
	"github.com/suomisf/suomisf/pkg/contributors"
	"github.com/suomisf/suomisf/pkg/editions"
	"github.com/suomisf/suomisf/pkg/errcodes"
	"github.com/suomisf/suomisf/pkg/filter"
	"github.com/suomisf/suomisf/pkg/frontpage"
	"github.com/suomisf/suomisf/pkg/issues"
	"github.com/suomisf/suomisf/pkg/latest"
	"github.com/suomisf/suomisf/pkg/lookups"
	"github.com/suomisf/suomisf/pkg/magazines"
	"github.com/suomisf/suomisf/pkg/people"
	"github.com/suomisf/suomisf/pkg/publishers"
	"github.com/suomisf/suomisf/pkg/pubseries"
	"github.com/suomisf/suomisf/pkg/search"
	"github.com/suomisf/suomisf/pkg/shorts"
	"github.com/suomisf/suomisf/pkg/stats"
	"github.com/suomisf/suomisf/pkg/tags"
	"github.com/suomisf/suomisf/pkg/testutils"
	"github.com/suomisf/suomisf/pkg/users"
	"github.com/suomisf/suomisf/pkg/works"
	"github.com/uptrace/bun"
)

// New builds the HTTP server with every API route mounted under /api.
func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e, err := NewEcho(cfg, db)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

// NewEcho returns the configured echo instance. Tests and the snapshot
// harness drive it in-process.
func NewEcho(cfg *config.Config, db *bun.DB) (*echo.Echo, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	api := e.Group("/api")

	// Register auth routes and get the auth service
	authService := auth.RegisterRoutes(api, db, cfg)
	authMiddleware := auth.NewMiddleware(authService)

	registerCatalogRoutes(api, db, authMiddleware)
	registerReadOnlyRoutes(api, db)
	users.RegisterRoutes(api, db, authMiddleware)
	collection.RegisterRoutes(api, db, authMiddleware)

	if cfg.Environment == config.EnvironmentTest {
		testutils.RegisterRoutes(e, db)
	}

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

// registerCatalogRoutes mounts the entity packages. Reads are public and
// writes require an administrator.
func registerCatalogRoutes(api *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	works.RegisterRoutes(api, db, authMiddleware)
	editions.RegisterRoutes(api, db, authMiddleware)
	shorts.RegisterRoutes(api, db, authMiddleware)
	contributors.RegisterRoutes(api, db, authMiddleware)
	people.RegisterRoutes(api, db, authMiddleware)
	publishers.RegisterRoutes(api, db, authMiddleware)
	pubseries.RegisterRoutes(api, db, authMiddleware)
	bookseries.RegisterRoutes(api, db, authMiddleware)
	magazines.RegisterRoutes(api, db, authMiddleware)
	issues.RegisterRoutes(api, db, authMiddleware)
	awards.RegisterRoutes(api, db, authMiddleware)
	tags.RegisterRoutes(api, db, authMiddleware)
}

func registerReadOnlyRoutes(api *echo.Group, db *bun.DB) {
	articles.RegisterRoutes(api, db)
	lookups.RegisterRoutes(api, db)
	changes.RegisterRoutes(api, db)
	filter.RegisterRoutes(api, db)
	search.RegisterRoutes(api, db)
	latest.RegisterRoutes(api, db)
	frontpage.RegisterRoutes(api, db)
	stats.RegisterRoutes(api, db)
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Sivu")
}
