package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lorenamitrea/LocalLibrary/pkg/auth"
	"github.com/lorenamitrea/LocalLibrary/pkg/authors"
	"github.com/lorenamitrea/LocalLibrary/pkg/binder"
	"github.com/lorenamitrea/LocalLibrary/pkg/bookinstances"
	"github.com/lorenamitrea/LocalLibrary/pkg/books"
	"github.com/lorenamitrea/LocalLibrary/pkg/catalog"
	"github.com/lorenamitrea/LocalLibrary/pkg/config"
	"github.com/lorenamitrea/LocalLibrary/pkg/database"
	"github.com/lorenamitrea/LocalLibrary/pkg/errcodes"
	"github.com/lorenamitrea/LocalLibrary/pkg/genres"
	"github.com/lorenamitrea/LocalLibrary/pkg/languages"
	"github.com/lorenamitrea/LocalLibrary/pkg/views"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

// Options override parts of the server, mostly for tests.
type Options struct {
	// Renderer defaults to the embedded templates.
	Renderer echo.Renderer
	// Clock decides what today is for loans. Defaults to time.Now.
	Clock func() time.Time
}

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e, err := NewEcho(cfg, db, Options{})
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

// NewEcho wires every route of the site.
func NewEcho(cfg *config.Config, db *bun.DB, opts Options) (*echo.Echo, error) {
	e := echo.New()
	// Forwarding headers are only honoured from proxies on private networks.
	e.IPExtractor = echo.ExtractIPDirect()
	if cfg.TrustProxyHeaders {
		e.IPExtractor = echo.ExtractIPFromXFFHeader()
	}

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	if opts.Renderer == nil {
		renderer, err := views.New()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		opts.Renderer = renderer
	}
	e.Renderer = opts.Renderer

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.Secure())
	e.Use(middleware.BodyLimit("1M"))
	if cfg.DatabaseDebug {
		e.Use(queryLogging)
	}

	health.RegisterRoutes(e)

	authMiddleware := auth.RegisterRoutes(e, db, cfg)
	// Every page shows who is logged in.
	e.Use(authMiddleware.AuthenticateOptional)

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/catalog/")
	})

	g := e.Group("/catalog")
	catalog.RegisterRoutesWithGroup(g, db)
	books.RegisterRoutesWithGroup(g, db, authMiddleware, cfg.PageSize)
	authors.RegisterRoutesWithGroup(g, db, authMiddleware, cfg.PageSize)
	bookinstances.RegisterRoutesWithGroup(g, db, authMiddleware, cfg.PageSize, opts.Clock)
	genres.RegisterRoutesWithGroup(g, db, authMiddleware)
	languages.RegisterRoutesWithGroup(g, db, authMiddleware)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler(auth.LoginPath).Handle

	return e, nil
}

// queryLogging logs the SQL run while serving each request.
func queryLogging(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		c.SetRequest(req.WithContext(database.WithLogging(req.Context())))
		return next(c)
	}
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
