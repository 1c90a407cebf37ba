package bookinstances

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lorenamitrea/LocalLibrary/pkg/auth"
	"github.com/lorenamitrea/LocalLibrary/pkg/books"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/lorenamitrea/LocalLibrary/pkg/renewal"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers loan routes on the catalog group. clock
// decides what "today" is for due dates; nil means time.Now.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware, pageSize int, clock func() time.Time) {
	if clock == nil {
		clock = time.Now
	}
	instanceService := NewService(db)

	h := &handler{
		instanceService: instanceService,
		bookService:     books.NewService(db),
		workflow:        renewal.NewWorkflow(instanceService, clock),
		clock:           clock,
		pageSize:        pageSize,
	}

	canMarkReturned := []echo.MiddlewareFunc{
		authMiddleware.Authenticate,
		authMiddleware.RequirePermission(models.ResourceBookInstances, models.OperationMarkReturned),
	}

	g.GET("/mybooks/", h.myBooks, authMiddleware.Authenticate)
	g.GET("/borrowed/", h.borrowed, canMarkReturned...)

	// The workflow checks the caller itself.
	g.GET("/book/:id/renew/", h.renewForm)
	g.POST("/book/:id/renew/", h.renew)

	g.GET("/book/:id/instance/create/", h.createForm, canMarkReturned...)
	g.POST("/book/:id/instance/create/", h.create, canMarkReturned...)
	g.GET("/bookinstance/:id/lend/", h.lendForm, canMarkReturned...)
	g.POST("/bookinstance/:id/lend/", h.lend, canMarkReturned...)
	g.POST("/bookinstance/:id/return/", h.markReturned, canMarkReturned...)
}
