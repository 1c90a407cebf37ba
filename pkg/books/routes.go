package books

import (
	"github.com/labstack/echo/v4"
	"github.com/lorenamitrea/LocalLibrary/pkg/auth"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers book routes on the catalog group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware, pageSize int) {
	bookService := NewService(db)

	h := &handler{
		bookService: bookService,
		pageSize:    pageSize,
	}

	canEdit := []echo.MiddlewareFunc{
		authMiddleware.Authenticate,
		authMiddleware.RequirePermission(models.ResourceBookInstances, models.OperationMarkReturned),
	}

	g.GET("/books/", h.list)
	g.GET("/book/:id", h.retrieve)
	g.GET("/book/create/", h.createForm, canEdit...)
	g.POST("/book/create/", h.create, canEdit...)
	g.GET("/book/:id/update/", h.updateForm, canEdit...)
	g.POST("/book/:id/update/", h.update, canEdit...)
	g.GET("/book/:id/delete/", h.deleteConfirm, canEdit...)
	g.POST("/book/:id/delete/", h.deleteBook, canEdit...)
}
