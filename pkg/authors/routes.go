package authors

import (
	"github.com/labstack/echo/v4"
	"github.com/lorenamitrea/LocalLibrary/pkg/auth"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers author routes on the catalog group.
// Anyone can browse; editing needs the mark returned permission.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware, pageSize int) {
	authorService := NewService(db)

	h := &handler{
		authorService: authorService,
		pageSize:      pageSize,
	}

	canEdit := []echo.MiddlewareFunc{
		authMiddleware.Authenticate,
		authMiddleware.RequirePermission(models.ResourceBookInstances, models.OperationMarkReturned),
	}

	g.GET("/authors/", h.list)
	g.GET("/author/:id", h.retrieve)
	g.GET("/author/create/", h.createForm, canEdit...)
	g.POST("/author/create/", h.create, canEdit...)
	g.GET("/author/:id/update/", h.updateForm, canEdit...)
	g.POST("/author/:id/update/", h.update, canEdit...)
	g.GET("/author/:id/delete/", h.deleteConfirm, canEdit...)
	g.POST("/author/:id/delete/", h.deleteAuthor, canEdit...)
}
