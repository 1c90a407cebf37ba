package genres

import (
	"github.com/labstack/echo/v4"
	"github.com/lorenamitrea/LocalLibrary/pkg/auth"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/uptrace/bun"
)

func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		genreService: NewService(db),
	}

	canEdit := []echo.MiddlewareFunc{
		authMiddleware.Authenticate,
		authMiddleware.RequirePermission(models.ResourceBookInstances, models.OperationMarkReturned),
	}

	g.GET("/genres/", h.list)
	g.GET("/genre/create/", h.createForm, canEdit...)
	g.POST("/genre/create/", h.create, canEdit...)
}
