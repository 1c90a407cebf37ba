package catalog

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		catalogService: NewService(db),
	}

	g.GET("/", h.index)
}
