package catalog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// VisitsCookie counts a visitor's views of the home page.
const VisitsCookie = "num_visits"

// IndexPage is the data for the home page. NumVisits counts earlier views,
// so it is 0 on the first.
type IndexPage struct {
	*Counts
	NumVisits int
}

type handler struct {
	catalogService *Service
}

func (h *handler) index(c echo.Context) error {
	counts, err := h.catalogService.Counts(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	visits := 0
	if cookie, err := c.Cookie(VisitsCookie); err == nil {
		// a tampered or garbled count starts over
		if n, err := strconv.Atoi(cookie.Value); err == nil && n > 0 {
			visits = n
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     VisitsCookie,
		Value:    strconv.Itoa(visits + 1),
		Path:     "/",
		MaxAge:   int((14 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return errors.WithStack(c.Render(http.StatusOK, "index.html", IndexPage{Counts: counts, NumVisits: visits}))
}
