package genres

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lorenamitrea/LocalLibrary/pkg/binder"
	"github.com/lorenamitrea/LocalLibrary/pkg/forms"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

const listPath = "/catalog/genres/"

type handler struct {
	genreService *Service
}

func (h *handler) list(c echo.Context) error {
	genres, err := h.genreService.ListGenres(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.Render(http.StatusOK, "genre_list.html", ListPage{GenreList: genres}))
}

func (h *handler) createForm(c echo.Context) error {
	return errors.WithStack(c.Render(http.StatusOK, "genre_form.html", FormPage{}))
}

func (h *handler) create(c echo.Context) error {
	params := GenreForm{}
	fieldErrs, err := binder.BindForm(c, &params)
	if err != nil {
		return errors.WithStack(err)
	}

	if !fieldErrs.Any() {
		genre := &models.Genre{Name: params.Name}
		err = h.genreService.CreateGenre(c.Request().Context(), genre)
		if errors.Is(err, ErrExists) {
			fieldErrs = forms.Errors{}
			fieldErrs.Add("name", "Genre already exists (case insensitive match)")
		} else if err != nil {
			return errors.WithStack(err)
		} else {
			logger.FromContext(c.Request().Context()).Info("genre created", logger.Data{"genre_id": genre.ID})
			return errors.WithStack(c.Redirect(http.StatusFound, listPath))
		}
	}

	return errors.WithStack(c.Render(http.StatusOK, "genre_form.html", FormPage{Form: params, Errors: fieldErrs}))
}
