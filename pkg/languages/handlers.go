package languages

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lorenamitrea/LocalLibrary/pkg/binder"
	"github.com/lorenamitrea/LocalLibrary/pkg/forms"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

const listPath = "/catalog/languages/"

type handler struct {
	languageService *Service
}

func (h *handler) list(c echo.Context) error {
	languages, err := h.languageService.ListLanguages(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.Render(http.StatusOK, "language_list.html", ListPage{LanguageList: languages}))
}

func (h *handler) createForm(c echo.Context) error {
	return errors.WithStack(c.Render(http.StatusOK, "language_form.html", FormPage{}))
}

func (h *handler) create(c echo.Context) error {
	params := LanguageForm{}
	fieldErrs, err := binder.BindForm(c, &params)
	if err != nil {
		return errors.WithStack(err)
	}

	if !fieldErrs.Any() {
		language := &models.Language{Name: params.Name}
		err = h.languageService.CreateLanguage(c.Request().Context(), language)
		if errors.Is(err, ErrExists) {
			fieldErrs = forms.Errors{}
			fieldErrs.Add("name", "Language already exists (case insensitive match)")
		} else if err != nil {
			return errors.WithStack(err)
		} else {
			logger.FromContext(c.Request().Context()).Info("language created", logger.Data{"language_id": language.ID})
			return errors.WithStack(c.Redirect(http.StatusFound, listPath))
		}
	}

	return errors.WithStack(c.Render(http.StatusOK, "language_form.html", FormPage{Form: params, Errors: fieldErrs}))
}
