package authors

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/lorenamitrea/LocalLibrary/pkg/binder"
	"github.com/lorenamitrea/LocalLibrary/pkg/errcodes"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/lorenamitrea/LocalLibrary/pkg/pagination"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

const listPath = "/catalog/authors/"

type handler struct {
	authorService *Service
	pageSize      int
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	total, err := h.authorService.CountAuthors(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	page, err := pagination.Parse(c.QueryParam("page"), h.pageSize, total)
	if err != nil {
		return err
	}

	limit, offset := page.Limit(), page.Offset()
	authors, err := h.authorService.ListAuthors(ctx, ListAuthorsOptions{
		Limit:  &limit,
		Offset: &offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "authors.html", ListPage{
		AuthorList: authors,
		Page:       page,
	}))
}

func (h *handler) retrieve(c echo.Context) error {
	author, err := h.lookup(c, true)
	if err != nil {
		return err
	}
	return errors.WithStack(c.Render(http.StatusOK, "author_detail.html", DetailPage{Author: author}))
}

func (h *handler) createForm(c echo.Context) error {
	return errors.WithStack(c.Render(http.StatusOK, "author_form.html", FormPage{}))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := AuthorForm{}
	fieldErrs, err := binder.BindForm(c, &params)
	if err != nil {
		return errors.WithStack(err)
	}

	author := &models.Author{}
	if !fieldErrs.Any() {
		fieldErrs = params.apply(author)
	}
	if fieldErrs.Any() {
		return errors.WithStack(c.Render(http.StatusOK, "author_form.html", FormPage{Form: params, Errors: fieldErrs}))
	}

	if err := h.authorService.CreateAuthor(ctx, author); err != nil {
		return errors.WithStack(err)
	}
	logger.FromContext(c.Request().Context()).Info("author created", logger.Data{"author_id": author.ID})

	return errors.WithStack(c.Redirect(http.StatusFound, author.URL()))
}

func (h *handler) updateForm(c echo.Context) error {
	author, err := h.lookup(c, false)
	if err != nil {
		return err
	}
	return errors.WithStack(c.Render(http.StatusOK, "author_form.html", FormPage{Author: author, Form: formFromAuthor(author)}))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	author, err := h.lookup(c, false)
	if err != nil {
		return err
	}

	params := AuthorForm{}
	fieldErrs, err := binder.BindForm(c, &params)
	if err != nil {
		return errors.WithStack(err)
	}
	if !fieldErrs.Any() {
		fieldErrs = params.apply(author)
	}
	if fieldErrs.Any() {
		return errors.WithStack(c.Render(http.StatusOK, "author_form.html", FormPage{Author: author, Form: params, Errors: fieldErrs}))
	}

	if err := h.authorService.UpdateAuthor(ctx, author, UpdateAuthorOptions{Columns: formColumns}); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusFound, author.URL()))
}

func (h *handler) deleteConfirm(c echo.Context) error {
	author, err := h.lookup(c, false)
	if err != nil {
		return err
	}
	return errors.WithStack(c.Render(http.StatusOK, "author_confirm_delete.html", DeletePage{Author: author}))
}

func (h *handler) deleteAuthor(c echo.Context) error {
	ctx := c.Request().Context()

	author, err := h.lookup(c, true)
	if err != nil {
		return err
	}

	err = h.authorService.DeleteAuthor(ctx, author.ID)
	if errors.Is(err, ErrHasBooks) {
		return errors.WithStack(c.Render(http.StatusOK, "author_confirm_delete.html", DeletePage{
			Author: author,
			Error:  "This author can't be deleted while the catalog has books by them. Delete or reassign the books first.",
		}))
	}
	if err != nil {
		return errors.WithStack(err)
	}
	logger.FromContext(c.Request().Context()).Info("author deleted", logger.Data{"author_id": author.ID})

	return errors.WithStack(c.Redirect(http.StatusFound, listPath))
}

func (h *handler) lookup(c echo.Context, withBooks bool) (*models.Author, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return nil, errcodes.NotFound("Author")
	}
	opts := RetrieveAuthorOptions{ID: &id}
	if withBooks {
		return h.authorService.RetrieveAuthorWithBooks(c.Request().Context(), opts)
	}
	return h.authorService.RetrieveAuthor(c.Request().Context(), opts)
}
