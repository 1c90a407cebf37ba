package books

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/lorenamitrea/LocalLibrary/pkg/binder"
	"github.com/lorenamitrea/LocalLibrary/pkg/errcodes"
	"github.com/lorenamitrea/LocalLibrary/pkg/forms"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/lorenamitrea/LocalLibrary/pkg/pagination"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

const listPath = "/catalog/books/"

type handler struct {
	bookService *Service
	pageSize    int
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	total, err := h.bookService.CountBooks(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	page, err := pagination.Parse(c.QueryParam("page"), h.pageSize, total)
	if err != nil {
		return err
	}

	limit, offset := page.Limit(), page.Offset()
	books, err := h.bookService.ListBooks(ctx, ListBooksOptions{
		Limit:  &limit,
		Offset: &offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "book_list.html", ListPage{
		BookList: books,
		Page:     page,
	}))
}

func (h *handler) retrieve(c echo.Context) error {
	book, err := h.lookup(c, true)
	if err != nil {
		return err
	}
	return errors.WithStack(c.Render(http.StatusOK, "book_detail.html", DetailPage{Book: book}))
}

func (h *handler) createForm(c echo.Context) error {
	choices, err := h.bookService.ListChoices(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.Render(http.StatusOK, "book_form.html", FormPage{Choices: choices}))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	book := &models.Book{}
	params, fieldErrs, choices, err := h.bind(c, book)
	if err != nil {
		return err
	}
	if fieldErrs.Any() {
		return errors.WithStack(c.Render(http.StatusOK, "book_form.html", FormPage{Form: params, Errors: fieldErrs, Choices: choices}))
	}

	if err := h.bookService.CreateBook(ctx, book, params.Genre); err != nil {
		return errors.WithStack(err)
	}
	logger.FromContext(c.Request().Context()).Info("book created", logger.Data{"book_id": book.ID})

	return errors.WithStack(c.Redirect(http.StatusFound, book.URL()))
}

func (h *handler) updateForm(c echo.Context) error {
	book, err := h.lookup(c, false)
	if err != nil {
		return err
	}
	choices, err := h.bookService.ListChoices(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.Render(http.StatusOK, "book_form.html", FormPage{Book: book, Form: formFromBook(book), Choices: choices}))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	book, err := h.lookup(c, false)
	if err != nil {
		return err
	}

	params, fieldErrs, choices, err := h.bind(c, book)
	if err != nil {
		return err
	}
	if fieldErrs.Any() {
		return errors.WithStack(c.Render(http.StatusOK, "book_form.html", FormPage{Book: book, Form: params, Errors: fieldErrs, Choices: choices}))
	}

	err = h.bookService.UpdateBook(ctx, book, UpdateBookOptions{
		Columns:  formColumns,
		GenreIDs: &params.Genre,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusFound, book.URL()))
}

func (h *handler) deleteConfirm(c echo.Context) error {
	book, err := h.lookup(c, false)
	if err != nil {
		return err
	}
	return errors.WithStack(c.Render(http.StatusOK, "book_confirm_delete.html", DeletePage{Book: book}))
}

func (h *handler) deleteBook(c echo.Context) error {
	ctx := c.Request().Context()

	book, err := h.lookup(c, false)
	if err != nil {
		return err
	}

	err = h.bookService.DeleteBook(ctx, book.ID)
	if errors.Is(err, ErrHasInstances) {
		return errors.WithStack(c.Render(http.StatusOK, "book_confirm_delete.html", DeletePage{
			Book:  book,
			Error: "This book can't be deleted while the library holds copies of it. Delete the copies first.",
		}))
	}
	if err != nil {
		return errors.WithStack(err)
	}
	logger.FromContext(c.Request().Context()).Info("book deleted", logger.Data{"book_id": book.ID})

	return errors.WithStack(c.Redirect(http.StatusFound, listPath))
}

// bind reads a submitted book form onto book. The returned errors are for the
// user; err is for everything else.
func (h *handler) bind(c echo.Context, book *models.Book) (BookForm, forms.Errors, *Choices, error) {
	params := BookForm{}
	fieldErrs, err := binder.BindForm(c, &params)
	if err != nil {
		return params, nil, nil, errors.WithStack(err)
	}

	choices, err := h.bookService.ListChoices(c.Request().Context())
	if err != nil {
		return params, nil, nil, errors.WithStack(err)
	}

	if !fieldErrs.Any() {
		fieldErrs = params.apply(book, choices)
	}
	return params, fieldErrs, choices, nil
}

func (h *handler) lookup(c echo.Context, withInstances bool) (*models.Book, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return nil, errcodes.NotFound("Book")
	}
	opts := RetrieveBookOptions{ID: &id}
	if withInstances {
		return h.bookService.RetrieveBookWithInstances(c.Request().Context(), opts)
	}
	return h.bookService.RetrieveBook(c.Request().Context(), opts)
}
