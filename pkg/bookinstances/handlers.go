package bookinstances

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lorenamitrea/LocalLibrary/pkg/auth"
	"github.com/lorenamitrea/LocalLibrary/pkg/binder"
	"github.com/lorenamitrea/LocalLibrary/pkg/books"
	"github.com/lorenamitrea/LocalLibrary/pkg/dates"
	"github.com/lorenamitrea/LocalLibrary/pkg/errcodes"
	"github.com/lorenamitrea/LocalLibrary/pkg/forms"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/lorenamitrea/LocalLibrary/pkg/pagination"
	"github.com/lorenamitrea/LocalLibrary/pkg/renewal"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// BorrowedPath lists every copy on loan. Renewals and returns land here.
const BorrowedPath = "/catalog/borrowed/"

const lendHelpText = "Leave the due date empty to lend for 3 weeks. A loan can run for at most 4 weeks."

type handler struct {
	instanceService *Service
	bookService     *books.Service
	workflow        *renewal.Workflow
	clock           func() time.Time
	pageSize        int
}

func (h *handler) myBooks(c echo.Context) error {
	user := auth.UserFromContext(c)
	return h.listOnLoan(c, "bookinstance_list_borrowed_user.html", &user.ID)
}

func (h *handler) borrowed(c echo.Context) error {
	return h.listOnLoan(c, "bookinstance_list_borrowed.html", nil)
}

func (h *handler) listOnLoan(c echo.Context, template string, borrowerID *int) error {
	ctx := c.Request().Context()

	total, err := h.instanceService.CountOnLoan(ctx, borrowerID)
	if err != nil {
		return errors.WithStack(err)
	}
	page, err := pagination.Parse(c.QueryParam("page"), h.pageSize, total)
	if err != nil {
		return err
	}

	limit, offset := page.Limit(), page.Offset()
	instances, err := h.instanceService.ListOnLoan(ctx, ListOnLoanOptions{
		Limit:      &limit,
		Offset:     &offset,
		BorrowerID: borrowerID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, template, LoanListPage{
		InstanceList: instances,
		Page:         page,
		Today:        dates.Today(h.clock),
	}))
}

func (h *handler) renewForm(c echo.Context) error {
	caller := renewal.CallerFor(auth.UserFromContext(c))
	form, err := h.workflow.Begin(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return errors.WithStack(c.Render(http.StatusOK, "book_renew_librarian.html", form))
}

func (h *handler) renew(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.UserFromContext(c)

	result, err := h.workflow.Submit(ctx, renewal.CallerFor(user), c.Param("id"), c.FormValue(renewal.FieldRenewalDate))
	if err != nil {
		return err
	}
	if !result.Renewed {
		return errors.WithStack(c.Render(http.StatusOK, "book_renew_librarian.html", result.Form))
	}

	logger.FromContext(c.Request().Context()).Info("book renewed", logger.Data{
		"book_instance_id": c.Param("id"),
		"due_back":         dates.Format(result.DueBack),
		"user_id":          user.ID,
	})
	return errors.WithStack(c.Redirect(http.StatusFound, BorrowedPath))
}

func (h *handler) createForm(c echo.Context) error {
	book, err := h.book(c)
	if err != nil {
		return err
	}
	return errors.WithStack(c.Render(http.StatusOK, "bookinstance_form.html", InstanceFormPage{
		Book: book,
		Form: InstanceForm{Status: models.StatusMaintenance},
	}))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	book, err := h.book(c)
	if err != nil {
		return err
	}

	params := InstanceForm{}
	fieldErrs, err := binder.BindForm(c, &params)
	if err != nil {
		return errors.WithStack(err)
	}
	if fieldErrs.Any() {
		return errors.WithStack(c.Render(http.StatusOK, "bookinstance_form.html", InstanceFormPage{Book: book, Form: params, Errors: fieldErrs}))
	}

	instance := &models.BookInstance{
		BookID:  book.ID,
		Imprint: params.Imprint,
		Status:  params.Status,
	}
	if err := h.instanceService.CreateBookInstance(ctx, instance); err != nil {
		return errors.WithStack(err)
	}
	logger.FromContext(c.Request().Context()).Info("book instance created", logger.Data{"book_instance_id": instance.ID.String(), "book_id": book.ID})

	return errors.WithStack(c.Redirect(http.StatusFound, book.URL()))
}

func (h *handler) lendForm(c echo.Context) error {
	instance, err := h.instance(c)
	if err != nil {
		return err
	}
	return errors.WithStack(c.Render(http.StatusOK, "bookinstance_lend.html", LendPage{
		Instance: instance,
		Form:     LendForm{DueBack: dates.Format(renewal.ProposedDate(dates.Today(h.clock)))},
		HelpText: lendHelpText,
	}))
}

func (h *handler) lend(c echo.Context) error {
	ctx := c.Request().Context()

	instance, err := h.instance(c)
	if err != nil {
		return err
	}

	params := LendForm{}
	fieldErrs, err := binder.BindForm(c, &params)
	if err != nil {
		return errors.WithStack(err)
	}
	if fieldErrs == nil {
		fieldErrs = forms.Errors{}
	}

	if instance.IsOnLoan() {
		fieldErrs.Add(forms.NonFieldErrors, "This copy is already on loan.")
	}

	var borrower *models.User
	if !fieldErrs.Has("borrower") {
		borrower, err = h.instanceService.RetrieveBorrower(ctx, params.Borrower)
		if errcodes.IsNotFound(err) {
			fieldErrs.Add("borrower", "There is no active user with that username.")
		} else if err != nil {
			return errors.WithStack(err)
		}
	}

	today := dates.Today(h.clock)
	dueBack := renewal.ProposedDate(today)
	if !fieldErrs.Has("due_back") && params.DueBack != "" {
		// the binder has already checked it parses
		dueBack, _ = dates.Parse(params.DueBack)
		if err := renewal.Validate(dueBack, today); err != nil {
			fieldErrs.Add("due_back", err.Error())
		}
	}

	if fieldErrs.Any() {
		return errors.WithStack(c.Render(http.StatusOK, "bookinstance_lend.html", LendPage{
			Instance: instance,
			Form:     params,
			Errors:   fieldErrs,
			HelpText: lendHelpText,
		}))
	}

	if err := h.instanceService.Lend(ctx, instance, borrower, dueBack); err != nil {
		return errors.WithStack(err)
	}
	logger.FromContext(c.Request().Context()).Info("book lent", logger.Data{
		"book_instance_id": instance.ID.String(),
		"borrower_id":      borrower.ID,
		"due_back":         dates.Format(dueBack),
	})

	return errors.WithStack(c.Redirect(http.StatusFound, BorrowedPath))
}

func (h *handler) markReturned(c echo.Context) error {
	instance, err := h.instance(c)
	if err != nil {
		return err
	}

	if err := h.instanceService.Return(c.Request().Context(), instance); err != nil {
		return errors.WithStack(err)
	}
	logger.FromContext(c.Request().Context()).Info("book returned", logger.Data{"book_instance_id": instance.ID.String()})

	return errors.WithStack(c.Redirect(http.StatusFound, BorrowedPath))
}

func (h *handler) instance(c echo.Context) (*models.BookInstance, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, errcodes.NotFound("Book instance")
	}
	return h.instanceService.RetrieveBookInstance(c.Request().Context(), id)
}

func (h *handler) book(c echo.Context) (*models.Book, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return nil, errcodes.NotFound("Book")
	}
	return h.bookService.RetrieveBook(c.Request().Context(), books.RetrieveBookOptions{ID: &id})
}
