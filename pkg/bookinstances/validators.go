package bookinstances

import (
	"time"

	"github.com/lorenamitrea/LocalLibrary/pkg/forms"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/lorenamitrea/LocalLibrary/pkg/pagination"
)

// InstanceForm adds a copy of a book. Copies are lent through the lend form,
// so a new copy can't start out on loan.
type InstanceForm struct {
	Imprint string `form:"imprint" mod:"trim" validate:"required,max=200"`
	Status  string `form:"status" default:"m" validate:"oneof=m a r"`
}

// LendForm lends a copy to a user. An empty due date means the default loan
// period.
type LendForm struct {
	Borrower string `form:"borrower" mod:"trim" validate:"required,max=150"`
	DueBack  string `form:"due_back" mod:"trim" validate:"date"`
}

// LoanListPage lists copies on loan. Today marks overdue ones.
type LoanListPage struct {
	InstanceList []*models.BookInstance
	Page         pagination.Page
	Today        time.Time
}

type InstanceFormPage struct {
	Book   *models.Book
	Form   InstanceForm
	Errors forms.Errors
}

type LendPage struct {
	Instance *models.BookInstance
	Form     LendForm
	Errors   forms.Errors
	HelpText string
}
