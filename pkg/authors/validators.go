package authors

import (
	"github.com/lorenamitrea/LocalLibrary/pkg/dates"
	"github.com/lorenamitrea/LocalLibrary/pkg/forms"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/lorenamitrea/LocalLibrary/pkg/pagination"
)

// AuthorForm is the create and update form for an author.
type AuthorForm struct {
	FirstName   string `form:"first_name" mod:"trim" validate:"required,max=100"`
	LastName    string `form:"last_name" mod:"trim" validate:"required,max=100"`
	DateOfBirth string `form:"date_of_birth" mod:"trim" validate:"date"`
	DateOfDeath string `form:"date_of_death" mod:"trim" validate:"date"`
}

// formColumns are the columns an AuthorForm writes.
var formColumns = []string{"first_name", "last_name", "date_of_birth", "date_of_death"}

func formFromAuthor(a *models.Author) AuthorForm {
	return AuthorForm{
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		DateOfBirth: dates.FormatPtr(a.DateOfBirth),
		DateOfDeath: dates.FormatPtr(a.DateOfDeath),
	}
}

// apply copies an already validated form onto author. The only rule left to
// check is that an author can't die before being born.
func (f AuthorForm) apply(author *models.Author) forms.Errors {
	errs := forms.Errors{}

	// the binder has already checked both dates parse
	born, _ := dates.ParseOptional(f.DateOfBirth)
	died, _ := dates.ParseOptional(f.DateOfDeath)
	if born != nil && died != nil && died.Before(*born) {
		errs.Add("date_of_death", "Date of death can't be before date of birth.")
		return errs
	}

	author.FirstName = f.FirstName
	author.LastName = f.LastName
	author.DateOfBirth = born
	author.DateOfDeath = died
	return nil
}

type ListPage struct {
	AuthorList []*models.Author
	Page       pagination.Page
}

type DetailPage struct {
	Author *models.Author
}

// FormPage is shared by create and update. Author is nil when creating.
type FormPage struct {
	Author *models.Author
	Form   AuthorForm
	Errors forms.Errors
}

type DeletePage struct {
	Author *models.Author
	Error  string
}
