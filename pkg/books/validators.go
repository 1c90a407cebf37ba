package books

import (
	"fmt"

	"github.com/lorenamitrea/LocalLibrary/pkg/forms"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/lorenamitrea/LocalLibrary/pkg/pagination"
)

// BookForm is the create and update form for a book. Genre is a multi-select.
type BookForm struct {
	Title    string `form:"title" mod:"trim" validate:"required,max=200"`
	Author   int    `form:"author" validate:"required"`
	Summary  string `form:"summary" mod:"striphtml,trim" validate:"required,max=1000"`
	ISBN     string `form:"isbn" mod:"isbn" validate:"required,len=13,isbn13"`
	Genre    []int  `form:"genre" validate:"required"`
	Language int    `form:"language" validate:"required"`
}

// formColumns are the book columns a BookForm writes.
var formColumns = []string{"title", "author_id", "summary", "isbn", "language_id"}

func formFromBook(b *models.Book) BookForm {
	return BookForm{
		Title:    b.Title,
		Author:   b.AuthorID,
		Summary:  b.Summary,
		ISBN:     b.ISBN,
		Genre:    b.GenreIDs(),
		Language: b.LanguageID,
	}
}

// apply checks the chosen author, language and genres exist and copies the
// form onto book.
func (f BookForm) apply(book *models.Book, choices *Choices) forms.Errors {
	errs := forms.Errors{}
	if !choices.HasAuthor(f.Author) {
		errs.Add("author", forms.MsgInvalidChoice)
	}
	if !choices.HasLanguage(f.Language) {
		errs.Add("language", forms.MsgInvalidChoice)
	}
	for _, id := range f.Genre {
		if !choices.HasGenre(id) {
			errs.Add("genre", fmt.Sprintf("Select a valid choice. %d is not one of the available choices.", id))
			break
		}
	}
	if errs.Any() {
		return errs
	}

	book.Title = f.Title
	book.AuthorID = f.Author
	book.Summary = f.Summary
	book.ISBN = f.ISBN
	book.LanguageID = f.Language
	return nil
}

type ListPage struct {
	BookList []*models.Book
	Page     pagination.Page
}

type DetailPage struct {
	Book *models.Book
}

// FormPage is shared by create and update. Book is nil when creating.
type FormPage struct {
	Book    *models.Book
	Form    BookForm
	Errors  forms.Errors
	Choices *Choices
}

type DeletePage struct {
	Book  *models.Book
	Error string
}
