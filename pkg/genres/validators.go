package genres

import (
	"github.com/lorenamitrea/LocalLibrary/pkg/forms"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
)

type GenreForm struct {
	Name string `form:"name" mod:"trim,nfc" validate:"required,max=200"`
}

type ListPage struct {
	GenreList []*models.Genre
}

type FormPage struct {
	Form   GenreForm
	Errors forms.Errors
}
