package languages

import (
	"github.com/lorenamitrea/LocalLibrary/pkg/forms"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
)

type LanguageForm struct {
	Name string `form:"name" mod:"trim,nfc" validate:"required,max=200"`
}

type ListPage struct {
	LanguageList []*models.Language
}

type FormPage struct {
	Form   LanguageForm
	Errors forms.Errors
}
