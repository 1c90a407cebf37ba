package auth

import "github.com/lorenamitrea/LocalLibrary/pkg/forms"

// LoginForm is the login page submission.
type LoginForm struct {
	Username string `form:"username" mod:"trim" validate:"required,max=150"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

// LoginPage is the data for the login template.
type LoginPage struct {
	Form   LoginForm
	Errors forms.Errors
	Next   string
}
