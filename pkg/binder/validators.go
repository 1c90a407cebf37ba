package binder

import (
	"context"
	"reflect"

	"github.com/go-playground/mold/v4"
	"github.com/go-playground/validator/v10"
	"github.com/lorenamitrea/LocalLibrary/pkg/dates"
	"github.com/lorenamitrea/LocalLibrary/pkg/htmlutil"
	"github.com/lorenamitrea/LocalLibrary/pkg/isbn"
	"golang.org/x/text/unicode/norm"
)

// dateValidator ensures the value is a real calendar date in the format
// YYYY-MM-DD, or the empty string. The empty string is allowed so that optional
// dates can be left blank; add `required` to the tag when a date must be given.
func dateValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := dates.Parse(value)
	return err == nil
}

// isbnValidator checks the ISBN-13 check digit. Pair it with the isbn modifier
// so hyphenated input is cleaned up first.
func isbnValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return isbn.Valid(value)
}

func isbnModifier(_ context.Context, fl mold.FieldLevel) error {
	if s, ok := stringField(fl); ok {
		fl.Field().SetString(isbn.Normalize(s))
	}
	return nil
}

func stripHTMLModifier(_ context.Context, fl mold.FieldLevel) error {
	if s, ok := stringField(fl); ok {
		fl.Field().SetString(htmlutil.StripTags(s))
	}
	return nil
}

// nfcModifier puts text in Unicode normal form C, so visually identical names
// compare equal.
func nfcModifier(_ context.Context, fl mold.FieldLevel) error {
	if s, ok := stringField(fl); ok {
		fl.Field().SetString(norm.NFC.String(s))
	}
	return nil
}

func stringField(fl mold.FieldLevel) (string, bool) {
	field := fl.Field()
	if !field.CanSet() || field.Kind() != reflect.String {
		return "", false
	}
	return field.String(), true
}
