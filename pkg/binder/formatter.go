package binder

import (
	"fmt"
	"reflect"
	"strings"
	timepkg "time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/lorenamitrea/LocalLibrary/pkg/forms"
	"github.com/lorenamitrea/LocalLibrary/pkg/isbn"
	"github.com/segmentio/encoding/json"
)

const msgInvalidChoice = forms.MsgInvalidChoice

const (
	date     = "date"
	email    = "email"
	gt       = "gt"
	gte      = "gte"
	gtfield  = "gtfield"
	isbn13   = "isbn13"
	length   = "len"
	ltfield  = "ltfield"
	mx       = "max"
	mn       = "min"
	ne       = "ne"
	oneof    = "oneof"
	required = "required"
)

var (
	timeType = reflect.TypeOf(timepkg.Time{})
)

func formatUnmarshalTypeError(err *json.UnmarshalTypeError) string {
	// FIXME: this doesn't work well for incorrect map values, e.g. it will say
	// `"metadata" should be a string instead of a object` if you pass in
	// `{"metadata":{"foo":{"bar":"baz"}}}`.
	return fmt.Sprintf("%q should be of type %s", strings.Trim(err.Field, "."), err.Type)
}

func formatSchemaConversionError(err schema.ConversionError) string {
	return fmt.Sprintf("%q should be of type %s", err.Key, err.Type)
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case date:
		return fmt.Sprintf("%q should be in the format of YYYY-MM-DD", field)
	case email:
		return fmt.Sprintf("%q is not a valid email", field)
	case gt:
		v := err.Param()
		if v == "" && err.Type() == timeType {
			v = "now"
		}
		return fmt.Sprintf("%q must be greater than %s", field, v)
	case gte:
		v := err.Param()
		if v == "" && err.Type() == timeType {
			v = "now"
		}
		return fmt.Sprintf("%q must be greater than or equal to %s", field, v)
	case isbn13:
		return fmt.Sprintf("%q is not a valid ISBN-13", field)
	case length:
		return fmt.Sprintf("%q length must be exactly %s characters", field, err.Param())
	case gtfield:
		// FIXME: err.Param() will return the struct field, not the JSON version
		// e.g. EndTime, not end_time
		return fmt.Sprintf("%q must be greater than %s", field, err.Param())
	case ltfield:
		// FIXME: err.Param() will return the struct field, not the JSON version
		// e.g. EndTime, not end_time
		return fmt.Sprintf("%q must be less than %s", field, err.Param())
	case mx:
		//exhaustive:ignore
		switch err.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return fmt.Sprintf("%q must be less than or equal to %s", field, err.Param())
		case reflect.Slice:
			resource := "element"
			if err.Param() != "1" {
				resource += "s"
			}
			return fmt.Sprintf("%q length must be less than or equal to %s %s", field, err.Param(), resource)
		default:
			resource := "character"
			if err.Param() != "1" {
				resource += "s"
			}
			return fmt.Sprintf("%q length must be less than or equal to %s %s", field, err.Param(), resource)
		}
	case mn:
		//exhaustive:ignore
		switch err.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return fmt.Sprintf("%q must be greater than or equal to %s", field, err.Param())
		case reflect.Slice:
			resource := "element"
			if err.Param() != "1" {
				resource += "s"
			}
			return fmt.Sprintf("%q length must be greater than or equal to %s %s", field, err.Param(), resource)
		default:
			resource := "character"
			if err.Param() != "1" {
				resource += "s"
			}
			return fmt.Sprintf("%q length must be greater than or equal to %s %s", field, err.Param(), resource)
		}
	case ne:
		return fmt.Sprintf("%q can't be %q", field, err.Param())
	case oneof:
		valids := []string{}
		for _, p := range strings.Fields(err.Param()) {
			valids = append(valids, fmt.Sprintf("%q", p))
		}
		return fmt.Sprintf("%q must be one of the following: %s", field, strings.Join(valids, ", "))
	case required:
		return fmt.Sprintf("%q is required", field)
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}

// formatFieldError words a validation failure the way it is shown next to an
// HTML form input, where the field name is already on screen.
func formatFieldError(err validator.FieldError) string {
	switch err.Tag() {
	case required:
		return "This field is required."
	case date:
		return "Enter a valid date."
	case isbn13:
		return fmt.Sprintf("Enter a valid %d digit ISBN.", isbn.Length)
	case length:
		return fmt.Sprintf("Ensure this value has exactly %s characters.", err.Param())
	case mx:
		if err.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", err.Param(), runeCount(err.Value()))
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", err.Param())
	case mn:
		if err.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at least %s characters (it has %d).", err.Param(), runeCount(err.Value()))
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", err.Param())
	case oneof:
		return fmt.Sprintf("Select a valid choice. %v is not one of the available choices.", err.Value())
	default:
		return formatValidationError(err)
	}
}

func runeCount(v interface{}) int {
	s, _ := v.(string)
	return utf8.RuneCountInString(s)
}
