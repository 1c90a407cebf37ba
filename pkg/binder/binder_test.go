package binder

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type params struct {
	Hello string `json:"hello" mod:"trim" validate:"max=9"`
	Omit  string `json:"-"`
}

var (
	goodJSON             = `{"hello":" world "}`
	unknownFieldsErrJSON = `{"hello":"world","foo":"bar"}`
	typeErrJSON          = `{"hello":123}`
	validationErrJSON    = `{"hello":"0123456789"}`
)

func TestNew(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)
	assert.NotNil(t, b)

	t.Run("only allows application/json and application/x-www-form-urlencoded", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationXML)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "Unsupported Media Type")
	})

	t.Run("disallows unknown fields", func(tt *testing.T) {
		c := newContext(unknownFieldsErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "foo"`)
	})

	t.Run("returns a good message for type errors", func(tt *testing.T) {
		c := newContext(typeErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"hello" should be of type string`)
	})

	t.Run("use mod tag to modify params", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		require.NoError(tt, err)
		assert.Equal(tt, "world", p.Hello)
	})

	t.Run("use validate tag to validate params", func(tt *testing.T) {
		c := newContext(validationErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "length must be less than or equal to 9 characters")
	})
}

func newContext(payload, mime string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(echo.POST, "/", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, mime)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}

type bookForm struct {
	Title   string `form:"title" mod:"trim" validate:"required,max=20"`
	ISBN    string `form:"isbn" mod:"isbn" validate:"required,len=13,isbn13"`
	Summary string `form:"summary" mod:"striphtml"`
	Author  int    `form:"author" validate:"required"`
	Genres  []int  `form:"genre"`
	Born    string `form:"born" validate:"date"`
	Name    string `form:"name" mod:"nfc"`
}

func newFormContext(e *echo.Echo, form url.Values) echo.Context {
	req := httptest.NewRequest(echo.POST, "/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestBindForm(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)
	e := echo.New()
	e.Binder = b

	t.Run("binds and cleans up valid values", func(tt *testing.T) {
		c := newFormContext(e, url.Values{
			"title":   {"  Dune  "},
			"isbn":    {"978-0-306-40615-7"},
			"summary": {"<p>Spice &amp; sand</p>"},
			"author":  {"3"},
			"genre":   {"1", "2"},
			"born":    {"1920-10-08"},
			"name":    {"Café"},
			"submit":  {"Save"},
		})
		f := bookForm{}
		fieldErrs, err := BindForm(c, &f)
		require.NoError(tt, err)
		assert.Nil(tt, fieldErrs)
		assert.Equal(tt, "Dune", f.Title)
		assert.Equal(tt, "9780306406157", f.ISBN)
		assert.Equal(tt, "Spice & sand", f.Summary)
		assert.Equal(tt, 3, f.Author)
		assert.Equal(tt, []int{1, 2}, f.Genres)
		assert.Equal(tt, "Café", f.Name)
	})

	t.Run("collects a message per field", func(tt *testing.T) {
		c := newFormContext(e, url.Values{
			"title":  {"A title that is far too long"},
			"isbn":   {"9780306406158"},
			"author": {"nobody"},
			"born":   {"1920-02-30"},
		})
		f := bookForm{}
		fieldErrs, err := BindForm(c, &f)
		require.NoError(tt, err)
		assert.Equal(tt, []string{"Ensure this value has at most 20 characters (it has 28)."}, fieldErrs.Get("title"))
		assert.Equal(tt, []string{"Enter a valid 13 digit ISBN."}, fieldErrs.Get("isbn"))
		assert.Equal(tt, []string{msgInvalidChoice}, fieldErrs.Get("author"))
		assert.Equal(tt, []string{"Enter a valid date."}, fieldErrs.Get("born"))
	})

	t.Run("missing fields are required", func(tt *testing.T) {
		c := newFormContext(e, url.Values{})
		f := bookForm{}
		fieldErrs, err := BindForm(c, &f)
		require.NoError(tt, err)
		assert.Equal(tt, []string{"This field is required."}, fieldErrs.Get("title"))
		assert.Equal(tt, []string{"This field is required."}, fieldErrs.Get("author"))
		assert.False(tt, fieldErrs.Has("summary"))
	})
}
