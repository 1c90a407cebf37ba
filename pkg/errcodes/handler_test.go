package errcodes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(method, target, accept string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	if accept != "" {
		req.Header.Set(echo.HeaderAccept, accept)
	}
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr), rr
}

func TestHandle_UnauthorizedBrowserRequestRedirectsToLogin(t *testing.T) {
	t.Parallel()

	c, rr := newContext(http.MethodGet, "/catalog/mybooks/", "text/html")
	NewHandler("/accounts/login/").Handle(Unauthorized("Authentication required"), c)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/accounts/login/?next=/catalog/mybooks/", rr.Header().Get(echo.HeaderLocation))
}

func TestHandle_UnauthorizedRedirectKeepsQueryString(t *testing.T) {
	t.Parallel()

	c, rr := newContext(http.MethodGet, "/catalog/borrowed/?page=2", "text/html")
	NewHandler("/accounts/login/").Handle(Unauthorized("Authentication required"), c)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/accounts/login/?next=/catalog/borrowed/%3Fpage%3D2", rr.Header().Get(echo.HeaderLocation))
}

func TestHandle_UnauthorizedJSONRequestGetsPayload(t *testing.T) {
	t.Parallel()

	c, rr := newContext(http.MethodGet, "/catalog/mybooks/", echo.MIMEApplicationJSON)
	NewHandler("/accounts/login/").Handle(Unauthorized("Authentication required"), c)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error":{"StatusCode":401,"Code":"unauthorized","Message":"Authentication required"}}`, rr.Body.String())
}

func TestHandle_WrappedErrorsKeepTheirStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		code int
	}{
		{errors.WithStack(Forbidden("Renewing books")), http.StatusForbidden},
		{errors.Wrap(NotFound("Book instance"), "lookup"), http.StatusNotFound},
		{echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range cases {
		c, rr := newContext(http.MethodGet, "/catalog/", "")
		NewHandler("/accounts/login/").Handle(tt.err, c)
		assert.Equal(t, tt.code, rr.Code, tt.err.Error())
	}
}

func TestHandle_InternalErrorsHideDetails(t *testing.T) {
	t.Parallel()

	c, rr := newContext(http.MethodGet, "/catalog/", "")
	NewHandler("").Handle(errors.New("sql: connection refused"), c)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Internal Server Error", rr.Body.String())
}

func TestLoginURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/accounts/login/?next=/catalog/book/1/renew/", LoginURL("/accounts/login/", "/catalog/book/1/renew/"))
	assert.Equal(t, "/accounts/login/?next=/catalog/books/%3Fpage%3D2", LoginURL("/accounts/login/", "/catalog/books/?page=2"))
}
