package errcodes

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/errutils"
)

// ErrorTemplate is the template rendered for errors on browser requests.
const ErrorTemplate = "error.html"

// ErrorPage is the data handed to ErrorTemplate.
type ErrorPage struct {
	StatusCode int
	Code       string
	Message    string
}

type Handler struct {
	loginPath string
}

// NewHandler returns an error handler that sends unauthenticated browser
// requests to loginPath. An empty loginPath disables the redirect.
func NewHandler(loginPath string) *Handler {
	return &Handler{loginPath: loginPath}
}

// Handle is an Echo error handler that uses HTTP errors accordingly, and any
// generic error will be interpreted as an internal server error. JSON clients
// get a JSON payload; browsers get a rendered error page, or a redirect to the
// login page when they aren't authenticated.
func (h *Handler) Handle(err error, c echo.Context) {
	if errutils.IsIgnorableErr(err) {
		logger.FromEchoContext(c).Err(err).Warn("broken pipe")
		return
	}
	if c.Response().Committed {
		logger.FromEchoContext(c).Err(err).Warn("error after response was committed")
		return
	}

	httpCode, payload := generatePayload(err)

	// Internal server errors
	if httpCode == http.StatusInternalServerError {
		logger.FromEchoContext(c).Err(err).Error("server error")
	}

	if wantsJSON(c) {
		if err := c.JSON(httpCode, map[string]interface{}{"error": payload}); err != nil {
			logger.FromEchoContext(c).Err(errors.WithStack(err)).Error("error handler json error")
		}
		return
	}

	if httpCode == http.StatusUnauthorized && h.loginPath != "" {
		target := LoginURL(h.loginPath, c.Request().URL.RequestURI())
		if err := c.Redirect(http.StatusFound, target); err != nil {
			logger.FromEchoContext(c).Err(errors.WithStack(err)).Error("error handler redirect error")
		}
		return
	}

	if c.Echo().Renderer == nil {
		if err := c.String(httpCode, payload.Message); err != nil {
			logger.FromEchoContext(c).Err(errors.WithStack(err)).Error("error handler string error")
		}
		return
	}
	if err := c.Render(httpCode, ErrorTemplate, payload); err != nil {
		logger.FromEchoContext(c).Err(errors.WithStack(err)).Error("error handler render error")
	}
}

func generatePayload(err error) (int, ErrorPage) {
	code := ""
	msg := ""
	httpCode := http.StatusInternalServerError

	// Echo errors
	var he *echo.HTTPError
	if ok := errors.As(err, &he); ok {
		httpCode = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(he.Code)
		}
		code = strcase.ToSnake(msg)
	}

	// Custom errors
	var e *Error
	if ok := errors.As(err, &e); ok {
		httpCode = e.HTTPCode
		code = e.Code
		msg = e.Message
	}

	// Internal server errors that aren't Echo errors or custom errors
	if httpCode == http.StatusInternalServerError && msg == "" {
		code = "internal_server_error"
		msg = "Internal Server Error"
	}

	return httpCode, ErrorPage{
		StatusCode: httpCode,
		Code:       code,
		Message:    msg,
	}
}

// LoginURL builds the login redirect for a request to next. Slashes in next
// are left readable, e.g. /accounts/login/?next=/catalog/mybooks/.
func LoginURL(loginPath, next string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
	return loginPath + "?next=" + escaped
}

func wantsJSON(c echo.Context) bool {
	req := c.Request()
	if strings.HasPrefix(req.URL.Path, "/api/") {
		return true
	}
	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return true
	}
	return strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
