package auth

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lorenamitrea/LocalLibrary/pkg/binder"
	"github.com/lorenamitrea/LocalLibrary/pkg/errcodes"
	"github.com/lorenamitrea/LocalLibrary/pkg/forms"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "locallibrary_session"
	// CookieMaxAge is how long the cookie is valid.
	CookieMaxAge = TokenExpiry

	// LoginPath is where unauthenticated browsers are sent.
	LoginPath = "/accounts/login/"
	// DefaultRedirect is where a login without a next target lands.
	DefaultRedirect = "/catalog/"
)

type handler struct {
	authService *Service
	limiter     *LoginLimiter
}

func (h *handler) loginForm(c echo.Context) error {
	next := safeNext(c.QueryParam("next"))
	if UserFromContext(c) != nil {
		return errors.WithStack(c.Redirect(http.StatusFound, next))
	}
	return errors.WithStack(c.Render(http.StatusOK, "login.html", LoginPage{Next: next}))
}

// login handles user login.
func (h *handler) login(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	if !h.limiter.Allow(c.RealIP()) {
		log.Warn("login rate limit exceeded", logger.Data{"ip": c.RealIP()})
		return errcodes.TooManyRequests()
	}

	params := LoginForm{}
	fieldErrs, err := binder.BindForm(c, &params)
	if err != nil {
		return errors.WithStack(err)
	}
	next := safeNext(params.Next)
	password := params.Password
	// never echo the password back into the page
	params.Password = ""

	if fieldErrs.Any() {
		return errors.WithStack(c.Render(http.StatusOK, "login.html", LoginPage{Form: params, Errors: fieldErrs, Next: next}))
	}

	user, err := h.authService.Authenticate(ctx, params.Username, password)
	if err != nil {
		var e *errcodes.Error
		if !errors.As(err, &e) || e.HTTPCode != http.StatusUnauthorized {
			return errors.WithStack(err)
		}
		errs := forms.Errors{}
		errs.Add(forms.NonFieldErrors, e.Message)
		return errors.WithStack(c.Render(http.StatusOK, "login.html", LoginPage{Form: params, Errors: errs, Next: next}))
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return errors.WithStack(err)
	}

	setSessionCookie(c, token, CookieMaxAge)
	log.Info("user logged in", logger.Data{"user_id": user.ID})

	return errors.WithStack(c.Redirect(http.StatusFound, next))
}

// logout handles user logout.
func (h *handler) logout(c echo.Context) error {
	// Clear cookie by setting MaxAge to -1
	setSessionCookie(c, "", -time.Second)
	return errors.WithStack(c.Redirect(http.StatusFound, DefaultRedirect))
}

func setSessionCookie(c echo.Context, token string, maxAge time.Duration) {
	secure := c.Request().TLS != nil || c.Request().Header.Get("X-Forwarded-Proto") == "https"
	c.SetCookie(NewSessionCookie(token, maxAge, secure))
}

// NewSessionCookie builds the session cookie carrying token.
func NewSessionCookie(token string, maxAge time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// safeNext only allows redirects to paths on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return DefaultRedirect
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return DefaultRedirect
	}
	return next
}
