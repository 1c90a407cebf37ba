package auth

import (
	"github.com/labstack/echo/v4"
	"github.com/lorenamitrea/LocalLibrary/pkg/errcodes"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
)

const userKey = "user"

// Middleware provides authentication middleware.
type Middleware struct {
	authService *Service
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(authService *Service) *Middleware {
	return &Middleware{
		authService: authService,
	}
}

// Authenticate requires a valid session. Without one the request fails with
// an Unauthorized error, which sends browsers to the login page.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if UserFromContext(c) != nil {
			return next(c)
		}

		user, ok := m.resolve(c)
		if !ok {
			return errcodes.Unauthorized("Authentication required")
		}
		SetUser(c, user)

		return next(c)
	}
}

// AuthenticateOptional loads the logged in user if there is one, so every
// page can show who is logged in, but lets anonymous requests through.
func (m *Middleware) AuthenticateOptional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if user, ok := m.resolve(c); ok {
			SetUser(c, user)
		}
		return next(c)
	}
}

// RequirePermission returns middleware that checks if the user has the
// required permission. Must be used after Authenticate middleware.
func (m *Middleware) RequirePermission(resource, operation string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := UserFromContext(c)
			if user == nil {
				return errcodes.Unauthorized("Authentication required")
			}

			if !user.HasPermission(resource, operation) {
				return errcodes.Forbidden("This action")
			}

			return next(c)
		}
	}
}

func (m *Middleware) resolve(c echo.Context) (*models.User, bool) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	claims, err := m.authService.ValidateToken(cookie.Value)
	if err != nil {
		return nil, false
	}

	// The account may have been deactivated since the token was issued.
	user, err := m.authService.GetUserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return nil, false
	}
	return user, true
}

// UserFromContext returns the logged in user, or nil for anonymous requests.
func UserFromContext(c echo.Context) *models.User {
	user, _ := c.Get(userKey).(*models.User)
	return user
}

func SetUser(c echo.Context, user *models.User) {
	c.Set(userKey, user)
}
