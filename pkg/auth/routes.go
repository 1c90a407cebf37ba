package auth

import (
	"github.com/labstack/echo/v4"
	"github.com/lorenamitrea/LocalLibrary/pkg/config"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the login and logout pages and returns the
// middleware the rest of the site authenticates with.
func RegisterRoutes(e *echo.Echo, db *bun.DB, cfg *config.Config) *Middleware {
	authService := NewService(db, cfg.JWTSecret)
	authMiddleware := NewMiddleware(authService)

	h := &handler{
		authService: authService,
		limiter:     NewLoginLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst),
	}

	accounts := e.Group("/accounts")
	accounts.GET("/login/", h.loginForm)
	accounts.POST("/login/", h.login)
	accounts.POST("/logout/", h.logout)

	return authMiddleware
}
