package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/auth"
)

// AdminGuard ensures only admin users can reach the wrapped routes.
// It must run after RequireAuth.
func AdminGuard(guard *auth.Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := guard.AuthorizeAdmin(auth.CurrentUser(c)); err != nil {
				return err
			}
			return next(c)
		}
	}
}
