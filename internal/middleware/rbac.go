package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/apperror"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/auth"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/user"
)

// RequireRoles ensures the requester's role is one of the allowed roles.
// Usage: route(..., RequireRoles(user.RoleAdmin, user.RoleUser))
func RequireRoles(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := auth.CurrentUser(c)
			if u == nil {
				return apperror.Unauthenticated()
			}
			for _, r := range roles {
				if u.Role == r {
					return next(c)
				}
			}
			return apperror.Forbidden("Not enough permissions")
		}
	}
}
