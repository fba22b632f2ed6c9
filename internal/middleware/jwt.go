package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/apperror"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/auth"
)

// RequireAuth resolves the bearer token to a user and stores it on the context.
func RequireAuth(guard *auth.Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return apperror.Unauthenticated()
			}
			u, err := guard.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}
			auth.SetCurrentUser(c, u)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
