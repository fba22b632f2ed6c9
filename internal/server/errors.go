package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/apperror"
)

// errorHandler renders every error as {"error": message, "kind": kind}.
// Causes of 5xx errors are logged and never sent to the client.
func errorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var status int
		var kind, msg string
		var he *echo.HTTPError
		var ae *apperror.Error
		switch {
		case errors.As(err, &ae):
			status = apperror.Status(ae.Kind)
			kind = ae.Kind.String()
			msg = ae.Message
		case errors.As(err, &he):
			status = he.Code
			kind = httpKind(he.Code)
			msg = fmt.Sprint(he.Message)
			if he.Code >= http.StatusInternalServerError {
				msg = http.StatusText(he.Code)
			}
		default:
			status = http.StatusInternalServerError
			kind = apperror.KindInternal.String()
			msg = "internal server error"
		}

		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Str("kind", kind).Msg("request failed")
		}
		if status == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, echo.Map{"error": msg, "kind": kind})
		}
		if err != nil {
			log.Error().Err(err).Msg("write error response")
		}
	}
}

// httpKind names the errors echo itself raises (routing, limits, binding).
func httpKind(code int) string {
	switch code {
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return apperror.KindNotFound.String()
	case http.StatusUnauthorized:
		return apperror.KindUnauthenticated.String()
	case http.StatusForbidden:
		return apperror.KindForbidden.String()
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusRequestEntityTooLarge, http.StatusBadRequest, http.StatusUnsupportedMediaType:
		return apperror.KindValidation.String()
	default:
		if code >= http.StatusInternalServerError {
			return apperror.KindInternal.String()
		}
		return "http"
	}
}
