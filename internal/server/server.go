// Package server assembles the echo instance: middleware, error rendering and routes.
package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/auth"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/blog"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/config"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/db"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/media"
)

// bodyLimit is media.MaxUploadSize plus room for the other form fields.
const bodyLimit = "12M"

// Deps are the long-lived collaborators built by main.
type Deps struct {
	Config config.Config
	Store  db.Store
	Media  media.Store
	Log    zerolog.Logger
}

type handlers struct {
	auth  *auth.Handler
	blogs *blog.Handler
	guard *auth.Guard
	store db.Store
}

// New builds the echo instance serving the API.
func New(d Deps) (*echo.Echo, error) {
	signer, err := auth.NewSigner([]byte(d.Config.JWTSecret), d.Config.JWTAlgorithm, d.Config.AccessTokenTTL)
	if err != nil {
		return nil, errors.Wrap(err, "token signer")
	}
	hasher := auth.NewHasher(d.Config.BcryptRounds)
	guard := auth.NewGuard(signer, d.Store)
	mgr := blog.NewManager(d.Store, d.Store, d.Media, d.Config.MediaTimeout, d.Log)

	h := handlers{
		auth:  auth.NewHandler(d.Store, hasher, signer, d.Log),
		blogs: blog.NewHandler(mgr, d.Log),
		guard: guard,
		store: d.Store,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(d.Log)

	setupMiddleware(e, d)
	registerRoutes(e, h, d.Config)
	return e, nil
}

func setupMiddleware(e *echo.Echo, d Deps) {
	log := d.Log
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     d.Config.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit(bodyLimit))
}

func authRateLimiter(perSecond float64) echo.MiddlewareFunc {
	return middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(perSecond)))
}
