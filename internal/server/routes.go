package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/config"
	mware "github.com/Ashankavinda277/My-personal-website-Backend/internal/middleware"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/user"
)

const readyTimeout = 2 * time.Second

func registerRoutes(e *echo.Echo, h handlers, cfg config.Config) {
	// Health and root routes
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"message": "Concepts Blog API running"})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), readyTimeout)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db unreachable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	if cfg.MediaBackend() == config.MediaLocal {
		e.Static("/uploads", cfg.UploadDir)
	}

	requireAuth := mware.RequireAuth(h.guard)
	adminOnly := []echo.MiddlewareFunc{requireAuth, mware.AdminGuard(h.guard)}

	// Auth routes, rate limited per IP
	authGroup := e.Group("/auth")
	if cfg.AuthRateLimit > 0 {
		authGroup.Use(authRateLimiter(cfg.AuthRateLimit))
	}
	authGroup.POST("/register", h.auth.Register)
	authGroup.POST("/login", h.auth.Login)
	authGroup.GET("/me", h.auth.Me, requireAuth, mware.RequireRoles(user.RoleAdmin, user.RoleUser))

	// Public blog routes
	blogs := e.Group("/blogs")
	blogs.GET("", h.blogs.List)
	blogs.GET("/", h.blogs.List)
	blogs.GET("/types", h.blogs.ListTypes)
	blogs.GET("/:id", h.blogs.Get)

	// Admin blog routes
	blogs.POST("", h.blogs.Create, adminOnly...)
	blogs.POST("/", h.blogs.Create, adminOnly...)
	blogs.PUT("/:id", h.blogs.Update, adminOnly...)
	blogs.DELETE("/:id", h.blogs.Delete, adminOnly...)

	blogs.POST("/types", h.blogs.CreateType, adminOnly...)
	blogs.PUT("/types/:name", h.blogs.RenameType, adminOnly...)
	blogs.DELETE("/types/:name", h.blogs.DeleteType, adminOnly...)
}
