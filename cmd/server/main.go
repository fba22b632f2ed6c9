package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/config"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/db"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/logger"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/media"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/server"
)

const (
	connectTimeout  = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	envFile := config.LoadDotenv()

	cfg, err := config.Load()
	if err != nil {
		boot := logger.New(os.Stderr, "info", "console")
		boot.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if envFile != "" {
		log.Info().Str("path", envFile).Msg("loaded env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	backend, _ := db.Backend(cfg.DatabaseURL)
	openCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	store, err := db.Open(openCtx, cfg.DatabaseURL, cfg.MongoDBName)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Str("backend", backend).Str("dsn", db.MaskDSN(cfg.DatabaseURL)).Msg("unable to open store")
	}
	defer store.Close()
	log.Info().Str("backend", backend).Msg("connected to store")

	images, err := newMediaStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to configure media store")
	}
	log.Info().Str("media", images.Name()).Msg("media store ready")

	e, err := server.New(server.Deps{Config: cfg, Store: store, Media: images, Log: log})
	if err != nil {
		log.Fatal().Err(err).Msg("unable to build server")
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// newMediaStore picks the image host once for the whole process.
func newMediaStore(cfg config.Config) (media.Store, error) {
	if cfg.MediaBackend() == config.MediaCloudinary {
		c := cfg.Cloudinary
		return media.NewCloudinary(c.CloudName, c.APIKey, c.APISecret, c.Folder)
	}
	return media.NewLocal(cfg.UploadDir, "/uploads")
}

