package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/celerix-dev/phonebook/internal/api"
	"github.com/celerix-dev/phonebook/internal/config"
	"github.com/celerix-dev/phonebook/internal/engine"
	"github.com/celerix-dev/phonebook/internal/logger"
	"github.com/celerix-dev/phonebook/internal/metrics"
	"github.com/celerix-dev/phonebook/internal/phonebook"
	"github.com/celerix-dev/phonebook/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

//go:embed all:dist
var frontendDist embed.FS

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "phonebookd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("PHONEBOOK_CONFIG"))
	if err != nil {
		return err
	}

	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer log.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := engine.Open(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer store.Close()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	svc, err := phonebook.New(store, phonebook.WithLogger(log), phonebook.WithMetrics(m))
	if err != nil {
		return err
	}

	distFS, err := fs.Sub(frontendDist, "dist")
	if err != nil {
		return err
	}

	router := api.NewRouter(svc, api.RouterOptions{
		Logger:           log,
		MetricsPath:      cfg.Metrics.Path,
		Static:           distFS,
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		LogRequestBodies: cfg.Log.RequestBodies,
	})

	log.Info("Starting phonebook daemon",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.Bool("metrics", cfg.Metrics.Enabled),
	)
	srv := server.New(router, ":"+cfg.App.Port, cfg.HTTP, log)
	if err := srv.Run(ctx); err != nil {
		return err
	}
	log.Info("Shutdown complete")
	return nil
}
