package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/assets"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/server"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/store"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx := context.Background()

	// Content store
	var (
		backend      store.Backend
		db           *gorm.DB
		pgLogHandler *logging.PGHandler
		cleanupDone  = make(chan struct{})
	)
	switch cfg.StoreDriver {
	case "postgres":
		if cfg.DBPassword == "" {
			slog.Error("DB_PASSWORD environment variable is required for the postgres store")
			os.Exit(1)
		}
		var err error
		db, err = database.Connect(cfg)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(db); err != nil {
			slog.Error("database migration failed", "error", err)
			os.Exit(1)
		}
		backend = store.NewPostgresBackend(db)

		// PostgreSQL log handler (ERROR+ async batch)
		pgLogHandler = logging.NewPGHandler(db, 5*time.Second)
		slog.SetDefault(slog.New(logging.NewMultiHandler(
			slog.Default().Handler(),
			pgLogHandler,
		)))

		// Log cleanup (30-day retention)
		logging.StartCleanup(db, cleanupDone)
	case "file":
		backend = store.NewFileBackend(cfg.DataFile)
	default:
		slog.Error("unknown STORE_DRIVER", "driver", cfg.StoreDriver)
		os.Exit(1)
	}
	st := store.New(backend)
	slog.Info("content store ready", "backend", backend.Name())

	// Upload storage
	var (
		assetStore assets.Store
		staticDir  string
	)
	switch cfg.UploadDriver {
	case "s3":
		s3Store, err := assets.NewS3Store(ctx, assets.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			BaseURL:   cfg.PublicBaseURL,
		})
		if err != nil {
			slog.Error("s3 upload store init failed", "error", err)
			os.Exit(1)
		}
		assetStore = s3Store
	default:
		local, err := assets.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
		if err != nil {
			slog.Error("local upload store init failed", "dir", cfg.UploadDir, "error", err)
			os.Exit(1)
		}
		assetStore = local
		staticDir = local.Dir()
	}

	svc := server.NewServices(cfg, st, assetStore)

	// Seed user. A failure is reported but the server keeps serving.
	if cfg.AdminPassword == "" {
		slog.Warn("ADMIN_PASSWORD not set, skipping seed user")
	} else if created, err := svc.Auth.EnsureSeedUser(ctx, services.SeedParams{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Nom:      cfg.AdminNom,
		Prenom:   cfg.AdminPrenom,
	}); err != nil {
		slog.Error("seed user initialization failed", "email", cfg.AdminEmail, "error", err)
		sentry.CaptureException(err)
	} else if created {
		slog.Info("seed user initialized", "email", cfg.AdminEmail)
	}

	app := server.NewApp(cfg, svc, server.Options{StaticDir: staticDir, AccessLog: true})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "store", backend.Name(), "uploads", assetStore.Name())
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	if pgLogHandler != nil {
		pgLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if db != nil {
		if err := database.Close(db); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}
