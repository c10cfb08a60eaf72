// Package server assembles the Fiber application from services and routes.
package server

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/assets"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/store"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

type Services struct {
	Store    *store.Content
	Auth     *services.AuthService
	Profiles *services.ProfileService
	Sections *services.SectionService
	Uploads  *services.UploadService
}

func NewServices(cfg *config.Config, st *store.Content, as assets.Store) *Services {
	return &Services{
		Store:    st,
		Auth:     services.NewAuthService(st, cfg),
		Profiles: services.NewProfileService(st),
		Sections: services.NewSectionService(st),
		Uploads:  services.NewUploadService(as, cfg.UploadMaxBytes),
	}
}

type Options struct {
	// StaticDir is served under /uploads when set.
	StaticDir string
	// AccessLog enables the per-request log line.
	AccessLog bool
}

func NewApp(cfg *config.Config, svc *Services, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		// multipart overhead on top of the largest accepted photo
		BodyLimit:    int(svc.Uploads.MaxBytes()) + 1<<20,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	app.Use(recover.New())
	app.Use(requestid.New())
	if opts.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
		}))
	}
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, svc.Auth, routes.Handlers{
		Auth:    handlers.NewAuthHandler(svc.Auth),
		Health:  handlers.NewHealthHandler(svc.Store),
		Profile: handlers.NewProfileHandler(svc.Profiles),
		Section: handlers.NewSectionHandler(svc.Sections),
		Upload:  handlers.NewUploadHandler(svc.Uploads),
	}, opts.StaticDir)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Success: false,
		Error:   message,
	})
}
