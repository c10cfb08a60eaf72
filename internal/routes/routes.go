package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Health  *handlers.HealthHandler
	Profile *handlers.ProfileHandler
	Section *handlers.SectionHandler
	Upload  *handlers.UploadHandler
}

// Setup registers the API. staticDir, when set, is served under /uploads.
func Setup(
	app *fiber.App,
	cfg *config.Config,
	users middleware.UserResolver,
	h Handlers,
	staticDir string,
) {
	if staticDir != "" {
		app.Static("/uploads", staticDir, fiber.Static{
			Browse:        false,
			CacheDuration: 10 * time.Minute,
		})
	}

	api := app.Group("/api")

	// General API rate limiter: 120 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Sign-in rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/signin", h.Auth.SignIn)

	// Public reads
	api.Get("/profile/:userId", h.Profile.Get)
	api.Get("/sections/:userId", h.Section.List)
	api.Get("/check-image/:filename", h.Upload.CheckImage)

	// Protected routes are registered one by one so the JWT middleware never
	// runs for the public reads above.
	authed := []fiber.Handler{middleware.JWTProtected(cfg), middleware.RequireUser(users)}
	owner := append(authed[:len(authed):len(authed)], middleware.OwnerOnly("userId"))

	api.Post("/change-password", with(authed, h.Auth.ChangePassword)...)
	api.Post("/upload/photo", with(authed, h.Upload.UploadPhoto)...)

	// reorder must come before the parameterised section routes
	api.Put("/sections/reorder", with(authed, h.Section.Reorder)...)

	api.Put("/profile/:userId", with(owner, h.Profile.Put)...)
	api.Post("/sections/:userId", with(owner, h.Section.Create)...)
	api.Put("/sections/:userId/:sectionId", with(owner, h.Section.Upsert)...)
	api.Delete("/sections/:userId/:sectionId", with(owner, h.Section.Delete)...)
}

func with(chain []fiber.Handler, h fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(chain)+1)
	out = append(out, chain...)
	return append(out, h)
}
