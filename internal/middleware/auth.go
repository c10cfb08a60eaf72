package middleware

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/models"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// UserResolver confirms a token subject still names a stored user.
type UserResolver interface {
	ResolveUser(ctx context.Context, id int64) (*models.User, error)
}

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false,
				Error:   "Unauthorized: invalid or expired token",
			})
		},
	})
}

// RequireUser resolves the JWT subject to a user and stores its id for
// handlers. It must run after JWTProtected.
func RequireUser(users UserResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := identity.SubjectID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false, Error: "Unauthorized: invalid token subject",
			})
		}

		if _, err := users.ResolveUser(c.UserContext(), id); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false, Error: "Unauthorized: unknown user",
			})
		}

		identity.SetUserID(c, id)
		return c.Next()
	}
}
