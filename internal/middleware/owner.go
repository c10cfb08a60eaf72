package middleware

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/identity"
	"github.com/gofiber/fiber/v2"
)

// OwnerOnly rejects requests whose :userId path parameter differs from the
// authenticated user. It must run after RequireUser.
func OwnerOnly(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, ok := identity.UserID(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false, Error: "Unauthorized",
			})
		}

		target, err := strconv.ParseInt(c.Params(param), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Success: false, Error: "Invalid user id",
			})
		}

		if target != current {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Success: false, Error: "You can only modify your own content",
			})
		}
		return c.Next()
	}
}
