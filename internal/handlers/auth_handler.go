package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.SignIn(c.UserContext(), &req)
	if err != nil {
		// Unknown email and wrong password look the same to the caller.
		if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrInvalidCredential) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false, Error: "Invalid email or password",
			})
		}
		return fail(c, statusFor(err), err, "Sign in failed")
	}

	return c.JSON(resp)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID, ok := identity.UserID(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, services.ErrUnauthorized, "Unauthorized")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.authService.ChangePassword(c.UserContext(), userID, &req); err != nil {
		if errors.Is(err, services.ErrInvalidCredential) {
			return badRequest(c, err.Error())
		}
		return fail(c, statusFor(err), err, "Failed to change password")
	}

	return c.JSON(dto.SuccessResponse{Success: true, Message: "Password updated successfully"})
}
