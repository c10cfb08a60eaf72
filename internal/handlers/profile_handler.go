package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, err := pathUserID(c)
	if err != nil {
		return badRequest(c, "Invalid user id")
	}
	return c.JSON(h.profileService.GetProfile(c.UserContext(), userID))
}

func (h *ProfileHandler) Put(c *fiber.Ctx) error {
	userID, err := pathUserID(c)
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	var patch map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &patch); err != nil || patch == nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.profileService.PutProfile(c.UserContext(), userID, patch); err != nil {
		return fail(c, statusFor(err), err, "Failed to save profile")
	}

	return c.JSON(dto.SuccessResponse{Success: true})
}

func pathUserID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("userId"), 10, 64)
}
