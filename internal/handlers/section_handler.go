package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SectionHandler struct {
	sectionService *services.SectionService
}

func NewSectionHandler(sectionService *services.SectionService) *SectionHandler {
	return &SectionHandler{sectionService: sectionService}
}

func (h *SectionHandler) List(c *fiber.Ctx) error {
	userID, err := pathUserID(c)
	if err != nil {
		return badRequest(c, "Invalid user id")
	}
	visibleOnly := c.QueryBool("visible", false)
	return c.JSON(h.sectionService.ListSections(c.UserContext(), userID, visibleOnly))
}

func (h *SectionHandler) Upsert(c *fiber.Ctx) error {
	userID, err := pathUserID(c)
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	var patch dto.SectionPatch
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.sectionService.UpsertSection(c.UserContext(), userID, c.Params("sectionId"), &patch); err != nil {
		return fail(c, statusFor(err), err, "Failed to save section")
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

func (h *SectionHandler) Create(c *fiber.Ctx) error {
	userID, err := pathUserID(c)
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	var patch dto.SectionPatch
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return badRequest(c, "Invalid request body")
	}

	id, err := h.sectionService.AddSection(c.UserContext(), userID, &patch)
	if err != nil {
		return fail(c, statusFor(err), err, "Failed to create section")
	}
	return c.JSON(dto.CreateSectionResponse{Success: true, ID: id})
}

func (h *SectionHandler) Delete(c *fiber.Ctx) error {
	userID, err := pathUserID(c)
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	if err := h.sectionService.DeleteSection(c.UserContext(), userID, c.Params("sectionId")); err != nil {
		return fail(c, statusFor(err), err, "Failed to delete section")
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

// Reorder accepts either a bare array of {id, order} or {"sections": [...]}.
func (h *SectionHandler) Reorder(c *fiber.Ctx) error {
	userID, ok := identity.UserID(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, services.ErrUnauthorized, "Unauthorized")
	}

	updates, err := parseReorder(c.Body())
	if err != nil {
		return badRequest(c, "Invalid sections payload")
	}

	n, err := h.sectionService.ReorderSections(c.UserContext(), userID, updates)
	if err != nil {
		return fail(c, statusFor(err), err, "Failed to reorder sections")
	}
	return c.JSON(dto.SuccessResponse{
		Success: true,
		Message: fmt.Sprintf("%d sections reordered", n),
	})
}

func parseReorder(body []byte) ([]dto.SectionOrder, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("empty body")
	}

	var updates []dto.SectionOrder
	if body[0] == '[' {
		if err := json.Unmarshal(body, &updates); err != nil {
			return nil, err
		}
		return updates, nil
	}

	var wrapped struct {
		Sections *[]dto.SectionOrder `json:"sections"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Sections == nil {
		return nil, fmt.Errorf("sections is required")
	}
	return *wrapped.Sections, nil
}
