package handlers

import (
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	uploadService *services.UploadService
}

func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

func (h *UploadHandler) UploadPhoto(c *fiber.Ctx) error {
	fh, err := c.FormFile("photo")
	if err != nil {
		return badRequest(c, "No file uploaded")
	}
	if fh.Size > h.uploadService.MaxBytes() {
		return badRequest(c, "File is too large")
	}

	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "Unable to read uploaded file")
	}
	defer f.Close()

	resp, err := h.uploadService.UploadPhoto(c.UserContext(), f, fh.Size)
	if err != nil {
		return fail(c, statusFor(err), err, "Failed to upload photo")
	}
	return c.JSON(resp)
}

func (h *UploadHandler) CheckImage(c *fiber.Ctx) error {
	resp, err := h.uploadService.CheckImage(c.UserContext(), c.Params("filename"))
	if err != nil {
		return fail(c, statusFor(err), err, "Failed to check image")
	}
	return c.JSON(resp)
}
