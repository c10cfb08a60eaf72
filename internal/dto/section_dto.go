package dto

import (
	"encoding/json"
	"time"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/content"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/models"
)

// SectionPatch is the body of section create/upsert calls. Absent fields are
// left untouched on update; section_order is accepted as an alias of order.
type SectionPatch struct {
	Title        *string             `json:"title,omitempty"`
	Type         *models.SectionType `json:"type,omitempty"`
	Content      json.RawMessage     `json:"content,omitempty"`
	Visible      *bool               `json:"visible,omitempty"`
	Order        *int                `json:"order,omitempty"`
	SectionOrder *int                `json:"section_order,omitempty"`
}

func (p SectionPatch) OrderValue() *int {
	if p.Order != nil {
		return p.Order
	}
	return p.SectionOrder
}

// SectionResponse is a section with its content decoded.
type SectionResponse struct {
	ID        string             `json:"id"`
	UserID    int64              `json:"user_id"`
	Title     string             `json:"title"`
	Type      models.SectionType `json:"type"`
	Content   content.Value      `json:"content"`
	Visible   bool               `json:"visible"`
	Order     int                `json:"order"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt *time.Time         `json:"updated_at,omitempty"`
}

type SectionOrder struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

type CreateSectionResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type UploadResponse struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

type CheckImageResponse struct {
	Exists bool   `json:"exists"`
	URL    string `json:"url,omitempty"`
}
