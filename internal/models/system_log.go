package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SystemLog is an ERROR+ log record persisted when the Postgres backend is on.
type SystemLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	Level     string         `gorm:"size:10;not null;index" json:"level"`
	Message   string         `gorm:"type:text" json:"message"`
	RequestID string         `gorm:"size:36;index" json:"request_id"`
	UserID    *int64         `json:"user_id"`
	SectionID string         `gorm:"size:64" json:"section_id"`
	Path      string         `gorm:"size:255" json:"path"`
	Error     string         `gorm:"type:text" json:"error"`
	Extra     datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"extra"`
	CreatedAt time.Time      `json:"created_at"`
}

// ContentDocument holds the whole Document as a single jsonb row.
type ContentDocument struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Body      datatypes.JSON `gorm:"type:jsonb;not null" json:"body"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (ContentDocument) TableName() string {
	return "content_documents"
}
