package models

import "time"

type SectionType string

const (
	SectionText  SectionType = "text"
	SectionList  SectionType = "list"
	SectionCards SectionType = "cards"
)

func (t SectionType) Valid() bool {
	switch t {
	case SectionText, SectionList, SectionCards:
		return true
	}
	return false
}

// Section is a content block as persisted in the store. Content is always a
// string: raw text for text sections, JSON for list and cards sections.
type Section struct {
	ID        string      `json:"id"`
	UserID    int64       `json:"user_id"`
	Title     string      `json:"title"`
	Type      SectionType `json:"type"`
	Content   string      `json:"content"`
	Visible   bool        `json:"visible"`
	Order     int         `json:"order"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt *time.Time  `json:"updated_at,omitempty"`
}
