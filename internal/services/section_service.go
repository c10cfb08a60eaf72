package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/content"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/store"
)

const sectionIDPrefix = "section-"

type SectionService struct {
	store *store.Content
	now   func() time.Time
}

func NewSectionService(st *store.Content) *SectionService {
	return &SectionService{store: st, now: time.Now}
}

// ListSections returns the user's sections in stored order with list and
// cards content decoded.
func (s *SectionService) ListSections(ctx context.Context, userID int64, visibleOnly bool) []dto.SectionResponse {
	sections := s.store.Load(ctx).SectionsFor(userID)

	out := make([]dto.SectionResponse, 0, len(sections))
	for _, sec := range sections {
		if visibleOnly && !sec.Visible {
			continue
		}
		value := content.Decode(sec.Type, sec.Content)
		if _, raw := value.(content.Raw); raw && sec.Type != models.SectionText {
			slog.DebugContext(ctx, "section content kept raw", "section_id", sec.ID, "type", string(sec.Type))
		}
		out = append(out, dto.SectionResponse{
			ID:        sec.ID,
			UserID:    sec.UserID,
			Title:     sec.Title,
			Type:      sec.Type,
			Content:   value,
			Visible:   sec.Visible,
			Order:     sec.Order,
			CreatedAt: sec.CreatedAt,
			UpdatedAt: sec.UpdatedAt,
		})
	}
	return out
}

// UpsertSection updates (sectionID, userID) or creates it with that id.
func (s *SectionService) UpsertSection(ctx context.Context, userID int64, sectionID string, patch *dto.SectionPatch) error {
	sectionID = strings.TrimSpace(sectionID)
	if sectionID == "" {
		return newError(ErrValidation, "section id is required")
	}

	return s.store.Update(ctx, func(doc *models.Document) error {
		now := s.now().UTC()
		if existing := doc.Section(userID, sectionID); existing != nil {
			return applyPatch(existing, patch, now)
		}

		sec, err := newSection(doc, userID, sectionID, patch, now)
		if err != nil {
			return err
		}
		doc.Sections = append(doc.Sections, sec)
		return nil
	})
}

// AddSection always creates a section under a freshly generated id.
func (s *SectionService) AddSection(ctx context.Context, userID int64, patch *dto.SectionPatch) (string, error) {
	var id string
	err := s.store.Update(ctx, func(doc *models.Document) error {
		now := s.now().UTC()
		id = nextSectionID(doc, now)

		sec, err := newSection(doc, userID, id, patch, now)
		if err != nil {
			return err
		}
		doc.Sections = append(doc.Sections, sec)
		return nil
	})
	if err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "section created", "user_id", userID, "section_id", id)
	return id, nil
}

// DeleteSection removes (sectionID, userID). Deleting a missing section succeeds.
func (s *SectionService) DeleteSection(ctx context.Context, userID int64, sectionID string) error {
	return s.store.Update(ctx, func(doc *models.Document) error {
		if !doc.RemoveSection(userID, sectionID) {
			slog.DebugContext(ctx, "delete of unknown section", "user_id", userID, "section_id", sectionID)
		}
		return nil
	})
}

// ReorderSections applies the given orders to the user's sections. Unknown
// ids and sections owned by other users are skipped. It returns how many
// sections were updated.
func (s *SectionService) ReorderSections(ctx context.Context, userID int64, updates []dto.SectionOrder) (int, error) {
	applied := 0
	err := s.store.Update(ctx, func(doc *models.Document) error {
		now := s.now().UTC()
		for _, u := range updates {
			sec := doc.Section(userID, u.ID)
			if sec == nil {
				continue
			}
			sec.Order = u.Order
			sec.UpdatedAt = &now
			applied++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return applied, nil
}

func nextSectionID(doc *models.Document, now time.Time) string {
	ts := now.UnixMilli()
	for {
		id := fmt.Sprintf("%s%d", sectionIDPrefix, ts)
		if !doc.HasSectionID(id) {
			return id
		}
		ts++
	}
}

func newSection(doc *models.Document, userID int64, id string, patch *dto.SectionPatch, now time.Time) (models.Section, error) {
	sec := models.Section{
		ID:        id,
		UserID:    userID,
		Type:      models.SectionText,
		Visible:   true,
		Order:     len(doc.SectionsFor(userID)),
		CreatedAt: now,
	}
	if patch == nil {
		patch = &dto.SectionPatch{}
	}
	if err := applyFields(&sec, patch); err != nil {
		return models.Section{}, err
	}

	value, err := content.Parse(sec.Type, patch.Content)
	if err != nil {
		return models.Section{}, contentError(err)
	}
	if sec.Content, err = content.Encode(value); err != nil {
		return models.Section{}, err
	}
	return sec, nil
}

func applyPatch(sec *models.Section, patch *dto.SectionPatch, now time.Time) error {
	if patch == nil {
		patch = &dto.SectionPatch{}
	}
	if err := applyFields(sec, patch); err != nil {
		return err
	}
	if patch.Content != nil {
		value, err := content.Parse(sec.Type, patch.Content)
		if err != nil {
			return contentError(err)
		}
		if sec.Content, err = content.Encode(value); err != nil {
			return err
		}
	}
	sec.UpdatedAt = &now
	return nil
}

func applyFields(sec *models.Section, patch *dto.SectionPatch) error {
	if patch.Type != nil {
		if !patch.Type.Valid() {
			return newError(ErrValidation, fmt.Sprintf("unknown section type %q", *patch.Type))
		}
		sec.Type = *patch.Type
	}
	if patch.Title != nil {
		sec.Title = *patch.Title
	}
	if patch.Visible != nil {
		sec.Visible = *patch.Visible
	}
	if order := patch.OrderValue(); order != nil {
		sec.Order = *order
	}
	return nil
}

func contentError(err error) error {
	if errors.Is(err, content.ErrInvalidContent) {
		return newError(ErrValidation, err.Error())
	}
	return err
}
