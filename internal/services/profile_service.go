package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/store"
)

type ProfileService struct {
	store *store.Content
	now   func() time.Time
}

func NewProfileService(st *store.Content) *ProfileService {
	return &ProfileService{store: st, now: time.Now}
}

// GetProfile returns the stored profile, or an empty stub for userID.
func (s *ProfileService) GetProfile(ctx context.Context, userID int64) models.Profile {
	if p := s.store.Load(ctx).ProfileFor(userID); p != nil {
		return *p
	}
	return models.Profile{UserID: userID, Fields: map[string]any{}}
}

// PutProfile shallow-merges patch into the user's profile, creating it first
// when absent.
func (s *ProfileService) PutProfile(ctx context.Context, userID int64, patch map[string]json.RawMessage) error {
	return s.store.Update(ctx, func(doc *models.Document) error {
		now := s.now().UTC()

		if p := doc.ProfileFor(userID); p != nil {
			if err := p.Merge(patch); err != nil {
				return newError(ErrValidation, err.Error())
			}
			p.UpdatedAt = &now
			return nil
		}

		p := models.Profile{
			ID:        doc.NextProfileID(),
			UserID:    userID,
			Fields:    map[string]any{},
			CreatedAt: now,
			UpdatedAt: &now,
		}
		if err := p.Merge(patch); err != nil {
			return newError(ErrValidation, err.Error())
		}
		doc.Profiles = append(doc.Profiles, p)
		return nil
	})
}
