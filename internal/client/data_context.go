package client

import (
	"context"
	"io"
	"sync"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/models"
)

// DataContext mirrors the signed-in user's profile and sections. Every
// mutation goes to the server first and then reloads local state from it.
type DataContext struct {
	api *Client

	mu       sync.RWMutex
	user     *dto.UserResponse
	profile  models.Profile
	sections []Section
}

func NewDataContext(api *Client) *DataContext {
	return &DataContext{api: api}
}

// Restore resumes a session from a saved token and user id.
func (d *DataContext) Restore(ctx context.Context, token string, user dto.UserResponse) error {
	d.api.SetToken(token)
	d.mu.Lock()
	d.user = &user
	d.mu.Unlock()
	return d.Refresh(ctx)
}

func (d *DataContext) SignIn(ctx context.Context, email, password string) error {
	resp, err := d.api.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.user = &resp.User
	d.mu.Unlock()
	return d.Refresh(ctx)
}

func (d *DataContext) User() (dto.UserResponse, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.user == nil {
		return dto.UserResponse{}, false
	}
	return *d.user, true
}

func (d *DataContext) Token() string { return d.api.Token() }

func (d *DataContext) Profile() models.Profile {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.profile
}

func (d *DataContext) Sections() []Section {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Section, len(d.sections))
	copy(out, d.sections)
	return out
}

// Refresh reloads the profile and all sections of the signed-in user.
func (d *DataContext) Refresh(ctx context.Context) error {
	userID, err := d.userID()
	if err != nil {
		return err
	}

	profile, err := d.api.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	sections, err := d.api.ListSections(ctx, userID, false)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.profile = profile
	d.sections = sections
	d.mu.Unlock()
	return nil
}

func (d *DataContext) SaveProfile(ctx context.Context, patch map[string]any) error {
	return d.mutate(ctx, func(userID int64) error {
		return d.api.PutProfile(ctx, userID, patch)
	})
}

func (d *DataContext) AddSection(ctx context.Context, patch *dto.SectionPatch) (string, error) {
	var newID string
	err := d.mutate(ctx, func(userID int64) error {
		var err error
		newID, err = d.api.CreateSection(ctx, userID, patch)
		return err
	})
	return newID, err
}

func (d *DataContext) UpdateSection(ctx context.Context, sectionID string, patch *dto.SectionPatch) error {
	return d.mutate(ctx, func(userID int64) error {
		return d.api.UpsertSection(ctx, userID, sectionID, patch)
	})
}

func (d *DataContext) DeleteSection(ctx context.Context, sectionID string) error {
	return d.mutate(ctx, func(userID int64) error {
		return d.api.DeleteSection(ctx, userID, sectionID)
	})
}

func (d *DataContext) ReorderSections(ctx context.Context, updates []dto.SectionOrder) error {
	return d.mutate(ctx, func(int64) error {
		return d.api.ReorderSections(ctx, updates)
	})
}

func (d *DataContext) ChangePassword(ctx context.Context, current, next string) error {
	if _, err := d.userID(); err != nil {
		return err
	}
	return d.api.ChangePassword(ctx, current, next)
}

// UploadPhoto stores the image and returns its public URL. The caller links
// it from the profile with SaveProfile.
func (d *DataContext) UploadPhoto(ctx context.Context, filename string, r io.Reader) (*dto.UploadResponse, error) {
	if _, err := d.userID(); err != nil {
		return nil, err
	}
	return d.api.UploadPhoto(ctx, filename, r)
}

func (d *DataContext) mutate(ctx context.Context, fn func(userID int64) error) error {
	userID, err := d.userID()
	if err != nil {
		return err
	}
	if err := fn(userID); err != nil {
		return err
	}
	return d.Refresh(ctx)
}

func (d *DataContext) userID() (int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.user == nil {
		return 0, ErrNotSignedIn
	}
	return d.user.ID, nil
}
