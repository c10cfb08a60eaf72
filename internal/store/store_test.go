package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/models"
)

type fakeBackend struct {
	readDoc  *models.Document
	readErr  error
	writeErr error
	written  *models.Document
}

func (f *fakeBackend) Read(context.Context) (*models.Document, error) { return f.readDoc, f.readErr }
func (f *fakeBackend) Write(_ context.Context, doc *models.Document) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = doc
	return nil
}
func (f *fakeBackend) Ping(context.Context) error { return nil }
func (f *fakeBackend) Name() string               { return "fake" }

func TestContent_LoadSwallowsBackendErrors(t *testing.T) {
	c := New(&fakeBackend{readErr: errors.New("disk on fire")})

	doc := c.Load(context.Background())

	require.NotNil(t, doc)
	assert.Empty(t, doc.Users)
	assert.NotNil(t, doc.Sections)
}

func TestContent_LoadNormalizesNilCollections(t *testing.T) {
	c := New(&fakeBackend{readDoc: &models.Document{}})

	doc := c.Load(context.Background())

	assert.NotNil(t, doc.Users)
	assert.NotNil(t, doc.Profiles)
	assert.NotNil(t, doc.Sections)
}

func TestContent_UpdateSkipsSaveWhenFnFails(t *testing.T) {
	b := &fakeBackend{readDoc: models.NewDocument()}
	c := New(b)

	err := c.Update(context.Background(), func(doc *models.Document) error {
		doc.Users = append(doc.Users, models.User{ID: 1})
		return errors.New("rejected")
	})

	require.EqualError(t, err, "rejected")
	assert.Nil(t, b.written)
}

func TestContent_UpdateReturnsSaveError(t *testing.T) {
	c := New(&fakeBackend{readDoc: models.NewDocument(), writeErr: errors.New("read-only fs")})

	err := c.Update(context.Background(), func(*models.Document) error { return nil })

	require.ErrorIs(t, err, ErrStorage)
	require.ErrorContains(t, err, "read-only fs")
}

func TestContent_UpdateSerializesWriters(t *testing.T) {
	c := New(NewFileBackend(filepath.Join(t.TempDir(), "data.json")))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := c.Update(ctx, func(doc *models.Document) error {
				doc.Sections = append(doc.Sections, models.Section{ID: fmt.Sprintf("section-%d", i), UserID: 1})
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, c.Load(ctx).Sections, 20)
}
