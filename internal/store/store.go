// Package store persists the portfolio Document as one unit: every read loads
// the whole document and every write replaces it.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/models"
)

// ErrStorage marks a failed write of the backing resource.
var ErrStorage = errors.New("storage failure")

// Backend reads and replaces the persisted document.
type Backend interface {
	Read(ctx context.Context) (*models.Document, error)
	Write(ctx context.Context, doc *models.Document) error
	Ping(ctx context.Context) error
	Name() string
}

// Content is the content store used by the services. Load never fails and
// Update serializes load-mutate-save cycles issued by this process; writers in
// other processes still race and the last save wins.
type Content struct {
	backend Backend
	mu      sync.Mutex
}

func New(backend Backend) *Content {
	return &Content{backend: backend}
}

// Load returns the current document, or an empty one when the backing
// resource is missing or cannot be decoded.
func (c *Content) Load(ctx context.Context) *models.Document {
	doc, err := c.backend.Read(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "content store load failed, using empty document",
			"backend", c.backend.Name(), "error", err)
		return models.NewDocument()
	}
	if doc == nil {
		return models.NewDocument()
	}
	doc.Normalize()
	return doc
}

func (c *Content) Save(ctx context.Context, doc *models.Document) error {
	doc.Normalize()
	if err := c.backend.Write(ctx, doc); err != nil {
		slog.ErrorContext(ctx, "content store save failed", "backend", c.backend.Name(), "error", err)
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// Update runs fn on a freshly loaded document and saves it when fn succeeds.
func (c *Content) Update(ctx context.Context, fn func(doc *models.Document) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc := c.Load(ctx)
	if err := fn(doc); err != nil {
		return err
	}
	return c.Save(ctx, doc)
}

func (c *Content) Ping(ctx context.Context) error {
	return c.backend.Ping(ctx)
}

func (c *Content) Backend() string {
	return c.backend.Name()
}
