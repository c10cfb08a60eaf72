// Package assets stores uploaded images and builds their public URLs.
package assets

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var ErrInvalidName = errors.New("invalid asset name")

// Store is the backing storage for uploaded images.
type Store interface {
	Put(ctx context.Context, name, contentType string, r io.Reader, size int64) error
	Exists(ctx context.Context, name string) (bool, error)
	URL(name string) string
	Name() string
}

// CleanName reduces name to its base element and rejects names that would
// escape the store.
func CleanName(name string) (string, error) {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "" || base == "." || base == "/" || base == ".." {
		return "", ErrInvalidName
	}
	return base, nil
}

func joinURL(base, name string) string {
	return strings.TrimRight(base, "/") + "/" + name
}
