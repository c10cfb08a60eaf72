package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore keeps uploads in a directory served by the HTTP server.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: baseURL}, nil
}

func (l *LocalStore) Name() string { return "local" }

func (l *LocalStore) Dir() string { return l.dir }

func (l *LocalStore) Put(_ context.Context, name, _ string, r io.Reader, _ int64) error {
	name, err := CleanName(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(l.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close upload: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod upload: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(l.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move upload: %w", err)
	}
	return nil
}

func (l *LocalStore) Exists(_ context.Context, name string) (bool, error) {
	name, err := CleanName(name)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(filepath.Join(l.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

func (l *LocalStore) URL(name string) string {
	return joinURL(l.baseURL, name)
}
