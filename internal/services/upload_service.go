package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/assets"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/dto"
	"github.com/google/uuid"
)

const DefaultUploadMaxBytes int64 = 2 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type UploadService struct {
	assets   assets.Store
	maxBytes int64
}

func NewUploadService(st assets.Store, maxBytes int64) *UploadService {
	if maxBytes <= 0 {
		maxBytes = DefaultUploadMaxBytes
	}
	return &UploadService{assets: st, maxBytes: maxBytes}
}

func (s *UploadService) MaxBytes() int64 { return s.maxBytes }

// UploadPhoto stores an image under a generated photo-<uuid> name. The type
// is sniffed from the bytes, not taken from the client.
func (s *UploadService) UploadPhoto(ctx context.Context, r io.Reader, size int64) (*dto.UploadResponse, error) {
	if size > s.maxBytes {
		return nil, newError(ErrValidation, fmt.Sprintf("file exceeds %d bytes", s.maxBytes))
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, newError(ErrValidation, fmt.Sprintf("file exceeds %d bytes", s.maxBytes))
	}
	if len(data) == 0 {
		return nil, newError(ErrValidation, "file is empty")
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, newError(ErrValidation, "only image files are allowed")
	}

	filename := "photo-" + uuid.New().String() + ext
	if err := s.assets.Put(ctx, filename, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	slog.InfoContext(ctx, "photo uploaded", "filename", filename, "store", s.assets.Name(), "bytes", len(data))
	return &dto.UploadResponse{
		Success:  true,
		URL:      s.assets.URL(filename),
		Filename: filename,
	}, nil
}

func (s *UploadService) CheckImage(ctx context.Context, filename string) (*dto.CheckImageResponse, error) {
	name, err := assets.CleanName(filename)
	if err != nil {
		return &dto.CheckImageResponse{Exists: false}, nil
	}

	ok, err := s.assets.Exists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check image: %w", err)
	}
	if !ok {
		return &dto.CheckImageResponse{Exists: false}, nil
	}
	return &dto.CheckImageResponse{Exists: true, URL: s.assets.URL(name)}, nil
}
