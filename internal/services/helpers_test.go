package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/store"
	"golang.org/x/crypto/bcrypt"
)

func newTestStore(t *testing.T) *store.Content {
	t.Helper()
	return store.New(store.NewFileBackend(filepath.Join(t.TempDir(), "portfolio.json")))
}

func newTestAuth(t *testing.T, st *store.Content) *AuthService {
	t.Helper()
	cfg := &config.Config{JWTSecret: "test-secret", JWTAccessExpiry: time.Hour}
	svc := NewAuthService(st, cfg)
	svc.hashCost = bcrypt.MinCost
	return svc
}

// fixedClock returns successive instants one millisecond apart.
func fixedClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		t := now
		now = now.Add(time.Millisecond)
		return t
	}
}
