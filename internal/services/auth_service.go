package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

var errAlreadySeeded = errors.New("seed user already present")

type AuthService struct {
	store    *store.Content
	cfg      *config.Config
	hashCost int
	now      func() time.Time
}

func NewAuthService(st *store.Content, cfg *config.Config) *AuthService {
	return &AuthService{
		store:    st,
		cfg:      cfg,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// SeedParams describes the administrative account created on first start.
type SeedParams struct {
	Email    string
	Password string
	Nom      string
	Prenom   string
}

// EnsureSeedUser creates the seed user and its default profile when no user
// has the seed email. It reports whether anything was created.
func (s *AuthService) EnsureSeedUser(ctx context.Context, p SeedParams) (bool, error) {
	email := strings.TrimSpace(p.Email)
	if email == "" {
		return false, newError(ErrValidation, "seed email is required")
	}

	if s.store.Load(ctx).UserByEmail(email) != nil {
		return false, nil
	}
	if len(p.Password) < MinPasswordLength {
		return false, newError(ErrValidation, "seed password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), s.hashCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.store.Update(ctx, func(doc *models.Document) error {
		if doc.UserByEmail(email) != nil {
			return errAlreadySeeded
		}

		now := s.now().UTC()
		user := models.User{
			ID:           doc.NextUserID(),
			Email:        email,
			PasswordHash: string(hash),
			CreatedAt:    now,
		}
		doc.Users = append(doc.Users, user)

		if doc.ProfileFor(user.ID) == nil {
			doc.Profiles = append(doc.Profiles, models.Profile{
				ID:        doc.NextProfileID(),
				UserID:    user.ID,
				Nom:       p.Nom,
				Prenom:    p.Prenom,
				Fields:    map[string]any{},
				CreatedAt: now,
			})
		}
		return nil
	})
	if errors.Is(err, errAlreadySeeded) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	slog.InfoContext(ctx, "seed user created", "email", email)
	return true, nil
}

func (s *AuthService) SignIn(ctx context.Context, req *dto.SignInRequest) (*dto.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, newError(ErrValidation, "email and password are required")
	}
	if len(req.Password) < MinPasswordLength {
		return nil, newError(ErrValidation, "password must be at least 6 characters")
	}

	user := s.store.Load(ctx).UserByEmail(email)
	if user == nil {
		return nil, newError(ErrNotFound, "user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, newError(ErrInvalidCredential, "invalid email or password")
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user signed in", "user_id", user.ID)
	return &dto.AuthResponse{
		Success: true,
		User:    dto.UserResponse{ID: user.ID, Email: user.Email},
		Token:   token,
	}, nil
}

// ResolveUser checks that an id taken from a verified token still names a user.
func (s *AuthService) ResolveUser(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, newError(ErrUnauthorized, "user identity is required")
	}
	user := s.store.Load(ctx).UserByID(id)
	if user == nil {
		return nil, newError(ErrUnauthorized, "unknown user")
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return newError(ErrValidation, "current and new password are required")
	}
	if len(req.NewPassword) < MinPasswordLength {
		return newError(ErrValidation, "new password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.store.Update(ctx, func(doc *models.Document) error {
		user := doc.UserByID(userID)
		if user == nil {
			return newError(ErrUnauthorized, "unknown user")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			return newError(ErrInvalidCredential, "current password is incorrect")
		}
		now := s.now().UTC()
		user.PasswordHash = string(hash)
		user.UpdatedAt = &now
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "password changed", "user_id", userID)
	return nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(user.ID, 10),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
