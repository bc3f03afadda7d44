package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/docsmith/docchat/internal/models"
	"github.com/docsmith/docchat/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
)

// AuthService owns registration, login, and session resolution. Sessions
// are opaque keys cached in Redis with Firestore as source of truth.
type AuthService struct {
	users    *store.UserStore
	sessions *store.SessionCache
	log      *slog.Logger
}

func NewAuthService(users *store.UserStore, sessions *store.SessionCache, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		log:      log.With("service", "auth"),
	}
}

// Register creates an account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Username:     strings.TrimSpace(req.Username),
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("User registered.", "userId", user.UserID)
	return &user, nil
}

// Login verifies credentials, rotates the session key, and caches it.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err == store.ErrNotFound {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	sessionKey := newSessionKey(user.UserID)
	now := time.Now()
	if err := s.users.SetSessionKey(ctx, user.UserID, sessionKey, now); err != nil {
		return "", err
	}
	if err := s.sessions.Set(ctx, sessionKey, user.UserID); err != nil {
		// The cache is an accelerator; Firestore still resolves the session.
		s.log.Warn("Failed to cache session key.", "userId", user.UserID, "error", err)
	}

	s.log.Info("User logged in.", "userId", user.UserID)
	return sessionKey, nil
}

// UserFromSession resolves a session key to its user, preferring the Redis
// cache and refilling it on a Firestore fallback hit.
func (s *AuthService) UserFromSession(ctx context.Context, sessionKey string) (*models.User, error) {
	if sessionKey == "" {
		return nil, ErrSessionNotFound
	}

	if userID, err := s.sessions.Get(ctx, sessionKey); err == nil {
		user, err := s.users.GetByID(ctx, userID)
		if err == store.ErrNotFound {
			return nil, ErrSessionNotFound
		}
		if err != nil {
			return nil, err
		}
		// The cache can outlive a rotated key.
		if user.SessionKey != sessionKey {
			return nil, ErrSessionNotFound
		}
		return user, nil
	}

	user, err := s.users.GetBySessionKey(ctx, sessionKey)
	if err == store.ErrNotFound {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Set(ctx, sessionKey, user.UserID); err != nil {
		s.log.Warn("Failed to refill session cache.", "userId", user.UserID, "error", err)
	}
	return user, nil
}

// Logout invalidates the session everywhere.
func (s *AuthService) Logout(ctx context.Context, sessionKey string) error {
	user, err := s.UserFromSession(ctx, sessionKey)
	if err != nil {
		return err
	}
	if err := s.users.ClearSessionKey(ctx, user.UserID); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, sessionKey); err != nil {
		s.log.Warn("Failed to evict session from cache.", "userId", user.UserID, "error", err)
	}
	s.log.Info("User logged out.", "userId", user.UserID)
	return nil
}

func newSessionKey(userID string) string {
	sum := sha256.Sum256([]byte(uuid.NewString() + userID + time.Now().String()))
	return hex.EncodeToString(sum[:])
}
