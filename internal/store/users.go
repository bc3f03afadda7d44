package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/docsmith/docchat/internal/models"
)

type UserStore struct {
	client *firestore.Client
}

func NewUserStore(client *firestore.Client) *UserStore {
	return &UserStore{client: client}
}

// Create persists a new user. Emails are unique across the collection.
func (s *UserStore) Create(ctx context.Context, user models.User) error {
	existing, err := s.client.Collection(usersCollection).
		Where("email", "==", user.Email).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("failed to check for existing email: %w", err)
	}
	if len(existing) > 0 {
		return ErrDuplicateEmail
	}

	if _, err := s.client.Collection(usersCollection).Doc(user.UserID).Set(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (*models.User, error) {
	snap, err := s.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}

	var user models.User
	if err := snap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", userID, err)
	}
	return &user, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getOneWhere(ctx, "email", email)
}

// GetBySessionKey resolves which user a session key belongs to. Used when
// the Redis cache misses.
func (s *UserStore) GetBySessionKey(ctx context.Context, sessionKey string) (*models.User, error) {
	return s.getOneWhere(ctx, "sessionKey", sessionKey)
}

func (s *UserStore) getOneWhere(ctx context.Context, field, value string) (*models.User, error) {
	docs, err := s.client.Collection(usersCollection).
		Where(field, "==", value).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query users by %s: %w", field, err)
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}

	var user models.User
	if err := docs[0].DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &user, nil
}

// SetSessionKey records a fresh session key and login time after a
// successful login.
func (s *UserStore) SetSessionKey(ctx context.Context, userID, sessionKey string, at time.Time) error {
	updates := []firestore.Update{
		{Path: "sessionKey", Value: sessionKey},
		{Path: "lastLogin", Value: at},
	}
	if _, err := s.client.Collection(usersCollection).Doc(userID).Update(ctx, updates); err != nil {
		return fmt.Errorf("failed to update session key for user %s: %w", userID, err)
	}
	return nil
}

// ClearSessionKey invalidates the user's current session on logout.
func (s *UserStore) ClearSessionKey(ctx context.Context, userID string) error {
	updates := []firestore.Update{
		{Path: "sessionKey", Value: ""},
	}
	if _, err := s.client.Collection(usersCollection).Doc(userID).Update(ctx, updates); err != nil {
		return fmt.Errorf("failed to clear session key for user %s: %w", userID, err)
	}
	return nil
}
