package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/docsmith/docchat/internal/models"
)

type ConversationStore struct {
	client *firestore.Client
}

func NewConversationStore(client *firestore.Client) *ConversationStore {
	return &ConversationStore{client: client}
}

// Create persists a new conversation as the user's active one, deactivating
// any other active conversation first.
func (s *ConversationStore) Create(ctx context.Context, conv models.Conversation) error {
	if err := s.deactivateAll(ctx, conv.UserID); err != nil {
		return err
	}
	if _, err := s.client.Collection(conversationsCollection).Doc(conv.ConversationID).Set(ctx, conv); err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

func (s *ConversationStore) Get(ctx context.Context, conversationID string) (*models.Conversation, error) {
	snap, err := s.client.Collection(conversationsCollection).Doc(conversationID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get conversation %s: %w", conversationID, err)
	}

	var conv models.Conversation
	if err := snap.DataTo(&conv); err != nil {
		return nil, fmt.Errorf("failed to decode conversation %s: %w", conversationID, err)
	}
	return &conv, nil
}

// ListByUser returns the user's conversations, most recently updated first.
func (s *ConversationStore) ListByUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	iter := s.client.Collection(conversationsCollection).
		Where("userId", "==", userID).
		OrderBy("updatedAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var convs []models.Conversation
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list conversations for user %s: %w", userID, err)
		}
		var conv models.Conversation
		if err := snap.DataTo(&conv); err != nil {
			return nil, fmt.Errorf("failed to decode conversation: %w", err)
		}
		convs = append(convs, conv)
	}
	return convs, nil
}

// Patch applies a title change and/or activation. Activating deactivates the
// user's other conversations first.
func (s *ConversationStore) Patch(ctx context.Context, conv *models.Conversation, title string, setActive bool, at time.Time) error {
	updates := []firestore.Update{
		{Path: "updatedAt", Value: at},
	}
	if title != "" {
		updates = append(updates, firestore.Update{Path: "title", Value: title})
	}
	if setActive {
		if err := s.deactivateAll(ctx, conv.UserID); err != nil {
			return err
		}
		updates = append(updates, firestore.Update{Path: "isActive", Value: true})
	}

	if _, err := s.client.Collection(conversationsCollection).Doc(conv.ConversationID).Update(ctx, updates); err != nil {
		return fmt.Errorf("failed to patch conversation %s: %w", conv.ConversationID, err)
	}
	return nil
}

// Touch bumps updatedAt after a message lands.
func (s *ConversationStore) Touch(ctx context.Context, conversationID string, at time.Time) error {
	updates := []firestore.Update{
		{Path: "updatedAt", Value: at},
	}
	if _, err := s.client.Collection(conversationsCollection).Doc(conversationID).Update(ctx, updates); err != nil {
		return fmt.Errorf("failed to touch conversation %s: %w", conversationID, err)
	}
	return nil
}

func (s *ConversationStore) deactivateAll(ctx context.Context, userID string) error {
	docs, err := s.client.Collection(conversationsCollection).
		Where("userId", "==", userID).
		Where("isActive", "==", true).
		Documents(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("failed to query active conversations for user %s: %w", userID, err)
	}

	for _, doc := range docs {
		updates := []firestore.Update{
			{Path: "isActive", Value: false},
		}
		if _, err := doc.Ref.Update(ctx, updates); err != nil {
			return fmt.Errorf("failed to deactivate conversation %s: %w", doc.Ref.ID, err)
		}
	}
	return nil
}
