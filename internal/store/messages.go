package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/docsmith/docchat/internal/models"
)

type MessageStore struct {
	client *firestore.Client
}

func NewMessageStore(client *firestore.Client) *MessageStore {
	return &MessageStore{client: client}
}

// Append persists one message. Messages are immutable once written.
func (s *MessageStore) Append(ctx context.Context, msg models.Message) error {
	if _, err := s.client.Collection(messagesCollection).Doc(msg.MessageID).Set(ctx, msg); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// ListByConversation returns a conversation's messages in chronological
// order.
func (s *MessageStore) ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	iter := s.client.Collection(messagesCollection).
		Where("conversationId", "==", conversationID).
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var msgs []models.Message
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list messages for conversation %s: %w", conversationID, err)
		}
		var msg models.Message
		if err := snap.DataTo(&msg); err != nil {
			return nil, fmt.Errorf("failed to decode message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}
