package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/docsmith/docchat/internal/models"
	"github.com/docsmith/docchat/internal/store"
)

// ConversationService is a thin ownership-checking layer over the
// conversation and message stores.
type ConversationService struct {
	conversations *store.ConversationStore
	messages      *store.MessageStore
	uploads       *store.UploadStore
	log           *slog.Logger
}

func NewConversationService(conversations *store.ConversationStore, messages *store.MessageStore, uploads *store.UploadStore, log *slog.Logger) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		messages:      messages,
		uploads:       uploads,
		log:           log.With("service", "conversation"),
	}
}

// Create starts a new conversation and makes it the user's active one.
func (s *ConversationService) Create(ctx context.Context, userID, title string) (*models.Conversation, error) {
	if title == "" {
		title = "New Conversation"
	}
	now := time.Now()
	conv := models.Conversation{
		ConversationID: uuid.NewString(),
		UserID:         userID,
		Title:          title,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.conversations.Create(ctx, conv); err != nil {
		return nil, err
	}
	s.log.Info("Conversation created.", "conversationId", conv.ConversationID, "userId", userID)
	return &conv, nil
}

// List returns the user's conversations, newest activity first.
func (s *ConversationService) List(ctx context.Context, userID string) ([]models.Conversation, error) {
	return s.conversations.ListByUser(ctx, userID)
}

// Patch renames and/or activates a conversation the user owns.
func (s *ConversationService) Patch(ctx context.Context, userID, conversationID string, req models.PatchConversationRequest) (*models.Conversation, error) {
	conv, err := s.owned(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	if err := s.conversations.Patch(ctx, conv, req.Title, req.SetActive, time.Now()); err != nil {
		return nil, err
	}
	return s.conversations.Get(ctx, conversationID)
}

// Messages returns a conversation's history with attachment names resolved.
func (s *ConversationService) Messages(ctx context.Context, userID, conversationID string) ([]models.Message, error) {
	if _, err := s.owned(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	msgs, err := s.messages.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	for i := range msgs {
		if len(msgs[i].AttachedUploadIDs) == 0 {
			continue
		}
		recs, err := s.uploads.GetActiveByIDs(ctx, msgs[i].AttachedUploadIDs)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			msgs[i].Attachments = append(msgs[i].Attachments, models.AttachmentMeta{
				UploadID:     rec.UploadID,
				OriginalName: rec.OriginalName,
			})
		}
	}
	return msgs, nil
}

func (s *ConversationService) owned(ctx context.Context, userID, conversationID string) (*models.Conversation, error) {
	conv, err := s.conversations.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.UserID != userID {
		return nil, store.ErrNotFound
	}
	return conv, nil
}
