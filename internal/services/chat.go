package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/docsmith/docchat/internal/extraction"
	"github.com/docsmith/docchat/internal/models"
	"github.com/docsmith/docchat/internal/store"
)

// groundedPromptTemplate frames a model call around extracted content.
const groundedPromptTemplate = `
User Query: %s

%s

EXTRACTED DOCUMENT CONTENT:
%s

Instructions: Analyze the extracted content above and respond to the user's query. If the user asked "yes" or wants a general analysis, provide:
1. Key insights and summaries from the documents
2. Important findings or data points
3. 3-5 strategic questions to better understand their needs for creating professional deliverables
4. Suggestions for what kind of templates or reports could be created

If they asked a specific question, focus your response on that question using the extracted content as context.
`

// Completer abstracts the LLM behind the chat flow. Grounded calls use the
// analyst persona; ungrounded calls use the assistant persona.
type Completer interface {
	Complete(ctx context.Context, prompt string, grounded bool) (string, error)
}

// The chat flow needs only narrow slices of the stores.
type conversationResolver interface {
	Get(ctx context.Context, conversationID string) (*models.Conversation, error)
	Touch(ctx context.Context, conversationID string, at time.Time) error
}

type messageAppender interface {
	Append(ctx context.Context, msg models.Message) error
}

type attachmentResolver interface {
	GetActiveByIDs(ctx context.Context, ids []string) ([]models.UploadRecord, error)
}

// ChatService drives one conversation turn: persist the user's message, run
// any attachments through extraction, query the model, persist the answer.
type ChatService struct {
	conversations conversationResolver
	messages      messageAppender
	uploads       attachmentResolver
	batch         *extraction.Orchestrator
	completer     Completer
	log           *slog.Logger
}

func NewChatService(
	conversations conversationResolver,
	messages messageAppender,
	uploads attachmentResolver,
	batch *extraction.Orchestrator,
	completer Completer,
	log *slog.Logger,
) *ChatService {
	return &ChatService{
		conversations: conversations,
		messages:      messages,
		uploads:       uploads,
		batch:         batch,
		completer:     completer,
		log:           log.With("service", "chat"),
	}
}

// Respond handles one chat turn for an authenticated user. The user message
// is persisted before anything fallible runs, so a failed turn still shows
// up in history.
func (s *ChatService) Respond(ctx context.Context, user *models.User, req models.ChatRequest) (string, error) {
	if req.Text == "" {
		return "", extraction.Errorf(extraction.KindInvalidParameters, "message text is required")
	}

	conv, err := s.conversations.Get(ctx, req.ConversationID)
	if err == store.ErrNotFound {
		return "", extraction.Errorf(extraction.KindNotFound, "conversation %s not found", req.ConversationID)
	}
	if err != nil {
		return "", err
	}
	if conv.UserID != user.UserID {
		return "", extraction.Errorf(extraction.KindNotFound, "conversation %s not found", req.ConversationID)
	}

	logCtx := s.log.With("conversationId", conv.ConversationID, "userId", user.UserID)

	userMsg := models.Message{
		MessageID:         uuid.NewString(),
		ConversationID:    conv.ConversationID,
		UserID:            user.UserID,
		Role:              models.RoleUser,
		Text:              req.Text,
		AttachedUploadIDs: req.AttachedUploadIDs,
		CreatedAt:         time.Now(),
	}
	if err := s.messages.Append(ctx, userMsg); err != nil {
		return "", err
	}

	prompt := req.Text
	grounded := false

	if len(req.AttachedUploadIDs) > 0 {
		recs, err := s.uploads.GetActiveByIDs(ctx, req.AttachedUploadIDs)
		if err != nil {
			return "", err
		}
		logCtx.Info("Processing attached files.", "requested", len(req.AttachedUploadIDs), "active", len(recs))

		if len(recs) > 0 {
			result := s.batch.ProcessBatch(ctx, extractionRequests(recs))
			logCtx.Info("Attachment extraction complete.",
				"files", len(result.PerFile),
				"succeeded", result.SucceededCount())

			prompt = fmt.Sprintf(groundedPromptTemplate, req.Text, result.StatusSummary, result.CombinedContext)
			grounded = true
		}
	}

	answer, err := s.completer.Complete(ctx, prompt, grounded)
	if err != nil {
		logCtx.Error("Model call failed.", "error", err)
		return "", extraction.NewServiceError(extraction.KindLLMServiceError, fmt.Errorf("AI processing failed: %w", err))
	}

	aiMsg := models.Message{
		MessageID:      uuid.NewString(),
		ConversationID: conv.ConversationID,
		UserID:         user.UserID,
		Role:           models.RoleAssistant,
		Text:           answer,
		CreatedAt:      time.Now(),
	}
	if err := s.messages.Append(ctx, aiMsg); err != nil {
		return "", err
	}
	if err := s.conversations.Touch(ctx, conv.ConversationID, time.Now()); err != nil {
		logCtx.Warn("Failed to touch conversation.", "error", err)
	}

	return answer, nil
}

func extractionRequests(recs []models.UploadRecord) []extraction.Request {
	reqs := make([]extraction.Request, 0, len(recs))
	for _, rec := range recs {
		reqs = append(reqs, extraction.Request{
			UploadID:     rec.UploadID,
			StorageKey:   rec.StorageKey,
			MimeType:     rec.MimeType,
			OriginalName: rec.OriginalName,
		})
	}
	return reqs
}
