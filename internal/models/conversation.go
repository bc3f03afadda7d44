package models

import "time"

// User is the Firestore document for a registered account. The password is
// stored as a bcrypt hash; SessionKey is the currently valid opaque session
// identifier (also cached in Redis).
type User struct {
	UserID       string    `firestore:"userId" json:"userId"`
	Email        string    `firestore:"email" json:"email"`
	PasswordHash string    `firestore:"passwordHash" json:"-"`
	FullName     string    `firestore:"fullName,omitempty" json:"fullName,omitempty"`
	Username     string    `firestore:"username,omitempty" json:"username,omitempty"`
	SessionKey   string    `firestore:"sessionKey,omitempty" json:"-"`
	CreatedAt    time.Time `firestore:"createdAt" json:"createdAt"`
	LastLogin    time.Time `firestore:"lastLogin,omitempty" json:"lastLogin,omitempty"`
}

// Conversation is one chat thread. At most one conversation per user is
// marked active at a time; creating or activating one deactivates the rest.
type Conversation struct {
	ConversationID string    `firestore:"conversationId" json:"conversationId"`
	UserID         string    `firestore:"userId" json:"userId"`
	Title          string    `firestore:"title" json:"title"`
	IsActive       bool      `firestore:"isActive" json:"isActive"`
	CreatedAt      time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "ai"
)

// Message is one turn half (user or assistant) within a conversation.
// The chat flow appends exactly one user message and, on success, one
// assistant message per turn; messages are never updated afterwards.
type Message struct {
	MessageID         string           `firestore:"messageId" json:"messageId"`
	ConversationID    string           `firestore:"conversationId" json:"conversationId"`
	UserID            string           `firestore:"userId" json:"userId"`
	Role              string           `firestore:"role" json:"role"`
	Text              string           `firestore:"text" json:"text"`
	AttachedUploadIDs []string         `firestore:"attachedUploadIds,omitempty" json:"attachedUploadIds,omitempty"`
	Attachments       []AttachmentMeta `firestore:"-" json:"attachments,omitempty"`
	CreatedAt         time.Time        `firestore:"createdAt" json:"createdAt"`
}
