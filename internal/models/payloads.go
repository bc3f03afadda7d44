package models

// These structs define the JSON payloads exchanged between the HTTP layer
// and its clients. Handlers decode into the request types, services return
// the domain documents above, and handlers wrap them in the response types.

// RegisterRequest is the input for POST /register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName,omitempty"`
	Username string `json:"username,omitempty"`
}

// RegisterResponse is the output of POST /register.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userid"`
}

// LoginRequest is the input for POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the output of POST /login.
type LoginResponse struct {
	Message    string `json:"message"`
	SessionKey string `json:"sessionKey"`
}

// CreateConversationRequest is the input for POST /conversations.
type CreateConversationRequest struct {
	SessionKey string `json:"sessionKey"`
	Title      string `json:"title,omitempty"`
}

// PatchConversationRequest is the input for PATCH /conversations/{id}.
type PatchConversationRequest struct {
	SessionKey string `json:"sessionKey"`
	Title      string `json:"title,omitempty"`
	SetActive  bool   `json:"setActive,omitempty"`
}

// ChatRequest is the input for POST /ai-chat: one conversation turn,
// optionally grounded in previously uploaded files.
type ChatRequest struct {
	SessionKey        string   `json:"sessionKey"`
	ConversationID    string   `json:"conversationId"`
	Text              string   `json:"text"`
	AttachedUploadIDs []string `json:"attachedUploadIds,omitempty"`
}

// ChatResponse is the output of POST /ai-chat.
type ChatResponse struct {
	Response string `json:"response"`
}

// UploadResponse is the output of POST /upload.
type UploadResponse struct {
	Message      string `json:"message"`
	UploadID     string `json:"uploadId"`
	FileName     string `json:"fileName"`
	OriginalName string `json:"originalName"`
	SizeBytes    int64  `json:"size"`
	MimeType     string `json:"mimeType"`
	PresignedURL string `json:"publicUrl"`
}
