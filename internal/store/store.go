// Package store holds the Firestore-backed persistence layer and the Redis
// session cache. Stores translate between domain documents and their
// collections and know nothing about HTTP or extraction.
package store

import "errors"

var (
	ErrNotFound       = errors.New("document not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// Collection names.
const (
	usersCollection         = "users"
	conversationsCollection = "conversations"
	messagesCollection      = "messages"
	uploadsCollection       = "uploads"
)
