package extraction

import (
	"errors"
	"fmt"
)

// ErrorKind classifies extraction failures. The cascade's transitions match
// on these kinds explicitly; nothing in this package decides control flow by
// inspecting error strings.
type ErrorKind string

const (
	// KindUnsupportedType means the declared media type has no extraction
	// route at all; no service call is made.
	KindUnsupportedType ErrorKind = "UnsupportedType"

	// KindUnsupportedDocumentFormat means the document analysis service
	// rejected the file format itself. Triggers the basic-OCR branch.
	KindUnsupportedDocumentFormat ErrorKind = "UnsupportedDocumentFormat"

	// KindInvalidParameters means the analysis request was rejected as
	// malformed for this document. Triggers the basic-OCR branch.
	KindInvalidParameters ErrorKind = "InvalidParameters"

	// KindExternalServiceError covers transient, auth, and quota failures
	// of any external collaborator.
	KindExternalServiceError ErrorKind = "ExternalServiceError"

	// KindAllMethodsExhausted is the terminal PDF cascade failure.
	KindAllMethodsExhausted ErrorKind = "AllMethodsExhausted"

	// KindTranscriptionTimeoutOrFailure covers a transcription job that
	// reported failure or never reached a terminal state within the ceiling.
	KindTranscriptionTimeoutOrFailure ErrorKind = "TranscriptionTimeoutOrFailure"

	// KindLLMServiceError is a failure of the completion call itself; it is
	// the one extraction-adjacent error that propagates to the caller.
	KindLLMServiceError ErrorKind = "LLMServiceError"

	// KindNotFound means a required entity (user, conversation, upload) does
	// not exist or is soft-deleted.
	KindNotFound ErrorKind = "NotFound"
)

// ServiceError attaches an ErrorKind to an underlying cause. Collaborator
// adapters return these so the cascade can branch without knowing provider
// wire formats.
type ServiceError struct {
	Kind ErrorKind
	Err  error
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// NewServiceError wraps err with the given kind.
func NewServiceError(kind ErrorKind, err error) *ServiceError {
	return &ServiceError{Kind: kind, Err: err}
}

// Errorf builds a ServiceError from a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *ServiceError {
	return &ServiceError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the ErrorKind from err. Errors without an explicit kind
// are classified as external-service failures: an unrecognized error from a
// provider must not be mistaken for "this tool cannot read this file".
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindExternalServiceError
}
