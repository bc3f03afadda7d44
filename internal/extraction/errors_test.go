package extraction

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(Errorf(KindInvalidParameters, "bad")); got != KindInvalidParameters {
		t.Errorf("want %s got %s", KindInvalidParameters, got)
	}

	// Wrapped service errors still classify.
	wrapped := fmt.Errorf("analyze: %w", NewServiceError(KindUnsupportedDocumentFormat, errors.New("nope")))
	if got := KindOf(wrapped); got != KindUnsupportedDocumentFormat {
		t.Errorf("want %s got %s", KindUnsupportedDocumentFormat, got)
	}

	// Unclassified errors default to external-service, never to a
	// format-rejection kind.
	if got := KindOf(errors.New("mystery")); got != KindExternalServiceError {
		t.Errorf("want %s got %s", KindExternalServiceError, got)
	}
}

func TestServiceErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewServiceError(KindExternalServiceError, cause)
	if !errors.Is(err, cause) {
		t.Error("service error must unwrap to its cause")
	}
	if err.Error() != "ExternalServiceError: root cause" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
