package extraction

import (
	"context"
	"time"
)

// The extraction core is pure orchestration over external services. Each
// collaborator is injected behind one of the narrow interfaces below;
// construction and teardown of the real clients belong to the service layer.

// ObjectStore reads uploaded objects. The core never writes through it.
type ObjectStore interface {
	GetObjectBytes(ctx context.Context, key string) ([]byte, error)
	ObjectURI(key string) string
	Presign(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// AnalysisMode selects between the structured (tables + forms) processor and
// the plain text-detection processor.
type AnalysisMode int

const (
	AnalyzeStructured AnalysisMode = iota
	AnalyzeTextOnly
)

// Analysis is the provider-neutral result of a document analysis call.
type Analysis struct {
	Lines      []string
	FormFields []string
	TableCount int
	PageCount  int
	BlockCount int
}

// DocumentAnalyzer is the OCR-style document analysis collaborator. Errors
// must carry an ErrorKind distinguishing "format unsupported" and "invalid
// parameters" from other failures; that distinction drives the cascade.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, storageKey string, mode AnalysisMode) (*Analysis, error)
}

// ParsedDocument is the output of the format-native text-layer parser.
type ParsedDocument struct {
	Text      string
	PageCount int
}

// TextLayerParser extracts embedded text from raw document bytes with no
// network dependency.
type TextLayerParser interface {
	Parse(data []byte) (*ParsedDocument, error)
}

// VisionDescriber produces a textual description of an image at a fetchable
// URI, following the given instruction.
type VisionDescriber interface {
	Describe(ctx context.Context, fileURI, mimeType, instruction string) (string, error)
}

// JobState is the transcription job lifecycle as reported by the provider.
type JobState string

const (
	JobInProgress JobState = "IN_PROGRESS"
	JobCompleted  JobState = "COMPLETED"
	JobFailed     JobState = "FAILED"
)

// JobStatus is one observation of a transcription job. TranscriptURI is set
// only once State is JobCompleted.
type JobStatus struct {
	State         JobState
	TranscriptURI string
	Detail        string
}

// TranscriptionClient is the speech-to-text collaborator. Submit starts a
// job against a media URI and returns its identifier; the transcript itself
// is a separate remote document fetched after completion. There is no cancel
// operation: a submitted job runs to completion server-side.
type TranscriptionClient interface {
	Submit(ctx context.Context, jobName, mediaURI string) (string, error)
	GetStatus(ctx context.Context, jobID string) (*JobStatus, error)
	FetchTranscript(ctx context.Context, transcriptURI string) (string, error)
}
