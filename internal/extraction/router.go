package extraction

import (
	"context"
	"log/slog"
	"strings"
)

// visionInstruction is the prompt sent alongside an attached image.
const visionInstruction = `Analyze this image comprehensively. Extract ALL visible text, describe charts and diagrams, identify key visual elements, tables, forms, and any important information. Provide a detailed analysis suitable for business document processing.`

// Router dispatches one file to its extraction strategy by declared media
// type. It performs no extraction itself and touches no local state.
type Router struct {
	cascade    *Cascade
	vision     VisionDescriber
	transcribe *TranscriptionWorkflow
	store      ObjectStore
	log        *slog.Logger
}

// NewRouter wires a Router from the strategy implementations.
func NewRouter(cascade *Cascade, vision VisionDescriber, transcribe *TranscriptionWorkflow, store ObjectStore, log *slog.Logger) *Router {
	return &Router{
		cascade:    cascade,
		vision:     vision,
		transcribe: transcribe,
		store:      store,
		log:        log,
	}
}

// Route picks the extraction strategy for req and returns its terminal
// Outcome. Unsupported media types fail immediately with no network calls.
func (r *Router) Route(ctx context.Context, req Request) Outcome {
	mime := strings.ToLower(strings.TrimSpace(req.MimeType))

	switch {
	case mime == "application/pdf":
		return r.cascade.Extract(ctx, req)

	case strings.HasPrefix(mime, "image/"):
		return r.describeImage(ctx, req)

	case strings.HasPrefix(mime, "audio/"), strings.HasPrefix(mime, "video/"):
		return r.transcribe.Extract(ctx, req)

	default:
		r.log.Warn("Unsupported media type.", "uploadId", req.UploadID, "mimeType", req.MimeType)
		return failureOutcome(nil, KindUnsupportedType,
			"media type not supported: "+req.MimeType, nil)
	}
}

func (r *Router) describeImage(ctx context.Context, req Request) Outcome {
	uri := r.store.ObjectURI(req.StorageKey)

	text, err := r.vision.Describe(ctx, uri, req.MimeType, visionInstruction)
	if err != nil {
		r.log.Error("Vision description failed.", "uploadId", req.UploadID, "error", err)
		return failureOutcome(
			[]Method{MethodVisionDescription},
			KindExternalServiceError,
			"failed to analyze image",
			[]string{err.Error()},
		)
	}

	stats := Stats{CharCount: len(text), WordEstimate: len(strings.Fields(text))}
	return successOutcome(MethodVisionDescription, text, stats, nil)
}
