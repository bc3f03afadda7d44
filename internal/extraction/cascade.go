package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// cascadeState enumerates the PDF cascade's states. Transitions are decided
// only by matching the ErrorKind of the failed attempt; success in any state
// is terminal.
type cascadeState int

const (
	tryAdvanced cascadeState = iota
	tryBasic
	tryGenericParser
	terminal
)

// Cascade runs the three-stage PDF extraction fallback:
// structured analysis, then plain text detection, then the local text-layer
// parser. The first method to succeed wins; every attempted method is
// recorded for diagnostics on eventual failure.
type Cascade struct {
	store  ObjectStore
	docs   DocumentAnalyzer
	parser TextLayerParser
	log    *slog.Logger
}

// NewCascade wires a Cascade from its collaborators.
func NewCascade(store ObjectStore, docs DocumentAnalyzer, parser TextLayerParser, log *slog.Logger) *Cascade {
	return &Cascade{store: store, docs: docs, parser: parser, log: log}
}

// Extract walks the cascade for one PDF and always returns a terminal
// Outcome.
func (c *Cascade) Extract(ctx context.Context, req Request) Outcome {
	logCtx := c.log.With("uploadId", req.UploadID, "storageKey", req.StorageKey)

	var (
		attempted []Method
		details   []string
		result    Outcome
	)

	state := tryAdvanced
	for state != terminal {
		switch state {

		case tryAdvanced:
			attempted = append(attempted, MethodAdvancedAnalysis)
			analysis, err := c.docs.Analyze(ctx, req.StorageKey, AnalyzeStructured)
			if err == nil {
				logCtx.Info("Advanced document analysis succeeded.")
				result = outcomeFromAnalysis(MethodAdvancedAnalysis, analysis)
				state = terminal
				break
			}
			kind := KindOf(err)
			details = append(details, err.Error())
			switch kind {
			case KindUnsupportedDocumentFormat, KindInvalidParameters:
				// Only these two kinds mean the structured processor
				// genuinely cannot read this file; a plain-text pass may
				// still work.
				logCtx.Warn("Advanced analysis rejected document; trying basic text detection.", "kind", kind, "error", err)
				state = tryBasic
			default:
				// Throttling, auth, and other service errors would hit a
				// second OCR call identically; go straight to the local
				// parser as last resort.
				logCtx.Warn("Advanced analysis failed; skipping basic detection.", "kind", kind, "error", err)
				state = tryGenericParser
			}

		case tryBasic:
			attempted = append(attempted, MethodBasicTextDetect)
			analysis, err := c.docs.Analyze(ctx, req.StorageKey, AnalyzeTextOnly)
			if err == nil {
				logCtx.Info("Basic text detection succeeded.")
				result = outcomeFromAnalysis(MethodBasicTextDetect, analysis)
				state = terminal
				break
			}
			details = append(details, err.Error())
			logCtx.Warn("Basic text detection failed; falling back to text-layer parser.", "kind", KindOf(err), "error", err)
			state = tryGenericParser

		case tryGenericParser:
			attempted = append(attempted, MethodGenericTextLayer)
			outcome, err := c.parseTextLayer(ctx, req)
			if err == nil {
				logCtx.Info("Text-layer parse succeeded.", "pages", outcome.Stats.PageCount)
				result = outcome
				state = terminal
				break
			}
			details = append(details, err.Error())
			logCtx.Error("All PDF extraction methods failed.", "error", err)
			result = failureOutcome(
				attempted,
				KindAllMethodsExhausted,
				fmt.Sprintf("no extraction method could read %q", req.OriginalName),
				details,
			)
			state = terminal
		}
	}

	return result
}

// parseTextLayer downloads the raw bytes and runs the format-native parser.
// No OCR happens here; only embedded text is read.
func (c *Cascade) parseTextLayer(ctx context.Context, req Request) (Outcome, error) {
	data, err := c.store.GetObjectBytes(ctx, req.StorageKey)
	if err != nil {
		return Outcome{}, fmt.Errorf("download object: %w", err)
	}

	doc, err := c.parser.Parse(data)
	if err != nil {
		return Outcome{}, fmt.Errorf("text-layer parse: %w", err)
	}

	stats := Stats{
		PageCount:    doc.PageCount,
		CharCount:    len(doc.Text),
		WordEstimate: len(strings.Fields(doc.Text)),
	}
	return successOutcome(MethodGenericTextLayer, doc.Text, stats, nil), nil
}

// outcomeFromAnalysis converts an analysis result into a success outcome,
// deriving the stats the formatter reports.
func outcomeFromAnalysis(m Method, a *Analysis) Outcome {
	text := strings.Join(a.Lines, "\n")
	words := 0
	for _, l := range a.Lines {
		words += len(strings.Fields(l))
	}
	stats := Stats{
		BlockCount:     a.BlockCount,
		LineCount:      len(a.Lines),
		WordEstimate:   words,
		TableCount:     a.TableCount,
		FormFieldCount: len(a.FormFields),
		PageCount:      a.PageCount,
	}
	return successOutcome(m, text, stats, a.FormFields)
}
