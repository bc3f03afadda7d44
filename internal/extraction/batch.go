package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
)

// defaultBatchConcurrency caps concurrent per-file extractions so a large
// upload batch does not fan out unbounded calls to the backing services.
const defaultBatchConcurrency = 4

// FileResult pairs one request with its extraction outcome and the rendered
// text block for that file.
type FileResult struct {
	Request   Request
	Outcome   Outcome
	Formatted string
}

// BatchResult is everything downstream consumers need: per-file results in
// input order, the combined document context for grounding, and a
// human-readable status summary.
type BatchResult struct {
	PerFile         []FileResult
	CombinedContext string
	StatusSummary   string
}

// SucceededCount reports how many files yielded usable content.
func (r BatchResult) SucceededCount() int {
	n := 0
	for _, f := range r.PerFile {
		if f.Outcome.OK() {
			n++
		}
	}
	return n
}

// Orchestrator runs a router across a batch of files concurrently.
type Orchestrator struct {
	router      *Router
	concurrency int
	log         *slog.Logger
}

func NewOrchestrator(router *Router, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		router:      router,
		concurrency: defaultBatchConcurrency,
		log:         log.With("component", "extraction-orchestrator"),
	}
}

// ProcessBatch extracts every request concurrently and assembles the
// combined context. Results land at the index of their request, so output
// order always matches input order regardless of completion order. A panic
// or error in one file never disturbs the others.
func (o *Orchestrator) ProcessBatch(ctx context.Context, reqs []Request) BatchResult {
	results := make([]FileResult, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, req := range reqs {
		g.Go(func() error {
			results[i] = o.processOne(gctx, req)
			return nil
		})
	}
	// Workers never return errors; failures are recorded per file.
	_ = g.Wait()

	return BatchResult{
		PerFile:         results,
		CombinedContext: combineContext(results),
		StatusSummary:   statusSummary(results),
	}
}

func (o *Orchestrator) processOne(ctx context.Context, req Request) (res FileResult) {
	res.Request = req

	defer func() {
		if r := recover(); r != nil {
			o.log.Error("extraction panicked",
				"uploadId", req.UploadID,
				"file", req.OriginalName,
				"panic", r)
			res.Outcome = failureOutcome(nil, KindExternalServiceError,
				fmt.Sprintf("internal error while processing %s", req.OriginalName),
				[]string{fmt.Sprint(r)})
			res.Formatted = Format(res.Outcome, req.OriginalName)
		}
	}()

	res.Outcome = o.router.Route(ctx, req)
	res.Formatted = Format(res.Outcome, req.OriginalName)
	return res
}

// combineContext concatenates every file's formatted block under a named
// header, separated so the model can attribute content to its source file.
func combineContext(results []FileResult) string {
	if len(results) == 0 {
		return ""
	}

	sep := strings.Repeat("=", 50)
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, fmt.Sprintf("--- CONTENT FROM: %s ---\n\n%s", r.Request.OriginalName, r.Formatted))
	}
	return strings.Join(blocks, "\n\n"+sep+"\n\n")
}

// statusSummary builds the per-file status header shown to the user before
// the model's answer.
func statusSummary(results []FileResult) string {
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📄 **Document Analysis Results**\n\nProcessed %d file(s):\n\n", len(results))

	for _, r := range results {
		switch {
		case r.Outcome.OK():
			fmt.Fprintf(&b, "✅ %s - extracted via %s\n", r.Request.OriginalName, r.Outcome.Method.Label())
		case r.Outcome.Failure != nil && r.Outcome.Failure.Kind == KindUnsupportedType:
			fmt.Fprintf(&b, "⚠️ %s - unsupported file type\n", r.Request.OriginalName)
		default:
			fmt.Fprintf(&b, "❌ %s - extraction failed\n", r.Request.OriginalName)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
