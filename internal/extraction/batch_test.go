package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func newTestOrchestrator(analyzer *fakeAnalyzer, vision *fakeVision, transcriber *fakeTranscriber, store *fakeStore) *Orchestrator {
	return NewOrchestrator(newTestRouter(analyzer, vision, transcriber, store), testLogger())
}

func batchRequests(n int) []Request {
	reqs := make([]Request, n)
	for i := range reqs {
		reqs[i] = Request{
			UploadID:     fmt.Sprintf("u-%d", i),
			StorageKey:   fmt.Sprintf("uploads/user/f%d.pdf", i),
			MimeType:     "application/pdf",
			OriginalName: fmt.Sprintf("f%d.pdf", i),
		}
	}
	return reqs
}

func TestBatchPreservesInputOrder(t *testing.T) {
	analyzer := &fakeAnalyzer{structured: &Analysis{Lines: []string{"content"}}}
	o := newTestOrchestrator(analyzer, &fakeVision{}, &fakeTranscriber{}, newFakeStore())

	reqs := batchRequests(10)
	result := o.ProcessBatch(context.Background(), reqs)

	if len(result.PerFile) != len(reqs) {
		t.Fatalf("want %d results got %d", len(reqs), len(result.PerFile))
	}
	for i, r := range result.PerFile {
		if r.Request.UploadID != reqs[i].UploadID {
			t.Errorf("result %d: want upload %s got %s", i, reqs[i].UploadID, r.Request.UploadID)
		}
	}

	// Combined context must list files in input order too.
	last := -1
	for i := range reqs {
		idx := strings.Index(result.CombinedContext, "--- CONTENT FROM: "+reqs[i].OriginalName+" ---")
		if idx < 0 {
			t.Fatalf("file %d missing from combined context", i)
		}
		if idx < last {
			t.Errorf("file %d appears out of order", i)
		}
		last = idx
	}
}

func TestBatchIsolatesFailures(t *testing.T) {
	analyzer := &fakeAnalyzer{structured: &Analysis{Lines: []string{"fine"}}}
	vision := &fakeVision{err: errors.New("model down")}
	o := newTestOrchestrator(analyzer, vision, &fakeTranscriber{}, newFakeStore())

	reqs := []Request{
		{UploadID: "a", StorageKey: "k/a.pdf", MimeType: "application/pdf", OriginalName: "a.pdf"},
		{UploadID: "b", StorageKey: "k/b.png", MimeType: "image/png", OriginalName: "b.png"},
		{UploadID: "c", StorageKey: "k/c.pdf", MimeType: "application/pdf", OriginalName: "c.pdf"},
	}
	result := o.ProcessBatch(context.Background(), reqs)

	if !result.PerFile[0].Outcome.OK() || !result.PerFile[2].Outcome.OK() {
		t.Error("PDF extractions must succeed despite the image failure")
	}
	if result.PerFile[1].Outcome.OK() {
		t.Error("image extraction should have failed")
	}
	if result.SucceededCount() != 2 {
		t.Errorf("want 2 successes got %d", result.SucceededCount())
	}
}

func TestBatchRecoversFromPanic(t *testing.T) {
	vision := &fakeVision{panicMessage: "nil dereference"}
	analyzer := &fakeAnalyzer{structured: &Analysis{Lines: []string{"fine"}}}
	o := newTestOrchestrator(analyzer, vision, &fakeTranscriber{}, newFakeStore())

	reqs := []Request{
		{UploadID: "a", StorageKey: "k/a.png", MimeType: "image/png", OriginalName: "a.png"},
		{UploadID: "b", StorageKey: "k/b.pdf", MimeType: "application/pdf", OriginalName: "b.pdf"},
	}
	result := o.ProcessBatch(context.Background(), reqs)

	if result.PerFile[0].Outcome.OK() {
		t.Fatal("panicking file must yield a failure outcome")
	}
	f := result.PerFile[0].Outcome.Failure
	if f.Kind != KindExternalServiceError {
		t.Errorf("want kind %s got %s", KindExternalServiceError, f.Kind)
	}
	if len(f.Details) == 0 || !strings.Contains(f.Details[0], "nil dereference") {
		t.Errorf("panic value should be recorded, got %v", f.Details)
	}
	if !result.PerFile[1].Outcome.OK() {
		t.Error("sibling file must be unaffected by the panic")
	}
	if result.PerFile[0].Formatted == "" {
		t.Error("panicked file still needs a formatted block")
	}
}

func TestBatchStatusSummary(t *testing.T) {
	analyzer := &fakeAnalyzer{structured: &Analysis{Lines: []string{"fine"}}}
	vision := &fakeVision{err: errors.New("model down")}
	o := newTestOrchestrator(analyzer, vision, &fakeTranscriber{}, newFakeStore())

	reqs := []Request{
		{UploadID: "a", StorageKey: "k/a.pdf", MimeType: "application/pdf", OriginalName: "report.pdf"},
		{UploadID: "b", StorageKey: "k/b.zip", MimeType: "application/zip", OriginalName: "archive.zip"},
		{UploadID: "c", StorageKey: "k/c.png", MimeType: "image/png", OriginalName: "photo.png"},
	}
	result := o.ProcessBatch(context.Background(), reqs)

	if !strings.Contains(result.StatusSummary, "📄 **Document Analysis Results**") {
		t.Errorf("missing summary header:\n%s", result.StatusSummary)
	}
	if !strings.Contains(result.StatusSummary, "Processed 3 file(s):") {
		t.Errorf("missing file count:\n%s", result.StatusSummary)
	}
	if !strings.Contains(result.StatusSummary, "✅ report.pdf") {
		t.Errorf("missing success line:\n%s", result.StatusSummary)
	}
	if !strings.Contains(result.StatusSummary, "⚠️ archive.zip - unsupported file type") {
		t.Errorf("missing unsupported line:\n%s", result.StatusSummary)
	}
	if !strings.Contains(result.StatusSummary, "❌ photo.png - extraction failed") {
		t.Errorf("missing failure line:\n%s", result.StatusSummary)
	}
}

func TestBatchEmptyInput(t *testing.T) {
	o := newTestOrchestrator(&fakeAnalyzer{}, &fakeVision{}, &fakeTranscriber{}, newFakeStore())
	result := o.ProcessBatch(context.Background(), nil)
	if len(result.PerFile) != 0 || result.CombinedContext != "" || result.StatusSummary != "" {
		t.Errorf("empty batch should produce an empty result, got %+v", result)
	}
}
