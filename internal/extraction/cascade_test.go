package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"
)

var pdfRequest = Request{
	UploadID:     "u-1",
	StorageKey:   "uploads/user/a.pdf",
	MimeType:     "application/pdf",
	OriginalName: "a.pdf",
}

func newTestCascade(analyzer *fakeAnalyzer, parser *fakeParser, store *fakeStore) *Cascade {
	return NewCascade(store, analyzer, parser, testLogger())
}

func TestCascadeAdvancedSuccessStopsThere(t *testing.T) {
	analyzer := &fakeAnalyzer{
		structured: &Analysis{
			Lines:      []string{"Invoice 42", "Total: $10"},
			FormFields: []string{"Total: $10"},
			TableCount: 1,
			PageCount:  1,
			BlockCount: 3,
		},
	}
	parser := &fakeParser{err: errors.New("should not be called")}
	cascade := newTestCascade(analyzer, parser, newFakeStore())

	out := cascade.Extract(context.Background(), pdfRequest)
	if !out.OK() {
		t.Fatalf("expected success, got failure: %+v", out.Failure)
	}
	if out.Method != MethodAdvancedAnalysis {
		t.Errorf("want method %s got %s", MethodAdvancedAnalysis, out.Method)
	}
	if out.Text != "Invoice 42\nTotal: $10" {
		t.Errorf("unexpected text: %q", out.Text)
	}
	if out.Stats.WordEstimate != 4 {
		t.Errorf("want 4 words got %d", out.Stats.WordEstimate)
	}
	if len(analyzer.calls) != 1 {
		t.Errorf("want 1 analyzer call got %d", len(analyzer.calls))
	}
	if parser.calls != 0 {
		t.Errorf("parser should not run after advanced success")
	}
}

func TestCascadeUnsupportedFormatTriesBasic(t *testing.T) {
	analyzer := &fakeAnalyzer{
		structuredErr: Errorf(KindUnsupportedDocumentFormat, "format rejected"),
		textOnly:      &Analysis{Lines: []string{"plain text"}, PageCount: 2},
	}
	cascade := newTestCascade(analyzer, &fakeParser{}, newFakeStore())

	out := cascade.Extract(context.Background(), pdfRequest)
	if !out.OK() {
		t.Fatalf("expected success, got failure: %+v", out.Failure)
	}
	if out.Method != MethodBasicTextDetect {
		t.Errorf("want method %s got %s", MethodBasicTextDetect, out.Method)
	}
	want := []AnalysisMode{AnalyzeStructured, AnalyzeTextOnly}
	if len(analyzer.calls) != 2 || analyzer.calls[0] != want[0] || analyzer.calls[1] != want[1] {
		t.Errorf("unexpected analyzer calls: %v", analyzer.calls)
	}
}

func TestCascadeInvalidParametersTriesBasic(t *testing.T) {
	analyzer := &fakeAnalyzer{
		structuredErr: Errorf(KindInvalidParameters, "bad request"),
		textOnly:      &Analysis{Lines: []string{"ok"}},
	}
	cascade := newTestCascade(analyzer, &fakeParser{}, newFakeStore())

	out := cascade.Extract(context.Background(), pdfRequest)
	if !out.OK() || out.Method != MethodBasicTextDetect {
		t.Fatalf("want basic text detection success, got %+v", out)
	}
}

func TestCascadeServiceErrorSkipsBasic(t *testing.T) {
	analyzer := &fakeAnalyzer{
		structuredErr: Errorf(KindExternalServiceError, "throttled"),
		textOnlyErr:   errors.New("should not be called"),
	}
	store := newFakeStore()
	store.objects[pdfRequest.StorageKey] = []byte("%PDF-1.4")
	parser := &fakeParser{doc: &ParsedDocument{Text: "fallback text", PageCount: 3}}
	cascade := newTestCascade(analyzer, parser, store)

	out := cascade.Extract(context.Background(), pdfRequest)
	if !out.OK() {
		t.Fatalf("expected success, got failure: %+v", out.Failure)
	}
	if out.Method != MethodGenericTextLayer {
		t.Errorf("want method %s got %s", MethodGenericTextLayer, out.Method)
	}
	if out.Stats.PageCount != 3 || out.Stats.CharCount != len("fallback text") {
		t.Errorf("unexpected stats: %+v", out.Stats)
	}
	// Basic mode must never have been attempted.
	for _, mode := range analyzer.calls {
		if mode == AnalyzeTextOnly {
			t.Fatal("basic text detection must be skipped on a service error")
		}
	}
}

func TestCascadeAllMethodsExhausted(t *testing.T) {
	analyzer := &fakeAnalyzer{
		structuredErr: Errorf(KindUnsupportedDocumentFormat, "format rejected"),
		textOnlyErr:   Errorf(KindExternalServiceError, "ocr down"),
	}
	store := newFakeStore()
	store.objects[pdfRequest.StorageKey] = []byte("not a pdf")
	parser := &fakeParser{err: errors.New("no text layer")}
	cascade := newTestCascade(analyzer, parser, store)

	out := cascade.Extract(context.Background(), pdfRequest)
	if out.OK() {
		t.Fatal("expected terminal failure")
	}
	f := out.Failure
	if f.Kind != KindAllMethodsExhausted {
		t.Errorf("want kind %s got %s", KindAllMethodsExhausted, f.Kind)
	}
	wantAttempted := []Method{MethodAdvancedAnalysis, MethodBasicTextDetect, MethodGenericTextLayer}
	if len(f.Attempted) != len(wantAttempted) {
		t.Fatalf("want %d attempted methods got %v", len(wantAttempted), f.Attempted)
	}
	for i, m := range wantAttempted {
		if f.Attempted[i] != m {
			t.Errorf("attempted[%d]: want %s got %s", i, m, f.Attempted[i])
		}
	}
	if len(f.Details) != 3 {
		t.Errorf("want 3 detail entries got %d: %v", len(f.Details), f.Details)
	}
	if !strings.Contains(f.Details[len(f.Details)-1], "no text layer") {
		t.Errorf("last detail should carry the parser error, got %q", f.Details[len(f.Details)-1])
	}
}

func TestCascadeDownloadFailureIsTerminal(t *testing.T) {
	analyzer := &fakeAnalyzer{
		structuredErr: Errorf(KindExternalServiceError, "unavailable"),
	}
	// Store holds no object, so the parser stage fails at download.
	cascade := newTestCascade(analyzer, &fakeParser{}, newFakeStore())

	out := cascade.Extract(context.Background(), pdfRequest)
	if out.OK() {
		t.Fatal("expected failure")
	}
	if out.Failure.Kind != KindAllMethodsExhausted {
		t.Errorf("want kind %s got %s", KindAllMethodsExhausted, out.Failure.Kind)
	}
}
