package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestRouter(analyzer *fakeAnalyzer, vision *fakeVision, transcriber *fakeTranscriber, store *fakeStore) *Router {
	cascade := NewCascade(store, analyzer, &fakeParser{err: errors.New("no text")}, testLogger())
	workflow := NewTranscriptionWorkflow(store, transcriber, testLogger())
	workflow.pollInterval = time.Millisecond
	return NewRouter(cascade, vision, workflow, store, testLogger())
}

func TestRouteUnsupportedTypeShortCircuits(t *testing.T) {
	analyzer := &fakeAnalyzer{structuredErr: errors.New("should not be called")}
	vision := &fakeVision{}
	transcriber := &fakeTranscriber{}
	router := newTestRouter(analyzer, vision, transcriber, newFakeStore())

	out := router.Route(context.Background(), Request{
		UploadID: "u-3", StorageKey: "uploads/user/x.zip",
		MimeType: "application/zip", OriginalName: "x.zip",
	})
	if out.OK() {
		t.Fatal("expected failure for unsupported type")
	}
	if out.Failure.Kind != KindUnsupportedType {
		t.Errorf("want kind %s got %s", KindUnsupportedType, out.Failure.Kind)
	}
	if len(out.Failure.Attempted) != 0 {
		t.Errorf("no methods should be attempted, got %v", out.Failure.Attempted)
	}
	if len(analyzer.calls) != 0 || vision.calls != 0 || transcriber.submits != 0 {
		t.Error("unsupported types must make no collaborator calls")
	}
}

func TestRouteImageUsesVision(t *testing.T) {
	vision := &fakeVision{text: "a bar chart of Q3 revenue"}
	router := newTestRouter(&fakeAnalyzer{}, vision, &fakeTranscriber{}, newFakeStore())

	out := router.Route(context.Background(), Request{
		UploadID: "u-4", StorageKey: "uploads/user/chart.png",
		MimeType: "image/png", OriginalName: "chart.png",
	})
	if !out.OK() {
		t.Fatalf("expected success, got %+v", out.Failure)
	}
	if out.Method != MethodVisionDescription {
		t.Errorf("want method %s got %s", MethodVisionDescription, out.Method)
	}
	if vision.lastURI != "gs://test-bucket/uploads/user/chart.png" {
		t.Errorf("unexpected file URI: %q", vision.lastURI)
	}
	if !strings.Contains(vision.lastInstr, "Extract ALL visible text") {
		t.Errorf("vision instruction missing, got %q", vision.lastInstr)
	}
}

func TestRouteImageFailureIsTerminal(t *testing.T) {
	vision := &fakeVision{err: errors.New("model unavailable")}
	router := newTestRouter(&fakeAnalyzer{}, vision, &fakeTranscriber{}, newFakeStore())

	out := router.Route(context.Background(), Request{
		UploadID: "u-5", StorageKey: "uploads/user/scan.jpg",
		MimeType: "image/jpeg", OriginalName: "scan.jpg",
	})
	if out.OK() {
		t.Fatal("expected failure")
	}
	if out.Failure.Kind != KindExternalServiceError {
		t.Errorf("want kind %s got %s", KindExternalServiceError, out.Failure.Kind)
	}
	if len(out.Failure.Attempted) != 1 || out.Failure.Attempted[0] != MethodVisionDescription {
		t.Errorf("unexpected attempted methods: %v", out.Failure.Attempted)
	}
}

func TestRouteAudioAndVideoTranscribe(t *testing.T) {
	for _, mime := range []string{"audio/mpeg", "video/mp4"} {
		transcriber := &fakeTranscriber{
			statuses:   []*JobStatus{{State: JobCompleted, TranscriptURI: "gs://test-bucket/t.json"}},
			transcript: "spoken words",
		}
		router := newTestRouter(&fakeAnalyzer{}, &fakeVision{}, transcriber, newFakeStore())

		out := router.Route(context.Background(), Request{
			UploadID: "u-6", StorageKey: "uploads/user/m.bin",
			MimeType: mime, OriginalName: "m.bin",
		})
		if !out.OK() {
			t.Fatalf("%s: expected success, got %+v", mime, out.Failure)
		}
		if out.Method != MethodTranscription {
			t.Errorf("%s: want method %s got %s", mime, MethodTranscription, out.Method)
		}
		if transcriber.submits != 1 {
			t.Errorf("%s: want 1 submit got %d", mime, transcriber.submits)
		}
	}
}

func TestRoutePDFUsesCascade(t *testing.T) {
	analyzer := &fakeAnalyzer{structured: &Analysis{Lines: []string{"doc text"}}}
	router := newTestRouter(analyzer, &fakeVision{}, &fakeTranscriber{}, newFakeStore())

	out := router.Route(context.Background(), pdfRequest)
	if !out.OK() || out.Method != MethodAdvancedAnalysis {
		t.Fatalf("want advanced analysis success, got %+v", out)
	}
}
