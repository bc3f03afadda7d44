package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultMaxPolls     = 60 // 5-minute ceiling at the default interval
)

// TranscriptionWorkflow drives one audio/video file through the
// submit → poll-until-terminal → fetch-transcript lifecycle. The wait is
// bounded: once the poll ceiling is reached the workflow gives up, but the
// job itself keeps running server-side; there is no cancel path.
type TranscriptionWorkflow struct {
	store  ObjectStore
	client TranscriptionClient
	log    *slog.Logger

	pollInterval time.Duration
	maxPolls     int
}

// NewTranscriptionWorkflow wires a workflow with the production poll
// schedule (5 s interval, 60 attempts).
func NewTranscriptionWorkflow(store ObjectStore, client TranscriptionClient, log *slog.Logger) *TranscriptionWorkflow {
	return &TranscriptionWorkflow{
		store:        store,
		client:       client,
		log:          log,
		pollInterval: defaultPollInterval,
		maxPolls:     defaultMaxPolls,
	}
}

// Extract runs the full workflow for one file and returns a terminal
// Outcome.
func (w *TranscriptionWorkflow) Extract(ctx context.Context, req Request) Outcome {
	logCtx := w.log.With("uploadId", req.UploadID, "storageKey", req.StorageKey)

	jobName := fmt.Sprintf("transcribe-%s-%d", req.UploadID, time.Now().UnixMilli())
	mediaURI := w.store.ObjectURI(req.StorageKey)

	jobID, err := w.client.Submit(ctx, jobName, mediaURI)
	if err != nil {
		logCtx.Error("Failed to submit transcription job.", "error", err)
		return w.failure(fmt.Sprintf("failed to submit transcription job: %v", err), err.Error())
	}
	logCtx = logCtx.With("jobId", jobID)
	logCtx.Info("Transcription job submitted.")

	status, polls, err := w.awaitTerminal(ctx, jobID)
	if err != nil {
		logCtx.Error("Transcription polling aborted.", "error", err)
		return w.failure(fmt.Sprintf("transcription polling aborted: %v", err), err.Error())
	}

	switch {
	case status == nil:
		logCtx.Warn("Transcription job did not finish within the poll ceiling.", "polls", polls)
		return w.failure("audio transcription timed out", fmt.Sprintf("job still in progress after %d polls", polls))
	case status.State == JobFailed:
		logCtx.Warn("Transcription job failed.", "detail", status.Detail)
		return w.failure("audio transcription failed", status.Detail)
	}

	transcript, err := w.client.FetchTranscript(ctx, status.TranscriptURI)
	if err != nil {
		logCtx.Error("Failed to fetch transcript.", "transcriptUri", status.TranscriptURI, "error", err)
		return w.failure(fmt.Sprintf("failed to fetch transcript: %v", err), err.Error())
	}

	logCtx.Info("Transcription complete.", "polls", polls, "chars", len(transcript))
	stats := Stats{CharCount: len(transcript)}
	return successOutcome(MethodTranscription, transcript, stats, nil)
}

// awaitTerminal polls the job on the fixed interval until it reaches a
// terminal state or the ceiling is hit. A nil status with nil error means
// the ceiling was reached while the job was still in progress.
func (w *TranscriptionWorkflow) awaitTerminal(ctx context.Context, jobID string) (*JobStatus, int, error) {
	polls := 0
	for polls < w.maxPolls {
		select {
		case <-time.After(w.pollInterval):
		case <-ctx.Done():
			return nil, polls, ctx.Err()
		}

		status, err := w.client.GetStatus(ctx, jobID)
		polls++
		if err != nil {
			return nil, polls, fmt.Errorf("get job status: %w", err)
		}
		if status.State != JobInProgress {
			return status, polls, nil
		}
	}
	return nil, polls, nil
}

func (w *TranscriptionWorkflow) failure(message, detail string) Outcome {
	return failureOutcome(
		[]Method{MethodTranscription},
		KindTranscriptionTimeoutOrFailure,
		message,
		[]string{detail},
	)
}
