package gcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"github.com/docsmith/docchat/internal/extraction"
)

// TranscriptionClient runs speech-to-text jobs against media stored in GCS.
// The transcript itself is persisted as a JSON artifact next to the uploads,
// so a completed job can be read without re-running recognition.
type TranscriptionClient struct {
	client *speech.Client
	store  *ObjectStore
	prefix string

	// jobNames maps operation IDs to the human-readable job name chosen at
	// submit time, used to key the transcript artifact.
	jobNames sync.Map
}

type transcriptDocument struct {
	JobName    string `json:"jobName"`
	Transcript string `json:"transcript"`
}

func NewTranscriptionClient(ctx context.Context, store *ObjectStore, transcriptPrefix string) (*TranscriptionClient, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Speech client: %w", err)
	}
	return &TranscriptionClient{
		client: client,
		store:  store,
		prefix: strings.TrimSuffix(transcriptPrefix, "/"),
	}, nil
}

func (c *TranscriptionClient) Close() error {
	return c.client.Close()
}

// Submit starts a long-running recognition job for the media at mediaURI and
// returns the operation name as the job identifier.
func (c *TranscriptionClient) Submit(ctx context.Context, jobName, mediaURI string) (string, error) {
	req := &speechpb.LongRunningRecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   inferEncoding(mediaURI),
			LanguageCode:               "en-US",
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Uri{Uri: mediaURI},
		},
	}

	op, err := c.client.LongRunningRecognize(ctx, req)
	if err != nil {
		return "", fmt.Errorf("speech LongRunningRecognize: %w", err)
	}

	c.jobNames.Store(op.Name(), jobName)
	return op.Name(), nil
}

// GetStatus polls the operation once. On completion it writes the transcript
// artifact and reports where to fetch it; a failed operation is a normal
// terminal status, not an error.
func (c *TranscriptionClient) GetStatus(ctx context.Context, jobID string) (*extraction.JobStatus, error) {
	op := c.client.LongRunningRecognizeOperation(jobID)

	resp, err := op.Poll(ctx)
	if err != nil {
		if op.Done() {
			return &extraction.JobStatus{State: extraction.JobFailed, Detail: err.Error()}, nil
		}
		return nil, fmt.Errorf("poll transcription operation: %w", err)
	}
	if resp == nil {
		return &extraction.JobStatus{State: extraction.JobInProgress}, nil
	}

	transcript := joinTranscripts(resp)
	key := c.transcriptKey(jobID)

	doc, err := json.Marshal(transcriptDocument{JobName: c.jobName(jobID), Transcript: transcript})
	if err != nil {
		return nil, fmt.Errorf("marshal transcript artifact: %w", err)
	}
	if err := c.store.SaveObjectIfAbsent(ctx, key, string(doc)); err != nil {
		return nil, fmt.Errorf("save transcript artifact: %w", err)
	}

	return &extraction.JobStatus{
		State:         extraction.JobCompleted,
		TranscriptURI: c.store.ObjectURI(key),
	}, nil
}

// FetchTranscript reads a transcript artifact written by GetStatus.
func (c *TranscriptionClient) FetchTranscript(ctx context.Context, transcriptURI string) (string, error) {
	key, err := c.store.keyFromURI(transcriptURI)
	if err != nil {
		return "", err
	}

	data, err := c.store.GetObjectBytes(ctx, key)
	if err != nil {
		return "", fmt.Errorf("read transcript artifact: %w", err)
	}

	var doc transcriptDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("decode transcript artifact: %w", err)
	}
	return doc.Transcript, nil
}

func (c *TranscriptionClient) transcriptKey(jobID string) string {
	return fmt.Sprintf("%s/%s.json", c.prefix, c.jobName(jobID))
}

func (c *TranscriptionClient) jobName(jobID string) string {
	if name, ok := c.jobNames.Load(jobID); ok {
		return name.(string)
	}
	return path.Base(jobID)
}

func joinTranscripts(resp *speechpb.LongRunningRecognizeResponse) string {
	var sb strings.Builder
	for _, result := range resp.Results {
		if result == nil || len(result.Alternatives) == 0 {
			continue
		}
		text := strings.TrimSpace(result.Alternatives[0].Transcript)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(text)
	}
	return sb.String()
}

func inferEncoding(mediaURI string) speechpb.RecognitionConfig_AudioEncoding {
	switch strings.ToLower(path.Ext(mediaURI)) {
	case ".mp3":
		return speechpb.RecognitionConfig_MP3
	case ".ogg", ".opus":
		return speechpb.RecognitionConfig_OGG_OPUS
	case ".amr":
		return speechpb.RecognitionConfig_AMR
	default:
		// WAV and FLAC headers are self-describing.
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}
