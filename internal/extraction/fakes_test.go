package extraction

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	gets    []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (s *fakeStore) GetObjectBytes(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets = append(s.gets, key)
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s does not exist", key)
	}
	return data, nil
}

func (s *fakeStore) ObjectURI(key string) string {
	return "gs://test-bucket/" + key
}

func (s *fakeStore) Presign(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://signed.example.com/" + key, nil
}

// fakeAnalyzer scripts one response per analysis mode and counts calls.
type fakeAnalyzer struct {
	mu            sync.Mutex
	structured    *Analysis
	structuredErr error
	textOnly      *Analysis
	textOnlyErr   error
	calls         []AnalysisMode
}

func (a *fakeAnalyzer) Analyze(_ context.Context, _ string, mode AnalysisMode) (*Analysis, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, mode)
	if mode == AnalyzeStructured {
		return a.structured, a.structuredErr
	}
	return a.textOnly, a.textOnlyErr
}

type fakeParser struct {
	doc   *ParsedDocument
	err   error
	calls int
}

func (p *fakeParser) Parse(_ []byte) (*ParsedDocument, error) {
	p.calls++
	return p.doc, p.err
}

type fakeVision struct {
	text         string
	err          error
	panicMessage string
	calls        int
	lastURI      string
	lastInstr    string
}

func (v *fakeVision) Describe(_ context.Context, fileURI, _, instruction string) (string, error) {
	v.calls++
	v.lastURI = fileURI
	v.lastInstr = instruction
	if v.panicMessage != "" {
		panic(v.panicMessage)
	}
	return v.text, v.err
}

// fakeTranscriber replays a scripted sequence of job statuses.
type fakeTranscriber struct {
	mu          sync.Mutex
	submitErr   error
	statuses    []*JobStatus
	statusErr   error
	transcript  string
	fetchErr    error
	submits     int
	statusCalls int
	fetches     int
}

func (c *fakeTranscriber) Submit(_ context.Context, jobName, _ string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submits++
	if c.submitErr != nil {
		return "", c.submitErr
	}
	return "op-" + jobName, nil
}

func (c *fakeTranscriber) GetStatus(_ context.Context, _ string) (*JobStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.statusErr != nil {
		c.statusCalls++
		return nil, c.statusErr
	}
	idx := c.statusCalls
	c.statusCalls++
	if idx >= len(c.statuses) {
		return &JobStatus{State: JobInProgress}, nil
	}
	return c.statuses[idx], nil
}

func (c *fakeTranscriber) FetchTranscript(_ context.Context, _ string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetches++
	if c.fetchErr != nil {
		return "", c.fetchErr
	}
	return c.transcript, nil
}

// repeatStatuses builds n copies of the same status.
func repeatStatuses(n int, state JobState) []*JobStatus {
	out := make([]*JobStatus, n)
	for i := range out {
		out[i] = &JobStatus{State: state}
	}
	return out
}
