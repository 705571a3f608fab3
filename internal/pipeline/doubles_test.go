package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/clinicai/clinicai-go/internal/db"
	"github.com/clinicai/clinicai-go/internal/kb"
	"github.com/clinicai/clinicai-go/internal/models"
	"github.com/clinicai/clinicai-go/internal/transcribe"
)

// testLogger creates a logger for test visibility.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// memStore is an in-memory Store double keyed by session_id, mirroring the
// document-per-session layout of the real store.
type memStore struct {
	mu             sync.Mutex
	queue          map[string]*models.QueueEntry
	transcriptions map[string]*models.Transcription
	records        map[string]*models.ClinicalRecord

	failSaveClinicalRecord error
	failSaveDiagnosis      error
	failSetStatus          error
}

func newMemStore() *memStore {
	return &memStore{
		queue:          make(map[string]*models.QueueEntry),
		transcriptions: make(map[string]*models.Transcription),
		records:        make(map[string]*models.ClinicalRecord),
	}
}

func (s *memStore) CreateQueueEntry(_ context.Context, sessionID, audioURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue[sessionID] = &models.QueueEntry{
		SessionID: sessionID,
		AudioURL:  audioURL,
		Status:    models.QueueWaiting,
		CreatedAt: time.Now(),
	}
	return nil
}

func (s *memStore) SetQueueStatus(_ context.Context, sessionID string, status models.QueueStatus, errorMessage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.queue[sessionID]
	if !ok {
		return nil
	}
	entry.Status = status
	entry.ErrorMessage = errorMessage
	return nil
}

func (s *memStore) ListQueueByStatus(_ context.Context, status models.QueueStatus) ([]models.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.QueueEntry
	for _, entry := range s.queue {
		if entry.Status == status {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (s *memStore) SaveTranscription(_ context.Context, t models.Transcription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.transcriptions[t.SessionID]; ok {
		t.CreatedAt = existing.CreatedAt
	} else {
		t.CreatedAt = time.Now()
	}
	s.transcriptions[t.SessionID] = &t
	return nil
}

func (s *memStore) GetTranscription(_ context.Context, sessionID string) (*models.Transcription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transcriptions[sessionID]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (s *memStore) SetTranscriptionStatus(_ context.Context, sessionID string, status models.Status, errorMessage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSetStatus != nil {
		return s.failSetStatus
	}
	t, ok := s.transcriptions[sessionID]
	if !ok {
		return nil
	}
	now := time.Now()
	t.Status = status
	t.ErrorMessage = errorMessage
	t.UpdatedAt = &now
	return nil
}

func (s *memStore) ListTranscriptionsByStatus(_ context.Context, status models.Status) ([]models.Transcription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transcription
	for _, t := range s.transcriptions {
		if t.Status == status {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *memStore) SaveClinicalRecord(_ context.Context, r models.ClinicalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSaveClinicalRecord != nil {
		return s.failSaveClinicalRecord
	}
	r.CreatedAt = time.Now()
	s.records[r.SessionID] = &r
	return nil
}

func (s *memStore) GetClinicalRecord(_ context.Context, sessionID string) (*models.ClinicalRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[sessionID]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (s *memStore) SaveDiagnosis(_ context.Context, sessionID, report string, diagnosis []models.DiagnosisProbability) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSaveDiagnosis != nil {
		return s.failSaveDiagnosis
	}
	r, ok := s.records[sessionID]
	if !ok {
		return db.ErrNotFound
	}
	now := time.Now()
	r.DiagnosisReport = report
	r.Diagnosis = diagnosis
	r.UpdatedAt = &now
	return nil
}

// fakeGenerator replays scripted responses in call order. A response that
// is an error value fails that call.
type fakeGenerator struct {
	mu        sync.Mutex
	responses []any // string or error, consumed in order
	calls     int
	prompts   []string
}

func (g *fakeGenerator) next(prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	if g.calls >= len(g.responses) {
		return "", fmt.Errorf("unexpected generator call %d", g.calls+1)
	}
	resp := g.responses[g.calls]
	g.calls++
	if err, ok := resp.(error); ok {
		return "", err
	}
	return resp.(string), nil
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	return g.next(prompt)
}

func (g *fakeGenerator) GenerateWithSystem(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	return g.next(systemPrompt + "\n" + userPrompt)
}

func (g *fakeGenerator) Model() string { return "fake-model" }

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// fakeEmbedder returns fixed vectors for known texts and a constant default
// otherwise.
type fakeEmbedder struct {
	vectors map[string][]float32
}

func (e *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0, 0}, nil
}

func (e *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *fakeEmbedder) Model() string  { return "fake-embedder" }
func (e *fakeEmbedder) Dimension() int { return 4 }

// archetypeEmbedder maps the four severity archetypes onto orthogonal unit
// vectors so tests can steer a symptom toward a chosen severity.
func archetypeEmbedder(extra map[string][]float32) *fakeEmbedder {
	vectors := map[string][]float32{
		severityArchetypes[0]: {1, 0, 0, 0},
		severityArchetypes[1]: {0, 1, 0, 0},
		severityArchetypes[2]: {0, 0, 1, 0},
		severityArchetypes[3]: {0, 0, 0, 1},
	}
	for k, v := range extra {
		vectors[k] = v
	}
	return &fakeEmbedder{vectors: vectors}
}

type fakeTranscriber struct {
	result transcribe.Result
	err    error
}

func (t *fakeTranscriber) Transcribe(_ context.Context, _ []byte, _ string) (transcribe.Result, error) {
	return t.result, t.err
}

type fakeDownloader struct {
	data []byte
	err  error
}

func (d *fakeDownloader) Download(_ context.Context, _ string) ([]byte, error) {
	return d.data, d.err
}

type fakeRetriever struct {
	snippets []kb.Snippet
	err      error
	queries  []string
}

func (r *fakeRetriever) Search(_ context.Context, query string, _ int) ([]kb.Snippet, error) {
	r.queries = append(r.queries, query)
	return r.snippets, r.err
}

// newTestPipeline wires a pipeline over the given doubles with sensible
// defaults for the pieces a test does not care about.
func newTestPipeline(store *memStore, gen *fakeGenerator, emb *fakeEmbedder, opts ...func(*Dependencies)) *Pipeline {
	if gen == nil {
		gen = &fakeGenerator{}
	}
	if emb == nil {
		emb = archetypeEmbedder(nil)
	}
	deps := Dependencies{
		Store:       store,
		Generator:   gen,
		Transcriber: &fakeTranscriber{result: transcribe.Result{Text: "ok"}},
		Downloader:  &fakeDownloader{data: []byte("audio")},
		Embedder:    emb,
		Logger:      testLogger(),
	}
	for _, opt := range opts {
		opt(&deps)
	}
	p, err := New(deps)
	if err != nil {
		panic(err)
	}
	return p
}
