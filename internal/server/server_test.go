package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicai/clinicai-go/internal/db"
	"github.com/clinicai/clinicai-go/internal/kb"
	"github.com/clinicai/clinicai-go/internal/metrics"
	"github.com/clinicai/clinicai-go/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type fakeSubmitter struct {
	audioCalls []string
	textCalls  []string
	err        error
}

func (f *fakeSubmitter) SubmitAudio(_ context.Context, audioURL string) (string, models.Status, error) {
	f.audioCalls = append(f.audioCalls, audioURL)
	if f.err != nil {
		return "", "", f.err
	}
	return "session-audio", models.StatusTranscriptionWaiting, nil
}

func (f *fakeSubmitter) SubmitText(_ context.Context, text string) (string, models.Status, error) {
	f.textCalls = append(f.textCalls, text)
	if f.err != nil {
		return "", "", f.err
	}
	return "session-text", models.StatusTranscriptionFinished, nil
}

type fakeReader struct {
	transcriptions map[string]*models.Transcription
	records        map[string]*models.ClinicalRecord
}

func (f *fakeReader) GetTranscription(_ context.Context, sessionID string) (*models.Transcription, error) {
	if t, ok := f.transcriptions[sessionID]; ok {
		return t, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeReader) GetClinicalRecord(_ context.Context, sessionID string) (*models.ClinicalRecord, error) {
	if r, ok := f.records[sessionID]; ok {
		return r, nil
	}
	return nil, db.ErrNotFound
}

type fakeKB struct {
	loaded   []kb.Document
	snippets []kb.Snippet
	err      error
}

func (f *fakeKB) EnsureCollection(_ context.Context) error { return f.err }

func (f *fakeKB) LoadDocuments(_ context.Context, docs []kb.Document) error {
	if f.err != nil {
		return f.err
	}
	f.loaded = append(f.loaded, docs...)
	return nil
}

func (f *fakeKB) Search(_ context.Context, _ string, _ int) ([]kb.Snippet, error) {
	return f.snippets, f.err
}

func newTestServer(submitter Submitter, reader RecordReader, knowledgeBase KnowledgeBase) *Server {
	if submitter == nil {
		submitter = &fakeSubmitter{}
	}
	if reader == nil {
		reader = &fakeReader{}
	}
	return New(submitter, reader, knowledgeBase, metrics.NewCollector(), testLogger())
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echoContentType, "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

const echoContentType = "Content-Type"

func TestHealth(t *testing.T) {
	rec := doRequest(newTestServer(nil, nil, nil), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStats(t *testing.T) {
	rec := doRequest(newTestServer(nil, nil, nil), http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap metrics.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.GreaterOrEqual(t, snap.UptimeSeconds, 0.0)
}

func TestStartProcess(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantCode   int
		wantSID    string
		wantStatus models.Status
	}{
		{
			name:       "audio url goes through the queue",
			body:       `{"audio_url": "https://x/a.mp3"}`,
			wantCode:   http.StatusOK,
			wantSID:    "session-audio",
			wantStatus: models.StatusTranscriptionWaiting,
		},
		{
			name:       "text skips the queue",
			body:       `{"transcription_text": "patient reports mild headache for 3 days"}`,
			wantCode:   http.StatusOK,
			wantSID:    "session-text",
			wantStatus: models.StatusTranscriptionFinished,
		},
		{
			name:       "audio url wins when both are present",
			body:       `{"audio_url": "https://x/a.mp3", "transcription_text": "text"}`,
			wantCode:   http.StatusOK,
			wantSID:    "session-audio",
			wantStatus: models.StatusTranscriptionWaiting,
		},
		{
			name:     "neither rejected",
			body:     `{}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed json rejected",
			body:     `{"audio_url": `,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeSubmitter{}, nil, nil)
			rec := doRequest(s, http.MethodPost, "/api/process", tt.body)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			if tt.wantCode != http.StatusOK {
				return
			}
			var resp startProcessResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantSID, resp.SessionID)
			assert.Equal(t, tt.wantStatus, resp.Status)
		})
	}
}

func TestStartProcess_SubmitterFailure(t *testing.T) {
	s := newTestServer(&fakeSubmitter{err: errors.New("store down")}, nil, nil)
	rec := doRequest(s, http.MethodPost, "/api/process", `{"transcription_text": "some text"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetTranscription(t *testing.T) {
	reader := &fakeReader{transcriptions: map[string]*models.Transcription{
		"s1": {SessionID: "s1", Text: "patient reports mild headache", Status: models.StatusTranscriptionFinished},
	}}
	s := newTestServer(nil, reader, nil)

	t.Run("found", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/api/transcriptions/s1", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var got models.Transcription
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "s1", got.SessionID)
		assert.Equal(t, models.StatusTranscriptionFinished, got.Status)
	})

	t.Run("unknown session", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/api/transcriptions/unknown", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetClinicalRecord(t *testing.T) {
	reader := &fakeReader{records: map[string]*models.ClinicalRecord{
		"s1": {
			SessionID:       "s1",
			Summary:         "John Smith, 45, acute chest pain.",
			DiagnosisReport: "# Report",
		},
	}}
	s := newTestServer(nil, reader, nil)

	t.Run("found", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/api/clinical-records/s1", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var got models.ClinicalRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "s1", got.SessionID)
		assert.Equal(t, "# Report", got.DiagnosisReport)
	})

	t.Run("unknown session", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/api/clinical-records/unknown", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestKBLoad(t *testing.T) {
	t.Run("seeds the reference set", func(t *testing.T) {
		knowledgeBase := &fakeKB{}
		s := newTestServer(nil, nil, knowledgeBase)

		rec := doRequest(s, http.MethodPost, "/api/kb/load", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp kbLoadResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, len(kb.SeedDocuments()), resp.Loaded)
		assert.Len(t, knowledgeBase.loaded, resp.Loaded)
	})

	t.Run("not configured", func(t *testing.T) {
		rec := doRequest(newTestServer(nil, nil, nil), http.MethodPost, "/api/kb/load", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestKBSearch(t *testing.T) {
	knowledgeBase := &fakeKB{snippets: []kb.Snippet{
		{Content: "Migraine: unilateral throbbing headache.", Topic: "neurology", Score: 0.87},
	}}
	s := newTestServer(nil, nil, knowledgeBase)

	t.Run("returns snippets", func(t *testing.T) {
		rec := doRequest(s, http.MethodPost, "/api/kb/search", `{"query": "headache"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var got []kb.Snippet
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "neurology", got[0].Topic)
	})

	t.Run("missing query rejected", func(t *testing.T) {
		rec := doRequest(s, http.MethodPost, "/api/kb/search", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
