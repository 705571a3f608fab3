// Package server exposes the pipeline over HTTP: session submission, status
// and record retrieval, knowledge-base management, and runtime stats.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/clinicai/clinicai-go/internal/db"
	"github.com/clinicai/clinicai-go/internal/kb"
	"github.com/clinicai/clinicai-go/internal/metrics"
	"github.com/clinicai/clinicai-go/internal/models"
)

// Submitter starts new sessions. *pipeline.Pipeline satisfies it.
type Submitter interface {
	SubmitAudio(ctx context.Context, audioURL string) (string, models.Status, error)
	SubmitText(ctx context.Context, text string) (string, models.Status, error)
}

// RecordReader serves the status and record lookups. *db.Client satisfies it.
type RecordReader interface {
	GetTranscription(ctx context.Context, sessionID string) (*models.Transcription, error)
	GetClinicalRecord(ctx context.Context, sessionID string) (*models.ClinicalRecord, error)
}

// KnowledgeBase is the managed side of the retriever: seeding documents and
// ad-hoc search. *kb.QdrantRetriever satisfies it.
type KnowledgeBase interface {
	EnsureCollection(ctx context.Context) error
	LoadDocuments(ctx context.Context, docs []kb.Document) error
	Search(ctx context.Context, query string, topK int) ([]kb.Snippet, error)
}

// Server is the HTTP surface over the pipeline.
type Server struct {
	echo      *echo.Echo
	submitter Submitter
	reader    RecordReader
	kb        KnowledgeBase
	collector *metrics.Collector
	log       *slog.Logger
}

// New creates the server and registers all routes. kb and collector may be
// nil; the matching endpoints then report the capability as unavailable.
func New(submitter Submitter, reader RecordReader, knowledgeBase KnowledgeBase, collector *metrics.Collector, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))

	s := &Server{
		echo:      e,
		submitter: submitter,
		reader:    reader,
		kb:        knowledgeBase,
		collector: collector,
		log:       log,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/stats", s.handleStats)

	api := s.echo.Group("/api")
	api.POST("/process", s.handleStartProcess)
	api.GET("/transcriptions/:session_id", s.handleGetTranscription)
	api.GET("/clinical-records/:session_id", s.handleGetClinicalRecord)
	api.POST("/kb/load", s.handleKBLoad)
	api.POST("/kb/search", s.handleKBSearch)
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start(port int) error {
	return s.echo.Start(fmt.Sprintf(":%d", port))
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(c echo.Context) error {
	if s.collector == nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "stats collection disabled"})
	}
	return c.JSON(http.StatusOK, s.collector.Snapshot())
}

type startProcessRequest struct {
	AudioURL          string `json:"audio_url"`
	TranscriptionText string `json:"transcription_text"`
}

type startProcessResponse struct {
	SessionID string        `json:"session_id"`
	Status    models.Status `json:"status"`
}

// handleStartProcess accepts either an audio URL or an already-available
// transcription text. Audio goes through the queue; text short-circuits
// straight to a finished transcription record.
func (s *Server) handleStartProcess(c echo.Context) error {
	var req startProcessRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
	}
	if req.AudioURL == "" && req.TranscriptionText == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "either audio_url or transcription_text must be provided"})
	}

	ctx := c.Request().Context()

	var (
		sessionID string
		status    models.Status
		err       error
	)
	if req.AudioURL != "" {
		sessionID, status, err = s.submitter.SubmitAudio(ctx, req.AudioURL)
	} else {
		sessionID, status, err = s.submitter.SubmitText(ctx, req.TranscriptionText)
	}
	if err != nil {
		s.log.Error("failed to start session", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, startProcessResponse{SessionID: sessionID, Status: status})
}

func (s *Server) handleGetTranscription(c echo.Context) error {
	sessionID := c.Param("session_id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "session_id is required"})
	}

	t, err := s.reader.GetTranscription(c.Request().Context(), sessionID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "no transcription for session " + sessionID})
		}
		s.log.Error("failed to load transcription", "session_id", sessionID, "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to load transcription"})
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) handleGetClinicalRecord(c echo.Context) error {
	sessionID := c.Param("session_id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "session_id is required"})
	}

	record, err := s.reader.GetClinicalRecord(c.Request().Context(), sessionID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "no clinical record for session " + sessionID})
		}
		s.log.Error("failed to load clinical record", "session_id", sessionID, "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to load clinical record"})
	}
	return c.JSON(http.StatusOK, record)
}

type kbLoadResponse struct {
	Loaded int `json:"loaded"`
}

// handleKBLoad seeds the knowledge base with the built-in reference set.
func (s *Server) handleKBLoad(c echo.Context) error {
	if s.kb == nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "knowledge base not configured"})
	}

	ctx := c.Request().Context()
	if err := s.kb.EnsureCollection(ctx); err != nil {
		s.log.Error("failed to ensure knowledge base collection", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to prepare knowledge base"})
	}

	docs := kb.SeedDocuments()
	if err := s.kb.LoadDocuments(ctx, docs); err != nil {
		s.log.Error("failed to load knowledge base documents", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to load documents"})
	}
	return c.JSON(http.StatusOK, kbLoadResponse{Loaded: len(docs)})
}

type kbSearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

func (s *Server) handleKBSearch(c echo.Context) error {
	if s.kb == nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "knowledge base not configured"})
	}

	var req kbSearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
	}
	if req.Query == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "query is required"})
	}
	if req.TopK <= 0 {
		req.TopK = 3
	}

	snippets, err := s.kb.Search(c.Request().Context(), req.Query, req.TopK)
	if err != nil {
		s.log.Error("knowledge base search failed", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "search failed"})
	}
	if snippets == nil {
		snippets = []kb.Snippet{}
	}
	return c.JSON(http.StatusOK, snippets)
}
