// Package pipeline orchestrates the three processing stages of a clinical
// session: audio transcription, medical information extraction, and diagnosis
// report generation. Stages communicate only through the record store; each
// stage is triggered by the record the previous stage committed.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clinicai/clinicai-go/internal/embedding"
	"github.com/clinicai/clinicai-go/internal/kb"
	"github.com/clinicai/clinicai-go/internal/llm"
	"github.com/clinicai/clinicai-go/internal/metrics"
	"github.com/clinicai/clinicai-go/internal/models"
	"github.com/clinicai/clinicai-go/internal/transcribe"
)

// Store is the record-store capability the pipeline depends on. *db.Client
// satisfies it; tests substitute an in-memory double.
type Store interface {
	CreateQueueEntry(ctx context.Context, sessionID, audioURL string) error
	SetQueueStatus(ctx context.Context, sessionID string, status models.QueueStatus, errorMessage string) error
	ListQueueByStatus(ctx context.Context, status models.QueueStatus) ([]models.QueueEntry, error)

	SaveTranscription(ctx context.Context, t models.Transcription) error
	GetTranscription(ctx context.Context, sessionID string) (*models.Transcription, error)
	SetTranscriptionStatus(ctx context.Context, sessionID string, status models.Status, errorMessage string) error
	ListTranscriptionsByStatus(ctx context.Context, status models.Status) ([]models.Transcription, error)

	SaveClinicalRecord(ctx context.Context, r models.ClinicalRecord) error
	GetClinicalRecord(ctx context.Context, sessionID string) (*models.ClinicalRecord, error)
	SaveDiagnosis(ctx context.Context, sessionID, report string, diagnosis []models.DiagnosisProbability) error
}

// Dependencies bundles every capability a stage handler needs. Handlers
// receive their collaborators here instead of reaching for globals, so tests
// can swap any of them for a double.
type Dependencies struct {
	Store       Store
	Generator   llm.Generator
	Transcriber transcribe.Transcriber
	Downloader  transcribe.Downloader
	Embedder    embedding.Embedder
	Retriever   kb.Retriever
	Metrics     *metrics.Collector
	Logger      *slog.Logger
}

func (d Dependencies) validate() error {
	if d.Store == nil {
		return fmt.Errorf("store is required")
	}
	if d.Generator == nil {
		return fmt.Errorf("generator is required")
	}
	if d.Transcriber == nil {
		return fmt.Errorf("transcriber is required")
	}
	if d.Downloader == nil {
		return fmt.Errorf("downloader is required")
	}
	if d.Embedder == nil {
		return fmt.Errorf("embedder is required")
	}
	return nil
}

// Pipeline executes the stage handlers. Retriever and Metrics are optional;
// a nil retriever degrades the diagnosis stage to its knowledge-base
// fallback text and a nil collector disables stats.
type Pipeline struct {
	deps     Dependencies
	status   *StatusMachine
	severity *SeverityClassifier
	log      *slog.Logger
}

// New creates a pipeline from its dependency bundle.
func New(deps Dependencies) (*Pipeline, error) {
	if err := deps.validate(); err != nil {
		return nil, fmt.Errorf("pipeline dependencies: %w", err)
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		deps:     deps,
		status:   NewStatusMachine(deps.Store, log),
		severity: NewSeverityClassifier(deps.Embedder),
		log:      log,
	}, nil
}

// Status exposes the status machine for the HTTP layer.
func (p *Pipeline) Status() *StatusMachine {
	return p.status
}

func (p *Pipeline) recordTiming(op string, fn func() error) error {
	if p.deps.Metrics == nil {
		return fn()
	}
	start := time.Now()
	err := fn()
	if err != nil {
		p.deps.Metrics.RecordError(op, time.Since(start))
	} else {
		p.deps.Metrics.RecordTiming(op, time.Since(start))
	}
	return err
}
