package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/clinicai/clinicai-go/internal/db"
	"github.com/clinicai/clinicai-go/internal/models"
)

// Dispatcher drives the pipeline by polling the record store for records
// whose status makes them due for the next stage: waiting queue entries
// trigger transcription, finished transcriptions trigger extraction, and
// finished extractions trigger diagnosis. Because every trigger is a status
// read and every stage commit advances the status past its trigger state,
// redundant deliveries resolve to no-ops inside the handlers.
//
// Sessions run independently and concurrently; the three stages of one
// session run strictly one after another because each stage's trigger state
// only appears once the previous stage committed.
type Dispatcher struct {
	pipeline     *Pipeline
	store        Store
	interval     time.Duration
	stageTimeout time.Duration
	sem          chan struct{}
	log          *slog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
	wg       sync.WaitGroup
}

// DispatcherConfig holds the dispatcher's scheduling knobs.
type DispatcherConfig struct {
	// PollInterval is the delay between store scans.
	PollInterval time.Duration
	// StageTimeout bounds one handler invocation. When it fires mid-chain
	// the session keeps its last committed status.
	StageTimeout time.Duration
	// MaxConcurrent caps simultaneously running handler invocations.
	MaxConcurrent int
}

// NewDispatcher creates a dispatcher over the pipeline's store.
func NewDispatcher(p *Pipeline, cfg DispatcherConfig, log *slog.Logger) *Dispatcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.StageTimeout <= 0 {
		cfg.StageTimeout = 5 * time.Minute
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 8
	}
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		pipeline:     p,
		store:        p.deps.Store,
		interval:     cfg.PollInterval,
		stageTimeout: cfg.StageTimeout,
		sem:          make(chan struct{}, cfg.MaxConcurrent),
		log:          log,
		inflight:     make(map[string]struct{}),
	}
}

// Run polls until ctx is cancelled, then waits for in-flight handler
// invocations to drain.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.log.Info("dispatcher started",
		"poll_interval", d.interval, "stage_timeout", d.stageTimeout, "max_concurrent", cap(d.sem))

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.log.Info("dispatcher stopping, draining in-flight work")
			d.wg.Wait()
			return ctx.Err()
		case <-ticker.C:
			d.tick(ctx)
		}
	}
}

func (d *Dispatcher) tick(ctx context.Context) {
	d.dispatchTranscriptions(ctx)
	d.dispatchExtractions(ctx)
	d.dispatchDiagnoses(ctx)
}

func (d *Dispatcher) dispatchTranscriptions(ctx context.Context) {
	entries, err := d.store.ListQueueByStatus(ctx, models.QueueWaiting)
	if err != nil {
		d.log.Error("failed to scan transcription queue", "error", err)
		return
	}
	for _, entry := range entries {
		entry := entry
		d.spawn(ctx, entry.SessionID, StageTranscription, func(ctx context.Context) error {
			return d.pipeline.ProcessTranscription(ctx, entry)
		})
	}
}

func (d *Dispatcher) dispatchExtractions(ctx context.Context) {
	transcriptions, err := d.store.ListTranscriptionsByStatus(ctx, models.StatusTranscriptionFinished)
	if err != nil {
		d.log.Error("failed to scan finished transcriptions", "error", err)
		return
	}
	for _, t := range transcriptions {
		t := t
		d.spawn(ctx, t.SessionID, StageExtraction, func(ctx context.Context) error {
			return d.pipeline.ProcessExtraction(ctx, t)
		})
	}
}

func (d *Dispatcher) dispatchDiagnoses(ctx context.Context) {
	transcriptions, err := d.store.ListTranscriptionsByStatus(ctx, models.StatusExtractionFinished)
	if err != nil {
		d.log.Error("failed to scan finished extractions", "error", err)
		return
	}
	for _, t := range transcriptions {
		sessionID := t.SessionID
		d.spawn(ctx, sessionID, StageDiagnosis, func(ctx context.Context) error {
			record, err := d.store.GetClinicalRecord(ctx, sessionID)
			if err != nil {
				if errors.Is(err, db.ErrNotFound) {
					// Status committed before the record became visible.
					// The next scan picks the session up again.
					return nil
				}
				return err
			}
			return d.pipeline.ProcessDiagnosis(ctx, *record)
		})
	}
}

// spawn runs fn for a session unless that session already has a handler in
// flight or the concurrency cap is reached. A skipped session is retried on
// the next scan.
func (d *Dispatcher) spawn(ctx context.Context, sessionID, stage string, fn func(ctx context.Context) error) {
	if sessionID == "" {
		return
	}

	d.mu.Lock()
	if _, busy := d.inflight[sessionID]; busy {
		d.mu.Unlock()
		return
	}
	select {
	case d.sem <- struct{}{}:
	default:
		d.mu.Unlock()
		return
	}
	d.inflight[sessionID] = struct{}{}
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer func() {
			d.mu.Lock()
			delete(d.inflight, sessionID)
			d.mu.Unlock()
			<-d.sem
			d.wg.Done()
		}()

		stageCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.stageTimeout)
		defer cancel()

		if err := fn(stageCtx); err != nil {
			if errors.Is(err, db.ErrTransactionConflict) {
				// Lost a write race; the next scan delivers the record again.
				d.log.Warn("stage handler hit a write conflict",
					"session_id", sessionID, "stage", stage, "error", err)
				return
			}
			d.log.Error("stage handler failed",
				"session_id", sessionID, "stage", stage,
				"kind", KindOf(err), "permanent", Permanent(err), "error", err)
		}
	}()
}
