package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicai/clinicai-go/internal/metrics"
	"github.com/clinicai/clinicai-go/internal/models"
	"github.com/clinicai/clinicai-go/internal/transcribe"
)

// Stage names used in error reporting and logs.
const (
	StageTranscription = "transcription"
	StageExtraction    = "information_extraction"
	StageDiagnosis     = "diagnosis"
)

// SubmitAudio starts a new session for an audio recording. It mints the
// session id, queues the download, and returns the id with the initial
// status. The transcription handler picks the entry up asynchronously.
func (p *Pipeline) SubmitAudio(ctx context.Context, audioURL string) (string, models.Status, error) {
	if audioURL == "" {
		return "", "", stageErrf(StageTranscription, KindValidation, "audio_url must not be empty")
	}
	sessionID := uuid.NewString()
	if err := p.deps.Store.CreateQueueEntry(ctx, sessionID, audioURL); err != nil {
		return "", "", stageErr(StageTranscription, KindTransient, fmt.Errorf("queue session: %w", err))
	}
	p.log.Info("session queued for transcription", "session_id", sessionID, "audio_url", audioURL)
	return sessionID, models.StatusTranscriptionWaiting, nil
}

// SubmitText starts a new session from an already-transcribed text. The
// queue is skipped entirely; the transcription record is written in its
// terminal success state, which is what triggers extraction.
func (p *Pipeline) SubmitText(ctx context.Context, text string) (string, models.Status, error) {
	if text == "" {
		return "", "", stageErrf(StageTranscription, KindValidation, "transcription_text must not be empty")
	}
	sessionID := uuid.NewString()
	t := models.Transcription{
		SessionID: sessionID,
		Text:      text,
		Status:    models.StatusTranscriptionFinished,
	}
	if err := p.deps.Store.SaveTranscription(ctx, t); err != nil {
		return "", "", stageErr(StageTranscription, KindTransient, fmt.Errorf("save transcription: %w", err))
	}
	p.log.Info("session created from supplied text", "session_id", sessionID)
	return sessionID, models.StatusTranscriptionFinished, nil
}

// ProcessTranscription handles one queued audio submission: download the
// payload, transcribe it, and commit the transcription record in its
// terminal state. Committing the record is what triggers extraction, so it
// happens exactly once per session (document key = session_id).
func (p *Pipeline) ProcessTranscription(ctx context.Context, entry models.QueueEntry) error {
	if entry.SessionID == "" {
		return stageErrf(StageTranscription, KindLogic, "session_id is required")
	}

	log := p.log.With("session_id", entry.SessionID, "stage", StageTranscription)

	current, err := p.status.Current(ctx, entry.SessionID)
	if err != nil {
		return err
	}
	if current.Rank() >= models.StatusTranscriptionFinished.Rank() {
		// Redelivered trigger for a session that already completed this
		// stage. Settle the queue entry and move on.
		log.Info("transcription already committed, skipping")
		if err := p.deps.Store.SetQueueStatus(ctx, entry.SessionID, models.QueueFinished, ""); err != nil {
			log.Error("failed to settle queue entry", "error", err)
		}
		return nil
	}

	log.Info("starting transcription", "audio_url", entry.AudioURL)

	err = p.recordTiming(metrics.OpTranscription, func() error {
		return p.transcribeAudio(ctx, entry)
	})
	if err != nil {
		log.Error("transcription failed", "error", err)
		if qerr := p.deps.Store.SetQueueStatus(ctx, entry.SessionID, models.QueueError, err.Error()); qerr != nil {
			log.Error("failed to record queue error status", "error", qerr)
		}
		p.status.Fail(ctx, entry.SessionID, models.StatusTranscriptionError, err)
		return err
	}

	if err := p.deps.Store.SetQueueStatus(ctx, entry.SessionID, models.QueueFinished, ""); err != nil {
		log.Error("failed to settle queue entry", "error", err)
	}
	log.Info("transcription finished")
	return nil
}

func (p *Pipeline) transcribeAudio(ctx context.Context, entry models.QueueEntry) error {
	if entry.AudioURL == "" {
		return stageErrf(StageTranscription, KindValidation, "queue entry has no audio_url")
	}

	// Visible to status polling while the download and model call run.
	inProgress := models.Transcription{
		SessionID: entry.SessionID,
		AudioURL:  entry.AudioURL,
		Status:    models.StatusTranscriptionInProgress,
	}
	if err := p.deps.Store.SaveTranscription(ctx, inProgress); err != nil {
		return stageErr(StageTranscription, KindTransient, fmt.Errorf("save in-progress record: %w", err))
	}

	audio, err := p.deps.Downloader.Download(ctx, entry.AudioURL)
	if err != nil {
		if errors.Is(err, transcribe.ErrAudioUnavailable) {
			return stageErr(StageTranscription, KindValidation, err)
		}
		return stageErr(StageTranscription, KindTransient, fmt.Errorf("download audio: %w", err))
	}

	result, err := p.deps.Transcriber.Transcribe(ctx, audio, transcribe.DomainHint)
	if err != nil {
		return stageErr(StageTranscription, KindTransient, fmt.Errorf("transcribe audio: %w", err))
	}
	if result.Text == "" {
		return stageErrf(StageTranscription, KindModel, "transcriber returned empty text")
	}

	t := models.Transcription{
		SessionID: entry.SessionID,
		AudioURL:  entry.AudioURL,
		Text:      result.Text,
		Language:  result.Language,
		Duration:  result.Duration,
		Context:   transcribe.DomainHint,
		Status:    models.StatusTranscriptionFinished,
	}
	if err := p.deps.Store.SaveTranscription(ctx, t); err != nil {
		return stageErr(StageTranscription, KindTransient, fmt.Errorf("save transcription: %w", err))
	}
	return nil
}
