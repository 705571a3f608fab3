package db

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/clinicai/clinicai-go/internal/models"
)

// Record store operations for the pipeline. Every write targets
// type::record(table, $session_id) so at-least-once trigger redelivery
// overwrites the same document instead of duplicating it, and timestamps are
// always server-assigned via time::now().

// CreateQueueEntry adds an audio submission to the transcription queue.
func (c *Client) CreateQueueEntry(ctx context.Context, sessionID, audioURL string) error {
	sql := `
		UPSERT type::record("queue", $session_id) SET
			session_id = $session_id,
			audio_url = $audio_url,
			status = $status,
			created_at = created_at ?? time::now()
	`
	_, err := surrealdb.Query[any](ctx, c.db, sql, map[string]any{
		"session_id": sessionID,
		"audio_url":  audioURL,
		"status":     string(models.QueueWaiting),
	})
	if err != nil {
		return fmt.Errorf("create queue entry: %w", wrapQueryError(err))
	}
	return nil
}

// SetQueueStatus updates the queue bookkeeping status for a session.
func (c *Client) SetQueueStatus(ctx context.Context, sessionID string, status models.QueueStatus, errorMessage string) error {
	sql := `
		UPDATE type::record("queue", $session_id) SET
			status = $status,
			error_message = $error_message,
			updated_at = time::now()
	`
	_, err := surrealdb.Query[any](ctx, c.db, sql, map[string]any{
		"session_id":    sessionID,
		"status":        string(status),
		"error_message": errorMessage,
	})
	if err != nil {
		return fmt.Errorf("set queue status: %w", wrapQueryError(err))
	}
	return nil
}

// ListQueueByStatus returns queue entries in the given state, oldest first.
func (c *Client) ListQueueByStatus(ctx context.Context, status models.QueueStatus) ([]models.QueueEntry, error) {
	sql := `SELECT * FROM queue WHERE status = $status ORDER BY created_at ASC`
	results, err := surrealdb.Query[[]models.QueueEntry](ctx, c.db, sql, map[string]any{
		"status": string(status),
	})
	if err != nil {
		return nil, fmt.Errorf("list queue: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 {
		return []models.QueueEntry{}, nil
	}
	return (*results)[0].Result, nil
}

// SaveTranscription creates or overwrites the transcription document for a
// session. The document key is the session id, which makes retried deliveries
// idempotent: a rerun overwrites the same record rather than triggering the
// extraction stage twice.
func (c *Client) SaveTranscription(ctx context.Context, t models.Transcription) error {
	sql := `
		UPSERT type::record("transcription", $session_id) SET
			session_id = $session_id,
			audio_url = $audio_url,
			text = $text,
			language = $language,
			duration = $duration,
			context = $context,
			status = $status,
			error_message = $error_message,
			created_at = created_at ?? time::now(),
			updated_at = time::now()
	`
	_, err := surrealdb.Query[any](ctx, c.db, sql, map[string]any{
		"session_id":    t.SessionID,
		"audio_url":     t.AudioURL,
		"text":          t.Text,
		"language":      t.Language,
		"duration":      t.Duration,
		"context":       t.Context,
		"status":        string(t.Status),
		"error_message": t.ErrorMessage,
	})
	if err != nil {
		return fmt.Errorf("save transcription: %w", wrapQueryError(err))
	}
	return nil
}

// GetTranscription retrieves the transcription document for a session.
// Returns ErrNotFound if the session is unknown.
func (c *Client) GetTranscription(ctx context.Context, sessionID string) (*models.Transcription, error) {
	sql := `SELECT * FROM type::record("transcription", $session_id)`
	results, err := surrealdb.Query[[]models.Transcription](ctx, c.db, sql, map[string]any{
		"session_id": sessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("get transcription: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("transcription %s: %w", sessionID, ErrNotFound)
	}
	return &(*results)[0].Result[0], nil
}

// SetTranscriptionStatus writes the session status, error message and a
// server-assigned updated_at onto the transcription document. The write is
// persisted immediately so polling clients observe partial progress.
func (c *Client) SetTranscriptionStatus(ctx context.Context, sessionID string, status models.Status, errorMessage string) error {
	sql := `
		UPDATE type::record("transcription", $session_id) SET
			status = $status,
			error_message = $error_message,
			updated_at = time::now()
	`
	_, err := surrealdb.Query[any](ctx, c.db, sql, map[string]any{
		"session_id":    sessionID,
		"status":        string(status),
		"error_message": errorMessage,
	})
	if err != nil {
		return fmt.Errorf("set transcription status: %w", wrapQueryError(err))
	}
	return nil
}

// ListTranscriptionsByStatus returns transcriptions in the given state,
// oldest first. The dispatcher uses this to find sessions ready for the next
// stage.
func (c *Client) ListTranscriptionsByStatus(ctx context.Context, status models.Status) ([]models.Transcription, error) {
	sql := `SELECT * FROM transcription WHERE status = $status ORDER BY created_at ASC`
	results, err := surrealdb.Query[[]models.Transcription](ctx, c.db, sql, map[string]any{
		"status": string(status),
	})
	if err != nil {
		return nil, fmt.Errorf("list transcriptions: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 {
		return []models.Transcription{}, nil
	}
	return (*results)[0].Result, nil
}

// SaveClinicalRecord creates or overwrites the clinical record for a session.
func (c *Client) SaveClinicalRecord(ctx context.Context, r models.ClinicalRecord) error {
	sql := `
		UPSERT type::record("clinical_record", $session_id) SET
			session_id = $session_id,
			summary = $summary,
			patient_info = $patient_info,
			symptoms = $symptoms,
			reason_for_visit = $reason_for_visit,
			classified_symptoms = $classified_symptoms,
			created_at = created_at ?? time::now(),
			updated_at = time::now()
	`
	_, err := surrealdb.Query[any](ctx, c.db, sql, map[string]any{
		"session_id":          r.SessionID,
		"summary":             r.Summary,
		"patient_info":        r.PatientInfo,
		"symptoms":            r.Symptoms,
		"reason_for_visit":    r.ReasonForVisit,
		"classified_symptoms": r.ClassifiedSymptoms,
	})
	if err != nil {
		return fmt.Errorf("save clinical record: %w", wrapQueryError(err))
	}
	return nil
}

// GetClinicalRecord retrieves the clinical record for a session.
// Returns ErrNotFound if no record exists yet.
func (c *Client) GetClinicalRecord(ctx context.Context, sessionID string) (*models.ClinicalRecord, error) {
	sql := `SELECT * FROM type::record("clinical_record", $session_id)`
	results, err := surrealdb.Query[[]models.ClinicalRecord](ctx, c.db, sql, map[string]any{
		"session_id": sessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("get clinical record: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("clinical record %s: %w", sessionID, ErrNotFound)
	}
	return &(*results)[0].Result[0], nil
}

// SaveDiagnosis updates the clinical record in place with the composed report
// and the diagnosis probabilities. The record is never recreated; both fields
// are written in one statement so a reader sees either no diagnosis or the
// complete one.
func (c *Client) SaveDiagnosis(ctx context.Context, sessionID, report string, diagnosis []models.DiagnosisProbability) error {
	sql := `
		UPDATE type::record("clinical_record", $session_id) SET
			diagnosis_report = $report,
			diagnosis = $diagnosis,
			updated_at = time::now()
	`
	_, err := surrealdb.Query[any](ctx, c.db, sql, map[string]any{
		"session_id": sessionID,
		"report":     report,
		"diagnosis":  diagnosis,
	})
	if err != nil {
		return fmt.Errorf("save diagnosis: %w", wrapQueryError(err))
	}
	return nil
}
