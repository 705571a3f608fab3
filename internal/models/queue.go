package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// QueueStatus tracks an audio submission awaiting transcription.
type QueueStatus string

const (
	QueueWaiting  QueueStatus = "waiting"
	QueueFinished QueueStatus = "finished"
	QueueError    QueueStatus = "error"
)

// QueueEntry represents an audio submission queued for transcription.
// It exists only for audio inputs; direct-text submissions skip the queue.
// The document is keyed by session_id so redelivered triggers overwrite
// instead of duplicating.
type QueueEntry struct {
	ID           *surrealmodels.RecordID `json:"id,omitempty"`
	SessionID    string                  `json:"session_id"`
	AudioURL     string                  `json:"audio_url"`
	Status       QueueStatus             `json:"status"`
	ErrorMessage string                  `json:"error_message,omitempty"`
	CreatedAt    time.Time               `json:"created_at,omitempty"`
	UpdatedAt    *time.Time              `json:"updated_at,omitempty"`
}
