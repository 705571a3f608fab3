package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Transcription is the persisted transcript of a session together with the
// session-wide pipeline status. Created exactly once per session (document key
// = session_id); later stages only update it.
type Transcription struct {
	ID           *surrealmodels.RecordID `json:"id,omitempty"`
	SessionID    string                  `json:"session_id"`
	AudioURL     string                  `json:"audio_url,omitempty"`
	Text         string                  `json:"text"`
	Language     string                  `json:"language,omitempty"`
	Duration     float64                 `json:"duration,omitempty"`
	Context      string                  `json:"context,omitempty"`
	Status       Status                  `json:"status"`
	ErrorMessage string                  `json:"error_message,omitempty"`
	CreatedAt    time.Time               `json:"created_at,omitempty"`
	UpdatedAt    *time.Time              `json:"updated_at,omitempty"`
}
