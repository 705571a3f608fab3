package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/clinicai/clinicai-go/internal/db"
	"github.com/clinicai/clinicai-go/internal/models"
)

// StatusMachine mediates every status write for a session. It enforces the
// monotonic left-to-right ordering of the status chain: a handler can only
// move a session forward, never backward, and re-setting the current status
// is a harmless no-op so redelivered triggers stay idempotent.
type StatusMachine struct {
	store Store
	log   *slog.Logger
}

// NewStatusMachine creates a status machine over the given store.
func NewStatusMachine(store Store, log *slog.Logger) *StatusMachine {
	return &StatusMachine{store: store, log: log}
}

// Advance moves a session's status to next. Error statuses require a
// non-empty message. A transition backward in the chain is rejected as a
// logic failure; advancing to the status already held writes nothing.
func (m *StatusMachine) Advance(ctx context.Context, sessionID string, next models.Status, errorMessage string) error {
	if sessionID == "" {
		return stageErrf("status", KindLogic, "session_id is required")
	}
	if !next.Valid() {
		return stageErrf("status", KindLogic, "unknown status %q", next)
	}
	if next.IsError() && errorMessage == "" {
		return stageErrf("status", KindLogic, "error status %q requires an error message", next)
	}

	current, err := m.Current(ctx, sessionID)
	if err != nil {
		return err
	}
	if current == next {
		return nil
	}
	if !current.CanAdvance(next) {
		return stageErrf("status", KindLogic, "cannot move session %s from %q to %q", sessionID, current, next)
	}

	if err := m.store.SetTranscriptionStatus(ctx, sessionID, next, errorMessage); err != nil {
		return stageErr("status", KindTransient, fmt.Errorf("write status %q: %w", next, err))
	}
	m.log.Info("status advanced", "session_id", sessionID, "from", current, "to", next)
	return nil
}

// Fail records an _error status for a session. The original failure is never
// masked: if the status write itself fails it is only logged, and cause is
// what the caller keeps propagating.
func (m *StatusMachine) Fail(ctx context.Context, sessionID string, errStatus models.Status, cause error) {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	if err := m.Advance(ctx, sessionID, errStatus, msg); err != nil {
		m.log.Error("failed to record error status",
			"session_id", sessionID, "status", errStatus, "error", err, "original_error", cause)
	}
}

// Current reads the session's status off its transcription record. A
// session with no transcription record yet has the empty status, from which
// any transition is allowed.
func (m *StatusMachine) Current(ctx context.Context, sessionID string) (models.Status, error) {
	t, err := m.store.GetTranscription(ctx, sessionID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", nil
		}
		return "", stageErr("status", KindTransient, fmt.Errorf("read status: %w", err))
	}
	return t.Status, nil
}
