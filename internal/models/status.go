// Package models defines the persisted records and value objects of the
// clinical processing pipeline.
package models

// Status enumerates the per-stage progress markers of a session. The status
// lives on the transcription record and is the single source of truth for all
// stages; only the final diagnosis fields live on the clinical record.
type Status string

const (
	StatusTranscriptionWaiting    Status = "transcription_waiting"
	StatusTranscriptionInProgress Status = "transcription_in_progress"
	StatusTranscriptionFinished   Status = "transcription_finished"
	StatusTranscriptionError      Status = "transcription_error"

	StatusExtractionStarted  Status = "information_extraction_started"
	StatusExtractionFinished Status = "information_extraction_finished"
	StatusExtractionError    Status = "information_extraction_error"

	StatusDiagnosisStarted  Status = "diagnosis_started"
	StatusDiagnosisFinished Status = "diagnosis_finished"
	StatusDiagnosisError    Status = "diagnosis_error"
)

// statusRank orders statuses along the pipeline. Success and error outcomes of
// the same stage share a rank; a session never moves to a lower rank.
var statusRank = map[Status]int{
	StatusTranscriptionWaiting:    0,
	StatusTranscriptionInProgress: 1,
	StatusTranscriptionFinished:   2,
	StatusTranscriptionError:      2,
	StatusExtractionStarted:       3,
	StatusExtractionFinished:      4,
	StatusExtractionError:         4,
	StatusDiagnosisStarted:        5,
	StatusDiagnosisFinished:       6,
	StatusDiagnosisError:          6,
}

// Valid reports whether s is a known pipeline status.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Rank returns the position of s in the pipeline ordering. Unknown statuses
// rank below every valid one.
func (s Status) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return -1
}

// IsError reports whether s marks a failed stage.
func (s Status) IsError() bool {
	switch s {
	case StatusTranscriptionError, StatusExtractionError, StatusDiagnosisError:
		return true
	}
	return false
}

// IsTerminal reports whether no further automated progress happens from s.
// Error statuses are terminal for automation; a client must resubmit.
func (s Status) IsTerminal() bool {
	return s == StatusDiagnosisFinished || s.IsError()
}

// CanAdvance reports whether a transition from s to next is legal. Statuses
// are monotonic: re-setting the same status is allowed (at-least-once
// redelivery), moving backward is not. Terminal states are absorbing, so an
// errored session keeps its error status until a client resubmits; the rank
// check alone would let an error flip to the same-rank success status.
func (s Status) CanAdvance(next Status) bool {
	if !next.Valid() {
		return false
	}
	if s == "" {
		return true
	}
	if s.IsTerminal() {
		return next == s
	}
	return next.Rank() >= s.Rank()
}
