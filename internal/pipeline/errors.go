package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies a stage failure. Validation and logic failures are
// permanent; transient failures may succeed on redelivery; model failures
// mean the generator produced output that does not match the expected
// structure.
type Kind string

const (
	KindValidation Kind = "validation"
	KindTransient  Kind = "transient"
	KindModel      Kind = "model"
	KindLogic      Kind = "logic"
)

// StageError is the failure result of a pipeline sub-step. Handlers translate
// it into an _error status write; the kind decides whether redelivery is worth
// attempting.
type StageError struct {
	Stage string
	Kind  Kind
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// stageErr wraps err as a StageError of the given kind.
func stageErr(stage string, kind Kind, err error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Err: err}
}

// stageErrf builds a StageError from a format string.
func stageErrf(stage string, kind Kind, format string, args ...any) *StageError {
	return &StageError{Stage: stage, Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the failure kind of err, or KindTransient when err carries
// no classification. Unclassified errors are almost always I/O.
func KindOf(err error) Kind {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindTransient
}

// Permanent reports whether redelivering the triggering record could not
// change the outcome.
func Permanent(err error) bool {
	switch KindOf(err) {
	case KindValidation, KindLogic, KindModel:
		return true
	}
	return false
}
