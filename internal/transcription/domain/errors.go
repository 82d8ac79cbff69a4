package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict") // version mismatch on save
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrCurrencyMismatch  = errors.New("currency mismatch")
)

// ValidationError reports a malformed value object or request field.
// It unwraps to ErrInvalidArgument so callers can errors.Is on the class.
type ValidationError struct {
	Field    string
	Value    any
	Expected string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v (expected %s)", e.Field, e.Value, e.Expected)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidArgument }

// InvalidStateError reports an illegal aggregate transition. It carries the
// attempted operation and both statuses; it never auto-corrects.
type InvalidStateError struct {
	Op   string
	From Status
	To   Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s transcription: invalid transition %s -> %s", e.Op, e.From, e.To)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidTransition }
