package predict

import (
	"errors"
	"fmt"
)

var (
	ErrNotReady        = errors.New("no prediction yet, submit a roster first")
	ErrAlreadyReady    = errors.New("prediction already running, reset first")
	ErrRoundOutOfRange = errors.New("round is outside the current table")
	ErrUnknownMode     = errors.New("unknown prediction mode")
)

// ValidationError rejects user input. The engine state is unchanged.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid roster: %s: %s", e.Field, e.Reason)
}

// InvariantError is a caller contract violation such as extending before a
// roster exists. The engine ignores the call and reports it.
type InvariantError struct {
	Op  string
	Err error
}

func (e *InvariantError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *InvariantError) Unwrap() error { return e.Err }
