// SPDX-License-Identifier: MPL-2.0

package lifecycle

import (
	"errors"
	"fmt"
)

const (
	// StateCreated means Begin has not been called yet.
	StateCreated State = iota
	// StateStarting means Begin succeeded and the worker is initializing.
	StateStarting
	// StateRunning means the worker signalled readiness.
	StateRunning
	// StateStopping means Halt was called and goroutines are draining.
	StateStopping
	// StateStopped is terminal.
	StateStopped
	// StateFailed is terminal; LastError holds the cause.
	StateFailed
)

// ErrInvalidState is returned when a State value is not a defined lifecycle state.
var ErrInvalidState = errors.New("invalid lifecycle state")

type (
	// State is the lifecycle state of a worker.
	State int32

	// InvalidStateError wraps ErrInvalidState with the offending value.
	InvalidStateError struct {
		Value State
	}
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Validate returns nil for defined states and an *InvalidStateError otherwise.
func (s State) Validate() error {
	if s < StateCreated || s > StateFailed {
		return &InvalidStateError{Value: s}
	}
	return nil
}

// IsTerminal reports whether no further transition can happen.
func (s State) IsTerminal() bool {
	return s == StateStopped || s == StateFailed
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid lifecycle state %d", int32(e.Value))
}

// Unwrap returns ErrInvalidState for errors.Is.
func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}
