// Package coreerr defines the error taxonomy shared by the statemachine,
// lifecycle, and initsvc packages, so that callers can use errors.Is/As
// uniformly regardless of which component raised the failure.
package coreerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidArgument          = errors.New("invalid argument")
	ErrInvalidState             = errors.New("invalid state")
	ErrNotConfigured            = errors.New("not configured")
	ErrAlreadyRegistered        = errors.New("already registered")
	ErrNotFound                 = errors.New("not found")
	ErrTransitionBudgetExceeded = errors.New("transition budget exceeded")
	ErrTimeout                  = errors.New("timeout")
	ErrDestroyed                = errors.New("destroyed")
	ErrNotSupported             = errors.New("not supported")
)

// TransitionFailedError wraps a failure raised by a transition's step or
// handler function, optionally chained with a failure that occurred while
// attempting to cancel.
type TransitionFailedError struct {
	From, To  string
	Cause     error
	CancelErr error
}

func (e *TransitionFailedError) Error() string {
	if e.CancelErr != nil {
		return fmt.Sprintf("transition %s->%s failed: %v (cancel also failed: %v)", e.From, e.To, e.Cause, e.CancelErr)
	}
	return fmt.Sprintf("transition %s->%s failed: %v", e.From, e.To, e.Cause)
}

func (e *TransitionFailedError) Unwrap() error { return e.Cause }

// DependencyError reports that a service could not proceed because one or
// more dependencies were unavailable or in Error.
type DependencyError struct {
	Service string
	Missing []string
	Cause   error
}

func (e *DependencyError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: dependencies not available: [%s]", e.Service, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s: dependency error: %v", e.Service, e.Cause)
}

func (e *DependencyError) Unwrap() error { return e.Cause }
