// Package errs defines the error taxonomy shared by the scheduling core.
// Every operation reports failures through one of these types so handlers
// can classify without string matching, and so store outages are never
// mistaken for empty result sets.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError: a precondition on the request failed. Nothing was mutated.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func Validation(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// SlotConflict: the requested time is already owned. Carries the specific
// conflicting label so the operator can re-select.
type SlotConflict struct {
	Time string
}

func (e *SlotConflict) Error() string {
	return fmt.Sprintf("slot %s is already occupied", e.Time)
}

// Forbidden: the actor's role or ownership does not allow the action.
type Forbidden struct {
	Reason string
}

func (e *Forbidden) Error() string { return e.Reason }

// NotFound: the target slot or visit no longer exists. Non-fatal; the
// caller re-renders from current truth.
type NotFound struct {
	Reason string
}

func (e *NotFound) Error() string { return e.Reason }

// StoreError: the external slot store call itself failed. Retryable and
// distinct from "no rows".
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

func Store(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// HTTPStatus maps a taxonomy error to the status code the handlers emit.
func HTTPStatus(err error) int {
	var (
		ve *ValidationError
		sc *SlotConflict
		fe *Forbidden
		nf *NotFound
		se *StoreError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &sc):
		return http.StatusConflict
	case errors.As(err, &fe):
		return http.StatusForbidden
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &se):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// IsConflict reports whether err is a SlotConflict and returns it.
func IsConflict(err error) (*SlotConflict, bool) {
	var sc *SlotConflict
	if errors.As(err, &sc) {
		return sc, true
	}
	return nil, false
}
