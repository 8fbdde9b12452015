package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure variants the booking workflow can
// surface. Callers branch on the kind, never on the message text.
type ErrorKind string

const (
	KindValidation            ErrorKind = "VALIDATION_FAILURE"
	KindInsufficientInventory ErrorKind = "INSUFFICIENT_INVENTORY"
	KindFlightBusy            ErrorKind = "FLIGHT_BUSY"
	KindPersistence           ErrorKind = "PERSISTENCE_FAILURE"
	KindInventoryUpdate       ErrorKind = "INVENTORY_UPDATE_FAILURE"
	KindFinalization          ErrorKind = "FINALIZATION_FAILURE"
	KindUpstreamUnavailable   ErrorKind = "UPSTREAM_UNAVAILABLE"
	KindUpstream              ErrorKind = "UPSTREAM_ERROR"
	KindNotFound              ErrorKind = "NOT_FOUND"
	KindStoreUnavailable      ErrorKind = "STORE_UNAVAILABLE"
)

const genericExplanation = "something went wrong"

type Error struct {
	Kind        ErrorKind
	Explanation string
	Err         error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Explanation, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Explanation)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a tagged error. An empty explanation falls back to a
// generic message so raw store/client details never leak to callers.
func NewError(kind ErrorKind, explanation string, cause error) *Error {
	if explanation == "" {
		explanation = genericExplanation
	}
	return &Error{Kind: kind, Explanation: explanation, Err: cause}
}

// KindOf extracts the kind from err, or KindUpstream if err is not tagged.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUpstream
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == kind
}

// ExplanationOf returns the human-readable explanation attached to err, or
// the generic fallback for untagged errors.
func ExplanationOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Explanation
	}
	return genericExplanation
}
