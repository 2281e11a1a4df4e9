package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors classifying capture failures. Wrap tags errors with one of
// these so the sequencer can decide between aborting the session, degrading
// for a single point, and recording a clean cancellation.
var (
	// ErrPrecondition marks invalid inputs discovered before any capture
	// (zero surface dimensions, empty point plan). Fatal for the session.
	ErrPrecondition = errors.New("precondition error")
	// ErrResourceUnavailable marks a missing or denied device. Per-source
	// degradation, except for the screen surface itself.
	ErrResourceUnavailable = errors.New("resource unavailable")
	// ErrPersistence marks artifact submission failures. Recorded on the
	// capture group, never retried by the engine.
	ErrPersistence = errors.New("persistence error")
	// ErrCancelled marks a user cancellation. A clean terminal state, not a
	// failure.
	ErrCancelled = errors.New("cancelled")
	// ErrBusy marks a session request while another session is active.
	ErrBusy = errors.New("session already active")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrResourceUnavailable
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether an error must abort the whole session rather than
// degrade a single point.
func Fatal(err error) bool {
	return errors.Is(err, ErrPrecondition)
}

// Details extracts the human-readable portion of a wrapped error for status
// reporting.
type ErrorDetails struct {
	Message string
}

// Details returns reporting details for err. The sentinel prefix is stripped
// so status messages read naturally.
func Details(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{}
	}
	msg := err.Error()
	for _, sentinel := range []error{ErrPrecondition, ErrResourceUnavailable, ErrPersistence, ErrCancelled, ErrBusy} {
		prefix := sentinel.Error() + ": "
		if strings.HasPrefix(msg, prefix) {
			msg = strings.TrimPrefix(msg, prefix)
			break
		}
	}
	return ErrorDetails{Message: msg}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "capture failure"
	}
	return strings.Join(parts, ": ")
}
