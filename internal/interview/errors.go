package interview

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session id is unknown to the registry.
var ErrSessionNotFound = errors.New("session not found")

// InvariantError reports internal misuse of the orchestration state machine,
// e.g. recording an answer while no question is pending. It never occurs when
// transitions are driven through the service.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("interview invariant violated: %s", e.Reason)
}
