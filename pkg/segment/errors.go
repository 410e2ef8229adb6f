// ABOUTME: Segmentation error types
// ABOUTME: Missing active marker and failures of external collaborators
package segment

import (
	"errors"
	"fmt"
)

// ErrNoActiveMarker is returned when a segment is requested with no active marker
var ErrNoActiveMarker = errors.New("no active marker")

// CollaboratorError wraps a failure of a detector, audio sink or file writer.
// The marker store is left as it was before the failing call.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
