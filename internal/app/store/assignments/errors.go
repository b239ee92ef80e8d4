// internal/app/store/assignments/errors.go
package assignmentstore

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when an assignment id references no document.
var ErrNotFound = errors.New("coach assignment not found")

// ValidationError reports malformed or incomplete assignment data, or a
// scope reference that does not belong to the cohort. The caller can fix the
// input and resubmit; no partial state is ever left behind.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid assignment: %s: %s", e.Field, e.Reason)
}

// ConflictError reports that another assignment for the same
// (cohort, scope kind, scope id) is in force for part of the requested date
// range. It carries the blocking assignment's id so callers can offer the
// reassignment path: close the old range, then retry.
type ConflictError struct {
	ExistingID primitive.ObjectID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlaps existing assignment %s for the same scope", e.ExistingID.Hex())
}
