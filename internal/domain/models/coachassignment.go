// internal/domain/models/coachassignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CoachAssignment assigns a coach to a center, team, or single enrollment
// within a cohort for an inclusive range of calendar dates.
//
// Documents in the `coach_assignments` collection are immutable once created,
// with one exception: closing an open range (setting effective_to) so a
// replacement assignment can be created. A "reassignment" is always modeled
// as close-then-create, never an in-place edit, so the collection is a full
// history of who coached what and when.
//
// Invariants (enforced by the store, not by storage alone):
//   - EffectiveTo is nil (open-ended) or >= EffectiveFrom.
//   - For a given (cohort_id, scope_kind, scope_id), stored date ranges never
//     overlap: at most one coach is in force for a scope on any day.
type CoachAssignment struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CohortID primitive.ObjectID `bson:"cohort_id" json:"cohort_id"`
	CoachID  primitive.ObjectID `bson:"coach_id" json:"coach_id"`

	ScopeKind ScopeKind          `bson:"scope_kind" json:"scope_kind"`
	ScopeID   primitive.ObjectID `bson:"scope_id" json:"scope_id"`

	// Calendar dates at UTC midnight; both bounds inclusive.
	EffectiveFrom time.Time  `bson:"effective_from" json:"effective_from"`
	EffectiveTo   *time.Time `bson:"effective_to,omitempty" json:"effective_to,omitempty"`

	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
	CreatedByID   *primitive.ObjectID `bson:"created_by_id,omitempty" json:"created_by_id,omitempty"`
	CreatedByName string              `bson:"created_by_name,omitempty" json:"created_by_name,omitempty"`
}

// Scope returns the assignment's scope as a tagged value.
func (a CoachAssignment) Scope() Scope {
	return Scope{Kind: a.ScopeKind, ID: a.ScopeID}
}

// OpenEnded reports whether the assignment has no end date.
func (a CoachAssignment) OpenEnded() bool {
	return a.EffectiveTo == nil
}
