// Package resolve computes which coach applies to an enrollment on a date.
//
// Assignments can exist at three nested scopes (the enrollment itself, its
// team, its center), each with independent effective date ranges. The
// resolver checks the scopes in precedence order and returns the coach from
// the most specific scope with an assignment in force. Precedence, not
// recency, is the only tie-break across scopes: an enrollment-level override
// beats a team or center default even if the broader assignment started
// later. Within a single scope ties cannot occur; the assignment store
// guarantees at most one assignment per scope is in force on any date.
//
// Resolution is a pure read: no state, no mutation, deterministic for a
// given store snapshot, safe for any number of concurrent callers.
package resolve

import (
	"context"
	"time"

	"github.com/dalemusser/coachhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Source supplies the single assignment in force for one scope triple on a
// date, if any. Implemented by assignmentstore.Store.
type Source interface {
	InForce(ctx context.Context, cohortID primitive.ObjectID, scope models.Scope, asOf time.Time) (models.CoachAssignment, bool, error)
}

// Resolution is the outcome of a successful lookup. It is ephemeral and
// never persisted.
type Resolution struct {
	CoachID      primitive.ObjectID `json:"coach_id"`
	ScopeKind    models.ScopeKind   `json:"scope_kind"`
	AssignmentID primitive.ObjectID `json:"assignment_id"`
}

// Resolver answers coach-for-enrollment queries against a Source.
type Resolver struct {
	src Source
}

// New constructs a Resolver over src.
func New(src Source) *Resolver {
	return &Resolver{src: src}
}

// Resolve returns the coach in force for the enrollment on asOf, or
// found=false when no scope has an assignment covering that date.
//
// The enrollment's own id is always a candidate scope; team and center are
// candidates only when the enrollment is placed in them.
func (r *Resolver) Resolve(ctx context.Context, enr models.Enrollment, asOf time.Time) (Resolution, bool, error) {
	scopes := candidateScopes(enr)

	for _, sc := range scopes {
		a, ok, err := r.src.InForce(ctx, enr.CohortID, sc, asOf)
		if err != nil {
			return Resolution{}, false, err
		}
		if ok {
			return Resolution{
				CoachID:      a.CoachID,
				ScopeKind:    a.ScopeKind,
				AssignmentID: a.ID,
			}, true, nil
		}
	}
	return Resolution{}, false, nil
}

// candidateScopes lists the enrollment's scope lookups most specific first.
func candidateScopes(enr models.Enrollment) []models.Scope {
	scopes := make([]models.Scope, 0, 3)
	scopes = append(scopes, models.Scope{Kind: models.ScopeEnrollment, ID: enr.ID})
	if enr.TeamID != nil {
		scopes = append(scopes, models.Scope{Kind: models.ScopeTeam, ID: *enr.TeamID})
	}
	if enr.CenterID != nil {
		scopes = append(scopes, models.Scope{Kind: models.ScopeCenter, ID: *enr.CenterID})
	}
	return scopes
}
