// internal/domain/models/scope.go
package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScopeKind identifies which kind of entity a coach assignment attaches to.
//
// The three kinds nest: a cohort contains centers, a center contains teams,
// and enrollments sit at the bottom. Resolution precedence runs
// Enrollment > Team > Center: the most specific kind in force on a date wins.
type ScopeKind string

const (
	ScopeCenter     ScopeKind = "center"
	ScopeTeam       ScopeKind = "team"
	ScopeEnrollment ScopeKind = "enrollment"
)

// ParseScopeKind maps a wire string to a ScopeKind.
func ParseScopeKind(s string) (ScopeKind, bool) {
	switch ScopeKind(s) {
	case ScopeCenter, ScopeTeam, ScopeEnrollment:
		return ScopeKind(s), true
	}
	return "", false
}

// Valid reports whether k is one of the three known kinds.
func (k ScopeKind) Valid() bool {
	_, ok := ParseScopeKind(string(k))
	return ok
}

// Precedence returns the resolution rank for k. Higher wins: an
// enrollment-level assignment overrides team and center assignments that are
// in force on the same date. The rank also drives list ordering
// (center, team, enrollment).
func (k ScopeKind) Precedence() int {
	switch k {
	case ScopeCenter:
		return 0
	case ScopeTeam:
		return 1
	case ScopeEnrollment:
		return 2
	}
	return -1
}

// Label returns the display name for k ("Center", "Team", "Enrollment").
func (k ScopeKind) Label() string {
	switch k {
	case ScopeCenter:
		return "Center"
	case ScopeTeam:
		return "Team"
	case ScopeEnrollment:
		return "Enrollment"
	}
	return string(k)
}

// Scope pairs a kind with the id it refers to, so a team id cannot be used
// where an enrollment id is expected.
type Scope struct {
	Kind ScopeKind          `bson:"scope_kind" json:"scope_kind"`
	ID   primitive.ObjectID `bson:"scope_id" json:"scope_id"`
}

// FallbackLabel is the synthetic label used when a scope's entity cannot be
// looked up, e.g. "Team #662fd8…". Label resolution must never block a
// caller, so unresolved references degrade to this instead of erroring.
func (s Scope) FallbackLabel() string {
	return fmt.Sprintf("%s #%s", s.Kind.Label(), s.ID.Hex())
}
