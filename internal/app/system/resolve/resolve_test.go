package resolve_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/coachhub/internal/app/system/effrange"
	"github.com/dalemusser/coachhub/internal/app/system/resolve"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memSource is an in-memory Source so resolver behavior can be pinned down
// without a database. It applies the same in-force test the store's InForce
// query does.
type memSource struct {
	assignments []models.CoachAssignment
}

func (m *memSource) add(a models.CoachAssignment) models.CoachAssignment {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	m.assignments = append(m.assignments, a)
	return a
}

func (m *memSource) InForce(_ context.Context, cohortID primitive.ObjectID, scope models.Scope, asOf time.Time) (models.CoachAssignment, bool, error) {
	for _, a := range m.assignments {
		if a.CohortID != cohortID || a.ScopeKind != scope.Kind || a.ScopeID != scope.ID {
			continue
		}
		r := effrange.Range{From: a.EffectiveFrom, To: a.EffectiveTo}
		if r.Covers(asOf) {
			return a, true, nil
		}
	}
	return models.CoachAssignment{}, false, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

type fixture struct {
	src        *memSource
	resolver   *resolve.Resolver
	cohortID   primitive.ObjectID
	centerID   primitive.ObjectID
	teamID     primitive.ObjectID
	enrollment models.Enrollment
}

// newFixture builds enrollment #42's world: a cohort with one center and one
// team, enrollment placed in both.
func newFixture() *fixture {
	src := &memSource{}
	f := &fixture{
		src:      src,
		resolver: resolve.New(src),
		cohortID: primitive.NewObjectID(),
		centerID: primitive.NewObjectID(),
		teamID:   primitive.NewObjectID(),
	}
	f.enrollment = models.Enrollment{
		ID:       primitive.NewObjectID(),
		CohortID: f.cohortID,
		CenterID: &f.centerID,
		TeamID:   &f.teamID,
	}
	return f
}

func (f *fixture) assign(kind models.ScopeKind, scopeID, coachID primitive.ObjectID, from time.Time, to *time.Time) models.CoachAssignment {
	return f.src.add(models.CoachAssignment{
		CohortID:      f.cohortID,
		CoachID:       coachID,
		ScopeKind:     kind,
		ScopeID:       scopeID,
		EffectiveFrom: from,
		EffectiveTo:   to,
	})
}

func TestResolve_CenterFallback(t *testing.T) {
	// Center has coach C1 from 2024-01-01 open-ended; the enrollment has no
	// team or enrollment-level assignment. Resolving mid-year yields C1.
	f := newFixture()
	c1 := primitive.NewObjectID()
	f.assign(models.ScopeCenter, f.centerID, c1, day(2024, 1, 1), nil)

	res, ok, err := f.resolver.Resolve(context.Background(), f.enrollment, day(2024, 6, 1))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a resolution, got none")
	}
	if res.CoachID != c1 {
		t.Errorf("CoachID: got %v, want %v", res.CoachID, c1)
	}
	if res.ScopeKind != models.ScopeCenter {
		t.Errorf("ScopeKind: got %v, want center", res.ScopeKind)
	}
}

func TestResolve_TeamBeatsCenter(t *testing.T) {
	// Center coach C1 open-ended; team coach C2 from March through August.
	// In June the team assignment wins; in September it has ended and
	// resolution falls back to the center.
	f := newFixture()
	c1 := primitive.NewObjectID()
	c2 := primitive.NewObjectID()
	f.assign(models.ScopeCenter, f.centerID, c1, day(2024, 1, 1), nil)
	f.assign(models.ScopeTeam, f.teamID, c2, day(2024, 3, 1), dayPtr(2024, 8, 31))

	res, ok, err := f.resolver.Resolve(context.Background(), f.enrollment, day(2024, 6, 1))
	if err != nil || !ok {
		t.Fatalf("Resolve (June) = ok=%v err=%v", ok, err)
	}
	if res.CoachID != c2 || res.ScopeKind != models.ScopeTeam {
		t.Errorf("June: got coach %v at %v, want C2 at team", res.CoachID, res.ScopeKind)
	}

	res, ok, err = f.resolver.Resolve(context.Background(), f.enrollment, day(2024, 9, 1))
	if err != nil || !ok {
		t.Fatalf("Resolve (September) = ok=%v err=%v", ok, err)
	}
	if res.CoachID != c1 || res.ScopeKind != models.ScopeCenter {
		t.Errorf("September: got coach %v at %v, want C1 at center", res.CoachID, res.ScopeKind)
	}
}

func TestResolve_EnrollmentOverrideWins(t *testing.T) {
	// A direct enrollment override beats an in-force team assignment, and
	// an enrollment override beats a center assignment that started later.
	f := newFixture()
	c1 := primitive.NewObjectID()
	c2 := primitive.NewObjectID()
	c4 := primitive.NewObjectID()
	f.assign(models.ScopeCenter, f.centerID, c1, day(2024, 1, 1), nil)
	f.assign(models.ScopeTeam, f.teamID, c2, day(2024, 3, 1), dayPtr(2024, 8, 31))
	f.assign(models.ScopeEnrollment, f.enrollment.ID, c4, day(2024, 6, 15), nil)

	res, ok, err := f.resolver.Resolve(context.Background(), f.enrollment, day(2024, 6, 20))
	if err != nil || !ok {
		t.Fatalf("Resolve = ok=%v err=%v", ok, err)
	}
	if res.CoachID != c4 {
		t.Errorf("CoachID: got %v, want the enrollment override", res.CoachID)
	}
	if res.ScopeKind != models.ScopeEnrollment {
		t.Errorf("ScopeKind: got %v, want enrollment", res.ScopeKind)
	}
}

func TestResolve_NoneInForce(t *testing.T) {
	f := newFixture()
	c1 := primitive.NewObjectID()
	// Only a team assignment that ended long ago.
	f.assign(models.ScopeTeam, f.teamID, c1, day(2023, 1, 1), dayPtr(2023, 6, 30))

	_, ok, err := f.resolver.Resolve(context.Background(), f.enrollment, day(2024, 6, 1))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if ok {
		t.Error("expected no resolution")
	}
}

func TestResolve_BoundaryDays(t *testing.T) {
	f := newFixture()
	c2 := primitive.NewObjectID()
	a := f.assign(models.ScopeTeam, f.teamID, c2, day(2024, 3, 1), dayPtr(2024, 8, 31))

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"first day", day(2024, 3, 1), true},
		{"last day", day(2024, 8, 31), true},
		{"day before first", day(2024, 2, 29), false},
		{"day after last", day(2024, 9, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok, err := f.resolver.Resolve(context.Background(), f.enrollment, tt.date)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if ok != tt.want {
				t.Fatalf("found = %v, want %v", ok, tt.want)
			}
			if ok && res.AssignmentID != a.ID {
				t.Errorf("AssignmentID: got %v, want %v", res.AssignmentID, a.ID)
			}
		})
	}
}

func TestResolve_UnplacedEnrollment(t *testing.T) {
	// An enrollment with no team and no center only ever matches
	// enrollment-scope assignments.
	f := newFixture()
	f.enrollment.TeamID = nil
	f.enrollment.CenterID = nil
	c1 := primitive.NewObjectID()
	f.assign(models.ScopeCenter, f.centerID, c1, day(2024, 1, 1), nil)

	_, ok, err := f.resolver.Resolve(context.Background(), f.enrollment, day(2024, 6, 1))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if ok {
		t.Error("unplaced enrollment must not pick up center assignments")
	}

	c4 := primitive.NewObjectID()
	f.assign(models.ScopeEnrollment, f.enrollment.ID, c4, day(2024, 1, 1), nil)
	res, ok, err := f.resolver.Resolve(context.Background(), f.enrollment, day(2024, 6, 1))
	if err != nil || !ok {
		t.Fatalf("Resolve = ok=%v err=%v", ok, err)
	}
	if res.CoachID != c4 {
		t.Errorf("CoachID: got %v, want %v", res.CoachID, c4)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	f := newFixture()
	c1 := primitive.NewObjectID()
	c2 := primitive.NewObjectID()
	f.assign(models.ScopeCenter, f.centerID, c1, day(2024, 1, 1), nil)
	f.assign(models.ScopeTeam, f.teamID, c2, day(2024, 3, 1), dayPtr(2024, 8, 31))

	first, ok, err := f.resolver.Resolve(context.Background(), f.enrollment, day(2024, 6, 1))
	if err != nil || !ok {
		t.Fatalf("Resolve = ok=%v err=%v", ok, err)
	}
	for i := 0; i < 50; i++ {
		got, ok, err := f.resolver.Resolve(context.Background(), f.enrollment, day(2024, 6, 1))
		if err != nil || !ok {
			t.Fatalf("Resolve (repeat %d) = ok=%v err=%v", i, ok, err)
		}
		if got != first {
			t.Fatalf("repeat %d: got %+v, want %+v", i, got, first)
		}
	}
}

func TestResolve_OpenEndedFarFuture(t *testing.T) {
	f := newFixture()
	c1 := primitive.NewObjectID()
	f.assign(models.ScopeCenter, f.centerID, c1, day(2024, 1, 1), nil)

	res, ok, err := f.resolver.Resolve(context.Background(), f.enrollment, day(2099, 12, 31))
	if err != nil || !ok {
		t.Fatalf("Resolve = ok=%v err=%v", ok, err)
	}
	if res.CoachID != c1 {
		t.Errorf("CoachID: got %v, want %v", res.CoachID, c1)
	}
}
