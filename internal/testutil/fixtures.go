package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/coachhub/internal/app/system/status"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateCohort creates a test cohort with the given name.
// Returns the created cohort with its generated ID.
func (f *Fixtures) CreateCohort(ctx context.Context, name string) models.Cohort {
	f.t.Helper()

	now := time.Now().UTC()
	cohort := models.Cohort{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Status:    status.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("cohorts").InsertOne(ctx, cohort)
	if err != nil {
		f.t.Fatalf("failed to create test cohort: %v", err)
	}

	return cohort
}

// CreateCohortGroup creates a test cohort group.
func (f *Fixtures) CreateCohortGroup(ctx context.Context, name string) models.CohortGroup {
	f.t.Helper()

	now := time.Now().UTC()
	group := models.CohortGroup{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("cohort_groups").InsertOne(ctx, group)
	if err != nil {
		f.t.Fatalf("failed to create test cohort group: %v", err)
	}

	return group
}

// CreateCenter creates a test center in the given cohort.
func (f *Fixtures) CreateCenter(ctx context.Context, cohortID primitive.ObjectID, name string) models.Center {
	f.t.Helper()

	now := time.Now().UTC()
	center := models.Center{
		ID:        primitive.NewObjectID(),
		CohortID:  cohortID,
		Name:      name,
		NameCI:    text.Fold(name),
		City:      "Test City",
		State:     "TS",
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("centers").InsertOne(ctx, center)
	if err != nil {
		f.t.Fatalf("failed to create test center: %v", err)
	}

	return center
}

// CreateTeam creates a test team in the given center.
func (f *Fixtures) CreateTeam(ctx context.Context, cohortID, centerID primitive.ObjectID, name string) models.Team {
	f.t.Helper()

	now := time.Now().UTC()
	team := models.Team{
		ID:        primitive.NewObjectID(),
		CohortID:  cohortID,
		CenterID:  centerID,
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("teams").InsertOne(ctx, team)
	if err != nil {
		f.t.Fatalf("failed to create test team: %v", err)
	}

	return team
}

// CreateEnrollment creates a test enrollment. centerID and teamID may be nil
// for an unplaced participant.
func (f *Fixtures) CreateEnrollment(ctx context.Context, cohortID primitive.ObjectID, centerID, teamID *primitive.ObjectID, participantName string) models.Enrollment {
	f.t.Helper()

	now := time.Now().UTC()
	enr := models.Enrollment{
		ID:                primitive.NewObjectID(),
		CohortID:          cohortID,
		CenterID:          centerID,
		TeamID:            teamID,
		ParticipantName:   participantName,
		ParticipantNameCI: text.Fold(participantName),
		Status:            status.Active,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	_, err := f.db.Collection("enrollments").InsertOne(ctx, enr)
	if err != nil {
		f.t.Fatalf("failed to create test enrollment: %v", err)
	}

	return enr
}

// CreateUser creates a test user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, loginID, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		LoginID:    loginID,
		LoginIDCI:  text.Fold(loginID),
		Role:       role,
		Status:     status.Active,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, loginID string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, loginID, models.RoleAdmin)
}

// CreateCoach creates a test coach user.
func (f *Fixtures) CreateCoach(ctx context.Context, fullName, loginID string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, loginID, models.RoleCoach)
}

// CreateDisabledUser creates a test user with disabled status.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, fullName, loginID string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		LoginID:    loginID,
		LoginIDCI:  text.Fold(loginID),
		Role:       models.RoleCoach,
		Status:     status.Disabled,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create disabled test user: %v", err)
	}

	return user
}

// CreateAssignment inserts a coach assignment directly, bypassing the store's
// validation. Use this to stage data the store-level guards would reject.
func (f *Fixtures) CreateAssignment(ctx context.Context, a models.CoachAssignment) models.CoachAssignment {
	f.t.Helper()

	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := f.db.Collection("coach_assignments").InsertOne(ctx, a)
	if err != nil {
		f.t.Fatalf("failed to create test assignment: %v", err)
	}

	return a
}
