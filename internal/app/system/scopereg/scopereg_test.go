package scopereg_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/coachhub/internal/app/system/scopereg"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"github.com/dalemusser/coachhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestValidateScope(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cohort := fx.CreateCohort(ctx, "Cohort 2024")
	otherCohort := fx.CreateCohort(ctx, "Cohort 2025")
	center := fx.CreateCenter(ctx, cohort.ID, "North Center")
	team := fx.CreateTeam(ctx, cohort.ID, center.ID, "Team Alpha")
	enr := fx.CreateEnrollment(ctx, cohort.ID, &center.ID, &team.ID, "Participant 42")

	reg := scopereg.New(db, zap.NewNop())

	tests := []struct {
		name     string
		cohortID primitive.ObjectID
		scope    models.Scope
		want     bool
	}{
		{"center in cohort", cohort.ID, models.Scope{Kind: models.ScopeCenter, ID: center.ID}, true},
		{"team in cohort", cohort.ID, models.Scope{Kind: models.ScopeTeam, ID: team.ID}, true},
		{"enrollment in cohort", cohort.ID, models.Scope{Kind: models.ScopeEnrollment, ID: enr.ID}, true},
		{"center in wrong cohort", otherCohort.ID, models.Scope{Kind: models.ScopeCenter, ID: center.ID}, false},
		{"unknown id", cohort.ID, models.Scope{Kind: models.ScopeTeam, ID: primitive.NewObjectID()}, false},
		{"kind mismatch", cohort.ID, models.Scope{Kind: models.ScopeEnrollment, ID: center.ID}, false},
		{"bad kind", cohort.ID, models.Scope{Kind: "district", ID: center.ID}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := reg.ValidateScope(ctx, tc.cohortID, tc.scope)
			if err != nil {
				t.Fatalf("ValidateScope failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLabelFor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cohort := fx.CreateCohort(ctx, "Cohort 2024")
	center := fx.CreateCenter(ctx, cohort.ID, "North Center")
	team := fx.CreateTeam(ctx, cohort.ID, center.ID, "Team Alpha")
	enr := fx.CreateEnrollment(ctx, cohort.ID, &center.ID, &team.ID, "Jordan Smith")

	reg := scopereg.New(db, zap.NewNop())

	if got := reg.LabelFor(ctx, models.Scope{Kind: models.ScopeCenter, ID: center.ID}); got != "North Center" {
		t.Errorf("center label: got %q", got)
	}
	if got := reg.LabelFor(ctx, models.Scope{Kind: models.ScopeTeam, ID: team.ID}); got != "Team Alpha" {
		t.Errorf("team label: got %q", got)
	}
	if got := reg.LabelFor(ctx, models.Scope{Kind: models.ScopeEnrollment, ID: enr.ID}); got != "Jordan Smith" {
		t.Errorf("enrollment label: got %q", got)
	}
}

func TestLabelFor_FallsBackOnMissingEntity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	reg := scopereg.New(db, zap.NewNop())

	missing := primitive.NewObjectID()
	got := reg.LabelFor(ctx, models.Scope{Kind: models.ScopeTeam, ID: missing})
	if !strings.Contains(got, missing.Hex()) {
		t.Errorf("fallback label should include the id hex, got %q", got)
	}
	if !strings.Contains(got, "Team") {
		t.Errorf("fallback label should name the kind, got %q", got)
	}
}
