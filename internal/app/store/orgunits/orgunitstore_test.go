package orgunitstore_test

import (
	"testing"

	orgunitstore "github.com/dalemusser/coachhub/internal/app/store/orgunits"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"github.com/dalemusser/coachhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestCenterCreate_FoldsName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	centers := orgunitstore.NewCenters(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cohort := fx.CreateCohort(ctx, "Cohort 2025")
	created, err := centers.Create(ctx, models.Center{
		CohortID: cohort.ID,
		Name:     "North Center",
		City:     "Columbia",
		State:    "MO",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.NameCI != "north center" {
		t.Errorf("expected folded name, got %q", created.NameCI)
	}

	got, err := centers.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.City != "Columbia" || got.State != "MO" {
		t.Errorf("expected city/state round trip, got %q / %q", got.City, got.State)
	}
}

func TestCenterCreate_DuplicateWithinCohort(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	centers := orgunitstore.NewCenters(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Duplicate detection relies on the unique (cohort_id, name_ci) index
	// that the startup reconciliation normally creates.
	_, err := db.Collection("centers").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "cohort_id", Value: 1},
			{Key: "name_ci", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		t.Fatal(err)
	}

	cohort := fx.CreateCohort(ctx, "Cohort 2025")
	other := fx.CreateCohort(ctx, "Cohort 2026")

	if _, err := centers.Create(ctx, models.Center{CohortID: cohort.ID, Name: "North Center"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err = centers.Create(ctx, models.Center{CohortID: cohort.ID, Name: "NORTH CENTER"})
	if err != orgunitstore.ErrDuplicateCenter {
		t.Errorf("expected ErrDuplicateCenter, got %v", err)
	}

	// The same name is fine in a different cohort.
	if _, err := centers.Create(ctx, models.Center{CohortID: other.ID, Name: "North Center"}); err != nil {
		t.Errorf("expected name reusable across cohorts, got %v", err)
	}
}

func TestCenterListByCohort(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	centers := orgunitstore.NewCenters(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cohort := fx.CreateCohort(ctx, "Cohort 2025")
	other := fx.CreateCohort(ctx, "Cohort 2026")
	fx.CreateCenter(ctx, cohort.ID, "South Center")
	fx.CreateCenter(ctx, cohort.ID, "North Center")
	fx.CreateCenter(ctx, other.ID, "Elsewhere Center")

	got, err := centers.ListByCohort(ctx, cohort.ID)
	if err != nil {
		t.Fatalf("ListByCohort failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 centers, got %d", len(got))
	}
	if got[0].Name != "North Center" || got[1].Name != "South Center" {
		t.Errorf("expected sorted centers, got %q then %q", got[0].Name, got[1].Name)
	}
}

func TestCenterUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	centers := orgunitstore.NewCenters(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cohort := fx.CreateCohort(ctx, "Cohort 2025")
	center := fx.CreateCenter(ctx, cohort.ID, "North Center")

	err := centers.Update(ctx, center.ID, models.Center{Name: "Northern Center", City: "Jefferson City"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := centers.GetByID(ctx, center.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Northern Center" || got.NameCI != "northern center" {
		t.Errorf("expected renamed center with refolded name, got %q / %q", got.Name, got.NameCI)
	}
	if got.City != "Jefferson City" {
		t.Errorf("expected updated city, got %q", got.City)
	}
	if got.CohortID != cohort.ID {
		t.Errorf("expected cohort unchanged, got %v", got.CohortID)
	}
}

func TestTeamCreate_DenormalizesCohort(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	teams := orgunitstore.NewTeams(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cohort := fx.CreateCohort(ctx, "Cohort 2025")
	center := fx.CreateCenter(ctx, cohort.ID, "North Center")

	created, err := teams.Create(ctx, models.Team{
		CohortID: cohort.ID,
		CenterID: center.ID,
		Name:     "Team Alpha",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.CohortID != cohort.ID {
		t.Errorf("expected cohort denormalized from center, got %v", created.CohortID)
	}
	if created.NameCI != "team alpha" {
		t.Errorf("expected folded name, got %q", created.NameCI)
	}
}

func TestTeamCreate_CenterNotInCohort(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	teams := orgunitstore.NewTeams(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cohort := fx.CreateCohort(ctx, "Cohort 2025")
	other := fx.CreateCohort(ctx, "Cohort 2026")
	center := fx.CreateCenter(ctx, other.ID, "Elsewhere Center")

	_, err := teams.Create(ctx, models.Team{
		CohortID: cohort.ID,
		CenterID: center.ID,
		Name:     "Team Alpha",
	})
	if err != orgunitstore.ErrCenterNotInCohort {
		t.Errorf("expected ErrCenterNotInCohort, got %v", err)
	}
}

func TestTeamCreate_DuplicateWithinCenter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	teams := orgunitstore.NewTeams(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Duplicate detection relies on the unique (center_id, name_ci) index
	// that the startup reconciliation normally creates.
	_, err := db.Collection("teams").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "center_id", Value: 1},
			{Key: "name_ci", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		t.Fatal(err)
	}

	cohort := fx.CreateCohort(ctx, "Cohort 2025")
	center := fx.CreateCenter(ctx, cohort.ID, "North Center")
	otherCenter := fx.CreateCenter(ctx, cohort.ID, "South Center")

	if _, err := teams.Create(ctx, models.Team{CohortID: cohort.ID, CenterID: center.ID, Name: "Team Alpha"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err = teams.Create(ctx, models.Team{CohortID: cohort.ID, CenterID: center.ID, Name: "TEAM ALPHA"})
	if err != orgunitstore.ErrDuplicateTeam {
		t.Errorf("expected ErrDuplicateTeam, got %v", err)
	}

	// The same name is fine under a different center.
	if _, err := teams.Create(ctx, models.Team{CohortID: cohort.ID, CenterID: otherCenter.ID, Name: "Team Alpha"}); err != nil {
		t.Errorf("expected name reusable across centers, got %v", err)
	}
}

func TestTeamLists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	teams := orgunitstore.NewTeams(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cohort := fx.CreateCohort(ctx, "Cohort 2025")
	north := fx.CreateCenter(ctx, cohort.ID, "North Center")
	south := fx.CreateCenter(ctx, cohort.ID, "South Center")
	fx.CreateTeam(ctx, cohort.ID, north.ID, "Team Bravo")
	fx.CreateTeam(ctx, cohort.ID, north.ID, "Team Alpha")
	fx.CreateTeam(ctx, cohort.ID, south.ID, "Team Gamma")

	byCohort, err := teams.ListByCohort(ctx, cohort.ID)
	if err != nil {
		t.Fatalf("ListByCohort failed: %v", err)
	}
	if len(byCohort) != 3 {
		t.Fatalf("expected 3 teams in cohort, got %d", len(byCohort))
	}

	byCenter, err := teams.ListByCenter(ctx, north.ID)
	if err != nil {
		t.Fatalf("ListByCenter failed: %v", err)
	}
	if len(byCenter) != 2 {
		t.Fatalf("expected 2 teams in center, got %d", len(byCenter))
	}
	if byCenter[0].Name != "Team Alpha" || byCenter[1].Name != "Team Bravo" {
		t.Errorf("expected sorted teams, got %q then %q", byCenter[0].Name, byCenter[1].Name)
	}

	n, err := teams.CountByCenter(ctx, north.ID)
	if err != nil {
		t.Fatalf("CountByCenter failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected count 2, got %d", n)
	}
}

func TestDeleteByCohortCascade(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	centers := orgunitstore.NewCenters(db)
	teams := orgunitstore.NewTeams(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cohort := fx.CreateCohort(ctx, "Cohort 2025")
	keep := fx.CreateCohort(ctx, "Cohort 2026")
	center := fx.CreateCenter(ctx, cohort.ID, "North Center")
	fx.CreateTeam(ctx, cohort.ID, center.ID, "Team Alpha")
	keptCenter := fx.CreateCenter(ctx, keep.ID, "Kept Center")
	fx.CreateTeam(ctx, keep.ID, keptCenter.ID, "Kept Team")

	nTeams, err := teams.DeleteByCohort(ctx, cohort.ID)
	if err != nil {
		t.Fatalf("teams DeleteByCohort failed: %v", err)
	}
	nCenters, err := centers.DeleteByCohort(ctx, cohort.ID)
	if err != nil {
		t.Fatalf("centers DeleteByCohort failed: %v", err)
	}
	if nTeams != 1 || nCenters != 1 {
		t.Errorf("expected 1 team and 1 center deleted, got %d / %d", nTeams, nCenters)
	}

	remaining, err := centers.ListByCohort(ctx, keep.ID)
	if err != nil {
		t.Fatalf("ListByCohort failed: %v", err)
	}
	if len(remaining) != 1 {
		t.Errorf("expected other cohort's center untouched, got %d", len(remaining))
	}
}
