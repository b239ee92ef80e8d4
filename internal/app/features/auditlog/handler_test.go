package auditlog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/coachhub/internal/app/features/auditlog"
	"github.com/dalemusser/coachhub/internal/app/store/audit"
	"github.com/dalemusser/coachhub/internal/app/system/auth"
	"github.com/dalemusser/coachhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type listResponse struct {
	Events []struct {
		ID        string            `json:"id"`
		CohortID  string            `json:"cohort_id"`
		Category  string            `json:"category"`
		EventType string            `json:"event_type"`
		ActorID   string            `json:"actor_id"`
		Summary   string            `json:"summary"`
		Details   map[string]string `json:"details"`
	} `json:"events"`
	Total int64 `json:"total"`
}

func newTestHandler(t *testing.T) (*auditlog.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return auditlog.NewHandler(db, zap.NewNop()), db
}

func seedEvent(t *testing.T, db *mongo.Database, e audit.Event) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := audit.New(db).Log(ctx, e); err != nil {
		t.Fatal(err)
	}
}

// seedWorld writes a small mix of auth and admin events across two
// cohorts and returns the cohort the admin events belong to.
func seedWorld(t *testing.T, db *mongo.Database) (cohortID, otherID, actorID primitive.ObjectID) {
	t.Helper()
	cohortID = primitive.NewObjectID()
	otherID = primitive.NewObjectID()
	actorID = primitive.NewObjectID()
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	seedEvent(t, db, audit.Event{
		Timestamp: base,
		CohortID:  &cohortID,
		Category:  audit.CategoryAdmin,
		EventType: audit.EventCenterCreated,
		ActorID:   &actorID,
		Success:   true,
		Summary:   "center Downtown created",
	})
	seedEvent(t, db, audit.Event{
		Timestamp: base.Add(time.Hour),
		CohortID:  &cohortID,
		Category:  audit.CategoryAdmin,
		EventType: audit.EventAssignmentCreated,
		ActorID:   &actorID,
		Success:   true,
		Summary:   "coach assigned to center Downtown",
		Details:   map[string]string{"scope_kind": "center"},
	})
	seedEvent(t, db, audit.Event{
		Timestamp: base.Add(2 * time.Hour),
		CohortID:  &otherID,
		Category:  audit.CategoryAdmin,
		EventType: audit.EventCenterCreated,
		Success:   true,
		Summary:   "center Uptown created",
	})
	seedEvent(t, db, audit.Event{
		Timestamp: base.Add(3 * time.Hour),
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		Success:   true,
	})
	return cohortID, otherID, actorID
}

func doList(t *testing.T, h *auditlog.Handler, target string) (*httptest.ResponseRecorder, listResponse) {
	t.Helper()
	req := testutil.NewAuthenticatedRequest("GET", target, testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	var resp listResponse
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad response JSON: %v", err)
		}
	}
	return rec, resp
}

func TestServeList_All(t *testing.T) {
	h, db := newTestHandler(t)
	seedWorld(t, db)

	rec, resp := doList(t, h, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if resp.Total != 4 {
		t.Errorf("total: got %d, want 4", resp.Total)
	}
	if len(resp.Events) != 4 {
		t.Fatalf("events: got %d, want 4", len(resp.Events))
	}
	// Newest first.
	if resp.Events[0].EventType != audit.EventLoginSuccess {
		t.Errorf("first event: got %q, want %q", resp.Events[0].EventType, audit.EventLoginSuccess)
	}
}

func TestServeList_FilterByCohort(t *testing.T) {
	h, db := newTestHandler(t)
	cohortID, _, _ := seedWorld(t, db)

	rec, resp := doList(t, h, "/?cohort_id="+cohortID.Hex())
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if resp.Total != 2 {
		t.Errorf("total: got %d, want 2", resp.Total)
	}
	for _, e := range resp.Events {
		if e.CohortID != cohortID.Hex() {
			t.Errorf("event %s: cohort %q, want %q", e.ID, e.CohortID, cohortID.Hex())
		}
	}
}

func TestServeList_FilterByCategoryAndType(t *testing.T) {
	h, db := newTestHandler(t)
	seedWorld(t, db)

	rec, resp := doList(t, h, "/?category=admin&event_type="+audit.EventAssignmentCreated)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if resp.Total != 1 {
		t.Fatalf("total: got %d, want 1", resp.Total)
	}
	if resp.Events[0].Details["scope_kind"] != "center" {
		t.Errorf("details not carried through: %v", resp.Events[0].Details)
	}
}

func TestServeList_FilterByActor(t *testing.T) {
	h, db := newTestHandler(t)
	_, _, actorID := seedWorld(t, db)

	rec, resp := doList(t, h, "/?actor_id="+actorID.Hex())
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if resp.Total != 2 {
		t.Errorf("total: got %d, want 2", resp.Total)
	}
}

func TestServeList_DateRange(t *testing.T) {
	h, db := newTestHandler(t)
	seedWorld(t, db)

	// All seeded events fall on 2025-03-10.
	rec, resp := doList(t, h, "/?start=2025-03-10&end=2025-03-10")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if resp.Total != 4 {
		t.Errorf("total in range: got %d, want 4", resp.Total)
	}

	rec, resp = doList(t, h, "/?end=2025-03-09")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if resp.Total != 0 {
		t.Errorf("total before range: got %d, want 0", resp.Total)
	}
}

func TestServeList_Paging(t *testing.T) {
	h, db := newTestHandler(t)
	seedWorld(t, db)

	rec, resp := doList(t, h, "/?limit=2&offset=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if resp.Total != 4 {
		t.Errorf("total: got %d, want 4", resp.Total)
	}
	if len(resp.Events) != 2 {
		t.Errorf("page size: got %d, want 2", len(resp.Events))
	}
}

func TestServeList_BadFilter(t *testing.T) {
	h, db := newTestHandler(t)
	seedWorld(t, db)

	rec, _ := doList(t, h, "/?cohort_id=not-an-id")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want 422", rec.Code)
	}

	rec, _ = doList(t, h, "/?start=03/10/2025")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want 422", rec.Code)
	}
}

func TestRoutes(t *testing.T) {
	h, _ := newTestHandler(t)
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatal(err)
	}

	r := auditlog.Routes(h, sm)
	if r == nil {
		t.Fatal("Routes returned nil router")
	}

	// Unauthenticated requests are rejected before the handler runs.
	req := httptest.NewRequest("GET", "/", nil).WithContext(context.Background())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code == http.StatusOK {
		t.Errorf("expected auth rejection, got 200")
	}
}
