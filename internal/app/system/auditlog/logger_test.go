package auditlog_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/coachhub/internal/app/store/audit"
	"github.com/dalemusser/coachhub/internal/app/system/auditlog"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"github.com/dalemusser/coachhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestLogger_NilLogger(t *testing.T) {
	// nil logger should be a no-op (not panic)
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, primitive.NewObjectID(), "test")
	logger.Logout(ctx, req, primitive.NewObjectID())
	logger.AssignmentCreated(ctx, models.CoachAssignment{}, models.Actor{})
	logger.AssignmentDeleted(ctx, models.CoachAssignment{}, models.Actor{})
}

func TestLogger_Log_ConfigOff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{
		Auth:  "off",
		Admin: "off",
	})

	userID := primitive.NewObjectID()
	logger.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		Success:   true,
	})

	events, err := store.GetByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 0 {
		t.Error("expected no events when config is 'off'")
	}
}

func TestLogger_Log_ConfigDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{
		Auth:  "db",
		Admin: "db",
	})

	logger.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		Success:   true,
	})

	events, err := store.GetByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected 1 event, got %d", len(events))
	}
}

func TestLogger_AuthCategoryFilteredByConfig(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	// Auth = off, Admin = db
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{
		Auth:  "off",
		Admin: "db",
	})

	req := httptest.NewRequest("GET", "/", nil)
	logger.LoginSuccess(ctx, req, userID, "test")

	cohortID := primitive.NewObjectID()
	logger.AdminAction(ctx, audit.EventCohortCreated, &cohortID,
		models.Actor{ID: userID, Name: "Test Admin"}, "created cohort", nil)

	authEvents, _ := store.GetByUser(ctx, userID, 10)
	if len(authEvents) != 0 {
		t.Error("expected no auth events when auth config is 'off'")
	}

	adminEvents, _ := store.GetByCohort(ctx, cohortID, 10)
	if len(adminEvents) != 1 {
		t.Errorf("expected 1 admin event, got %d", len(adminEvents))
	}
}

func TestLogger_AssignmentCreated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Admin: "db"})

	actor := models.Actor{ID: primitive.NewObjectID(), Name: "Test Admin"}
	to := time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC)
	a := models.CoachAssignment{
		ID:            primitive.NewObjectID(),
		CohortID:      primitive.NewObjectID(),
		CoachID:       primitive.NewObjectID(),
		ScopeKind:     models.ScopeTeam,
		ScopeID:       primitive.NewObjectID(),
		EffectiveFrom: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EffectiveTo:   &to,
	}

	logger.AssignmentCreated(ctx, a, actor)

	events, err := store.GetByCohort(ctx, a.CohortID, 10)
	if err != nil {
		t.Fatalf("GetByCohort failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.EventType != audit.EventAssignmentCreated {
		t.Errorf("EventType: got %q, want %q", event.EventType, audit.EventAssignmentCreated)
	}
	if event.ActorID == nil || *event.ActorID != actor.ID {
		t.Error("expected ActorID to be set")
	}
	if event.Details["scope_kind"] != "team" {
		t.Errorf("scope_kind detail: got %q, want %q", event.Details["scope_kind"], "team")
	}
	if event.Details["effective_from"] != "2024-03-01" {
		t.Errorf("effective_from detail: got %q", event.Details["effective_from"])
	}
	if event.Details["effective_to"] != "2024-08-31" {
		t.Errorf("effective_to detail: got %q", event.Details["effective_to"])
	}
}

func TestLogger_AssignmentOpenEndedDetail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Admin: "db"})

	a := models.CoachAssignment{
		ID:            primitive.NewObjectID(),
		CohortID:      primitive.NewObjectID(),
		CoachID:       primitive.NewObjectID(),
		ScopeKind:     models.ScopeCenter,
		ScopeID:       primitive.NewObjectID(),
		EffectiveFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	logger.AssignmentDeleted(ctx, a, models.Actor{})

	events, _ := store.GetByCohort(ctx, a.CohortID, 10)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Details["effective_to"] != "open" {
		t.Errorf("effective_to detail: got %q, want %q", events[0].Details["effective_to"], "open")
	}
}

func TestClientIP_XForwardedFor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "db"})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.195")
	req.Header.Set("X-Real-IP", "192.168.1.1")
	req.RemoteAddr = "127.0.0.1:12345"

	logger.LoginSuccess(ctx, req, userID, "test")

	events, _ := store.GetByUser(ctx, userID, 10)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	// X-Forwarded-For should take precedence
	if events[0].IP != "203.0.113.195" {
		t.Errorf("IP: got %q, want %q", events[0].IP, "203.0.113.195")
	}
}

func TestClientIP_RemoteAddr(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "db"})

	req := httptest.NewRequest("GET", "/", nil)
	// No proxy headers
	req.RemoteAddr = "10.0.0.5:12345"

	logger.LoginSuccess(ctx, req, userID, "test")

	events, _ := store.GetByUser(ctx, userID, 10)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	// Should fall back to RemoteAddr (port stripped)
	if events[0].IP != "10.0.0.5" {
		t.Errorf("IP: got %q, want %q", events[0].IP, "10.0.0.5")
	}
}
