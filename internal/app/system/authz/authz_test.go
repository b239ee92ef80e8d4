package authz_test

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/coachhub/internal/app/system/auth"
	"github.com/dalemusser/coachhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// testUserID returns a valid ObjectID hex string for tests.
func testUserID() string {
	return primitive.NewObjectID().Hex()
}

func TestUserCtx_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)

	role, name, userID, ok := authz.UserCtx(req)
	if ok {
		t.Error("expected ok=false when no user in context")
	}
	if role != "visitor" {
		t.Errorf("expected role 'visitor', got %q", role)
	}
	if name != "" {
		t.Errorf("expected empty name, got %q", name)
	}
	if userID != primitive.NilObjectID {
		t.Error("expected NilObjectID")
	}
}

func TestUserCtx_ValidUser(t *testing.T) {
	id := testUserID()
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID:   id,
		Name: "Test Admin",
		Role: "Admin",
	})

	role, name, userID, ok := authz.UserCtx(req)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if role != "admin" {
		t.Errorf("expected lowercased role, got %q", role)
	}
	if name != "Test Admin" {
		t.Errorf("name: got %q", name)
	}
	if userID.Hex() != id {
		t.Errorf("userID: got %v, want %v", userID.Hex(), id)
	}
}

func TestUserCtx_MalformedID_FailsClosed(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID:   "not-a-valid-objectid",
		Role: "admin",
	})

	_, _, _, ok := authz.UserCtx(req)
	if ok {
		t.Error("expected ok=false for malformed user id")
	}
}

func TestIsAdmin(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID:   testUserID(),
		Role: "admin",
	})
	if !authz.IsAdmin(req) {
		t.Error("expected IsAdmin true for admin user")
	}
	if authz.IsCoach(req) {
		t.Error("expected IsCoach false for admin user")
	}

	noUser := httptest.NewRequest("GET", "/test", nil)
	if authz.IsAdmin(noUser) {
		t.Error("expected IsAdmin false when no user")
	}
}

func TestIsCoach(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID:   testUserID(),
		Role: "coach",
	})
	if !authz.IsCoach(req) {
		t.Error("expected IsCoach true for coach user")
	}
}

func TestActor(t *testing.T) {
	id := testUserID()
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID:   id,
		Name: "Test Admin",
		Role: "admin",
	})

	actor := authz.Actor(req)
	if actor.ID.Hex() != id {
		t.Errorf("actor ID: got %v, want %v", actor.ID.Hex(), id)
	}
	if actor.Name != "Test Admin" {
		t.Errorf("actor Name: got %q", actor.Name)
	}

	noUser := httptest.NewRequest("GET", "/test", nil)
	if zero := authz.Actor(noUser); !zero.ID.IsZero() {
		t.Error("expected zero Actor when no user")
	}
}

func TestHasAnyRole(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID:   testUserID(),
		Role: "coach",
	})

	if !authz.HasAnyRole(req, "admin", "coach") {
		t.Error("expected HasAnyRole true when one role matches")
	}
	if authz.HasAnyRole(req, "admin") {
		t.Error("expected HasAnyRole false when no role matches")
	}
	if !authz.HasRole(req, " Coach ") {
		t.Error("expected HasRole to trim and fold case")
	}
}
