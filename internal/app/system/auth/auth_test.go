package auth_test

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/coachhub/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		logger,
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("protected content"))
	})
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	_, err := auth.NewSessionManager("", "test-session", "", 24*time.Hour, false, zap.NewNop())
	if err == nil {
		t.Error("expected error for empty session key")
	}
}

func TestRequireSignedIn_NoUser_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireSignedIn(okHandler())

	req := httptest.NewRequest("GET", "/protected", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireSignedIn_WithUser_Proceeds(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireSignedIn(okHandler())

	req := httptest.NewRequest("GET", "/protected", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "abc", Role: "admin"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestRequireRole_NoUser_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireRole("admin")(okHandler())

	req := httptest.NewRequest("GET", "/protected", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireRole_WrongRole_Returns403(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireRole("admin")(okHandler())

	req := httptest.NewRequest("GET", "/protected", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "abc", Role: "coach"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestRequireRole_CorrectRole_Proceeds(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireRole("admin")(okHandler())

	req := httptest.NewRequest("GET", "/protected", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "abc", Role: "admin"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestRequireRole_MultipleRoles(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireRole("admin", "coach")(okHandler())

	for _, role := range []string{"admin", "coach"} {
		req := httptest.NewRequest("GET", "/protected", nil)
		req = auth.WithTestUser(req, &auth.SessionUser{ID: "abc", Role: role})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("role %q: expected status %d, got %d", role, http.StatusOK, rec.Code)
		}
	}
}

func TestRequireRole_CaseInsensitive(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireRole("Admin")(okHandler())

	req := httptest.NewRequest("GET", "/protected", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "abc", Role: "ADMIN"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := auth.CurrentUser(req); ok {
		t.Error("expected no user in a bare request")
	}
}

func TestCurrentUser_WithUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "abc", Name: "Test", Role: "coach"})

	u, ok := auth.CurrentUser(req)
	if !ok {
		t.Fatal("expected a user in context")
	}
	if u.ID != "abc" || u.Role != "coach" {
		t.Errorf("unexpected user: %+v", u)
	}
}

// Full round trip: SignIn sets the cookie, LoadSessionUser restores the
// user from it on a later request, SignOut expires it.
func TestSessionRoundTrip(t *testing.T) {
	sm := newTestSessionManager(t)

	signinReq := httptest.NewRequest("POST", "/login", nil)
	signinRec := httptest.NewRecorder()
	err := sm.SignIn(signinRec, signinReq, &auth.SessionUser{
		ID: "abc123", Name: "Test Coach", LoginID: "coach@example.com", Role: "coach",
	})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := signinRec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	var got *auth.SessionUser
	loaded := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))

	nextReq := httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		nextReq.AddCookie(c)
	}
	loaded.ServeHTTP(httptest.NewRecorder(), nextReq)

	if got == nil {
		t.Fatal("expected the session user to be restored")
	}
	if got.ID != "abc123" || got.LoginID != "coach@example.com" || got.Role != "coach" {
		t.Errorf("unexpected restored user: %+v", got)
	}

	signoutReq := httptest.NewRequest("POST", "/logout", nil)
	for _, c := range cookies {
		signoutReq.AddCookie(c)
	}
	signoutRec := httptest.NewRecorder()
	if err := sm.SignOut(signoutRec, signoutReq); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	out := signoutRec.Result().Cookies()
	if len(out) == 0 || out[0].MaxAge != -1 {
		t.Error("expected the session cookie to be expired")
	}
}

// A cookie that fails to decode must be treated as signed out, not an error.
func TestLoadSessionUser_GarbageCookie(t *testing.T) {
	sm := newTestSessionManager(t)

	called := false
	loaded := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := auth.CurrentUser(r); ok {
			t.Error("expected no user from a garbage cookie")
		}
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "test-session", Value: "not-a-valid-session"})
	loaded.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Error("expected the next handler to run")
	}
}
