package userstore_test

import (
	"testing"

	userstore "github.com/dalemusser/coachhub/internal/app/store/users"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"github.com/dalemusser/coachhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create_Admin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := models.User{
		FullName: "Admin User",
		LoginID:  "Admin@Example.com",
		Role:     models.RoleAdmin,
	}

	created, err := store.Create(ctx, user)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Verify ID was assigned
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}

	// Verify normalized fields
	if created.FullNameCI == "" {
		t.Error("expected FullNameCI to be set")
	}
	if created.LoginID != "admin@example.com" {
		t.Errorf("expected lowercased login id, got %q", created.LoginID)
	}

	// Verify timestamps
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if created.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set")
	}

	// Verify default status
	if created.Status != "active" {
		t.Errorf("expected status 'active', got %q", created.Status)
	}
}

func TestStore_Create_BadRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.User{
		FullName: "Someone",
		LoginID:  "someone@example.com",
		Role:     "superuser",
	})
	if err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestStore_GetByLoginID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName: "Coach One",
		LoginID:  "coach1@example.com",
		Role:     models.RoleCoach,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Lookup is case-insensitive.
	got, err := store.GetByLoginID(ctx, "  COACH1@Example.COM ")
	if err != nil {
		t.Fatalf("GetByLoginID failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("got user %v, want %v", got.ID, created.ID)
	}

	if _, err := store.GetByLoginID(ctx, "nobody@example.com"); err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_GetCoachByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin, err := store.Create(ctx, models.User{
		FullName: "Admin",
		LoginID:  "admin@example.com",
		Role:     models.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Role filter means an admin is not returned by the coach lookup.
	if _, err := store.GetCoachByID(ctx, admin.ID); err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments for admin id, got %v", err)
	}
}

func TestStore_UpdateUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName: "Coach One",
		LoginID:  "coach1@example.com",
		Role:     models.RoleCoach,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.UpdateUser(ctx, created.ID, userstore.Update{Status: "disabled"}); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != "disabled" {
		t.Errorf("status: got %q, want disabled", got.Status)
	}
	if got.FullName != "Coach One" {
		t.Errorf("empty update field should keep stored value, got %q", got.FullName)
	}

	if err := store.UpdateUser(ctx, created.ID, userstore.Update{Status: "frozen"}); err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestStore_ListByRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, spec := range []struct{ name, login, role string }{
		{"Zelda Coach", "zelda@example.com", models.RoleCoach},
		{"Alan Coach", "alan@example.com", models.RoleCoach},
		{"The Admin", "admin@example.com", models.RoleAdmin},
	} {
		if _, err := store.Create(ctx, models.User{FullName: spec.name, LoginID: spec.login, Role: spec.role}); err != nil {
			t.Fatalf("Create %s failed: %v", spec.login, err)
		}
	}

	coaches, err := store.ListByRole(ctx, models.RoleCoach)
	if err != nil {
		t.Fatalf("ListByRole failed: %v", err)
	}
	if len(coaches) != 2 {
		t.Fatalf("expected 2 coaches, got %d", len(coaches))
	}
	if coaches[0].FullName != "Alan Coach" {
		t.Errorf("expected name-sorted order, got %q first", coaches[0].FullName)
	}
}

func TestPasswordHelpers(t *testing.T) {
	hash, err := userstore.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !userstore.CheckPassword(hash, "correct horse battery staple") {
		t.Error("expected matching password to verify")
	}
	if userstore.CheckPassword(hash, "wrong password") {
		t.Error("expected mismatched password to fail")
	}
}
