// internal/app/features/users/accounts.go
package users

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/coachhub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/coachhub/internal/app/store/audit"
	userstore "github.com/dalemusser/coachhub/internal/app/store/users"
	"github.com/dalemusser/coachhub/internal/app/system/authz"
	"github.com/dalemusser/coachhub/internal/app/system/status"
	"github.com/dalemusser/coachhub/internal/app/system/timeouts"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type createRequest struct {
	FullName string `json:"full_name"`
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateRequest struct {
	FullName string `json:"full_name"`
	Status   string `json:"status"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

type userView struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	LoginID   string    `json:"login_id"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toView(u models.User) userView {
	return userView{
		ID:        u.ID.Hex(),
		FullName:  u.FullName,
		LoginID:   u.LoginID,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

const minPasswordLength = 10

// ServeCreate handles POST / - creates an admin or coach account.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.FullName) == "" {
		httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid user", "full_name", "is required")
		return
	}
	if strings.TrimSpace(req.LoginID) == "" {
		httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid user", "login_id", "is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid user", "password", "must be at least 10 characters")
		return
	}

	hash, err := userstore.HashPassword(req.Password)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "could not hash password")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "user create")
	defer cancel()

	created, err := userstore.New(h.DB).Create(ctx, models.User{
		FullName:     req.FullName,
		LoginID:      req.LoginID,
		PasswordHash: hash,
		Role:         req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, userstore.ErrDuplicateLoginID):
			httpjson.Error(w, http.StatusConflict, "duplicate_login_id", "a user with this login ID already exists")
		default:
			// Bad role/status come back as plain errors from the store.
			httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid user", "role", err.Error())
		}
		return
	}

	h.Audit.AdminAction(ctx, audit.EventUserCreated, nil, authz.Actor(r),
		created.Role+" account "+created.LoginID+" created", nil)
	httpjson.Respond(w, http.StatusCreated, toView(created))
}

// ServeList handles GET / with ?role=admin|coach (defaults to coach).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role == "" {
		role = models.RoleCoach
	}
	if role != models.RoleAdmin && role != models.RoleCoach {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", `role must be "admin" or "coach"`)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "user list")
	defer cancel()

	list, err := userstore.New(h.DB).ListByRole(ctx, role)
	if err != nil {
		h.Log.Error("user list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	views := make([]userView, 0, len(list))
	for _, u := range list {
		views = append(views, toView(u))
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"users": views, "total": len(views)})
}

// ServeGet handles GET /{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "id must be a valid object id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "user get")
	defer cancel()

	user, err := userstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		h.Log.Error("user get failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}
	httpjson.Respond(w, http.StatusOK, toView(*user))
}

// ServeUpdate handles PUT /{id} - updates full name and status. Empty
// request fields leave the stored values unchanged.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "id must be a valid object id")
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "user update")
	defer cancel()

	store := userstore.New(h.DB)
	before, err := store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		h.Log.Error("user lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	err = store.UpdateUser(ctx, id, userstore.Update{
		FullName: req.FullName,
		Status:   req.Status,
	})
	if err != nil {
		httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid user", "status", err.Error())
		return
	}

	after, err := store.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("user reload failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	event := audit.EventUserUpdated
	if before.Status != status.Disabled && after.Status == status.Disabled {
		event = audit.EventUserDisabled
	}
	h.Audit.AdminAction(ctx, event, nil, authz.Actor(r),
		"account "+after.LoginID+" updated", nil)
	httpjson.Respond(w, http.StatusOK, toView(*after))
}

// ServeSetPassword handles PUT /{id}/password.
func (h *Handler) ServeSetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "id must be a valid object id")
		return
	}

	var req passwordRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if len(req.Password) < minPasswordLength {
		httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid password", "password", "must be at least 10 characters")
		return
	}

	hash, err := userstore.HashPassword(req.Password)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "could not hash password")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "user password")
	defer cancel()

	store := userstore.New(h.DB)
	if _, err := store.GetByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		h.Log.Error("user lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	if err := store.SetPasswordHash(ctx, id, hash); err != nil {
		h.Log.Error("password update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeDelete handles DELETE /{id}. A coach with assignment history cannot
// be deleted; disable the account instead so past records keep their actor.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "id must be a valid object id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "user delete")
	defer cancel()

	store := userstore.New(h.DB)
	user, err := store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		h.Log.Error("user lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	if user.Role == models.RoleCoach {
		assignments, err := h.Assignments.ListByCoach(ctx, id)
		if err != nil {
			h.Log.Error("coach assignment check failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
			return
		}
		if len(assignments) > 0 {
			httpjson.Error(w, http.StatusConflict, "has_dependents", "coach still has assignments; disable the account instead")
			return
		}
	}

	if _, err := store.Delete(ctx, id); err != nil {
		h.Log.Error("user delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
