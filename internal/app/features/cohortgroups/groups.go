// internal/app/features/cohortgroups/groups.go
package cohortgroups

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/coachhub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/coachhub/internal/app/store/audit"
	cohortgroupstore "github.com/dalemusser/coachhub/internal/app/store/cohortgroups"
	cohortstore "github.com/dalemusser/coachhub/internal/app/store/cohorts"
	"github.com/dalemusser/coachhub/internal/app/system/authz"
	"github.com/dalemusser/coachhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/coachhub/internal/app/system/timeouts"
	"github.com/dalemusser/coachhub/internal/app/system/txn"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type groupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type groupView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toView(g models.CohortGroup) groupView {
	return groupView{
		ID:          g.ID.Hex(),
		Name:        g.Name,
		Description: g.Description,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

// ServeCreate handles POST / - creates a cohort group.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid group", "name", "is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "group create")
	defer cancel()

	created, err := cohortgroupstore.New(h.DB).Create(ctx, models.CohortGroup{
		Name:        name,
		Description: htmlsanitize.Clean(req.Description),
	})
	if err != nil {
		if errors.Is(err, cohortgroupstore.ErrDuplicateGroup) {
			httpjson.Error(w, http.StatusConflict, "duplicate_name", "a cohort group with this name already exists")
			return
		}
		h.Log.Error("group create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	h.Audit.AdminAction(ctx, audit.EventCohortGroupCreated, nil, authz.Actor(r),
		"cohort group "+created.Name+" created", nil)
	httpjson.Respond(w, http.StatusCreated, toView(created))
}

// ServeList handles GET /.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "group list")
	defer cancel()

	groups, err := cohortgroupstore.New(h.DB).List(ctx)
	if err != nil {
		h.Log.Error("group list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	views := make([]groupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, toView(g))
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"groups": views, "total": len(views)})
}

// ServeGet handles GET /{id}. The response includes the group's cohorts.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "id must be a valid object id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "group get")
	defer cancel()

	group, err := cohortgroupstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "not_found", "cohort group not found")
			return
		}
		h.Log.Error("group get failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	cohorts, err := cohortstore.New(h.DB).ListByGroup(ctx, id)
	if err != nil {
		h.Log.Error("group cohorts load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	members := make([]map[string]string, 0, len(cohorts))
	for _, c := range cohorts {
		members = append(members, map[string]string{"id": c.ID.Hex(), "name": c.Name})
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{
		"group":   toView(group),
		"cohorts": members,
	})
}

// ServeUpdate handles PUT /{id}. Empty request fields leave the stored
// values unchanged.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "id must be a valid object id")
		return
	}

	var req groupRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "group update")
	defer cancel()

	store := cohortgroupstore.New(h.DB)
	if _, err := store.GetByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "not_found", "cohort group not found")
			return
		}
		h.Log.Error("group lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	err = store.Update(ctx, id, models.CohortGroup{
		Name:        strings.TrimSpace(req.Name),
		Description: htmlsanitize.Clean(req.Description),
	})
	if err != nil {
		if errors.Is(err, cohortgroupstore.ErrDuplicateGroup) {
			httpjson.Error(w, http.StatusConflict, "duplicate_name", "a cohort group with this name already exists")
			return
		}
		h.Log.Error("group update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	updated, err := store.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("group reload failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	h.Audit.AdminAction(ctx, audit.EventCohortGroupUpdated, nil, authz.Actor(r),
		"cohort group "+updated.Name+" updated", nil)
	httpjson.Respond(w, http.StatusOK, toView(updated))
}

// ServeDelete handles DELETE /{id}. Member cohorts survive; their group
// link is cleared in the same transaction that removes the group.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "id must be a valid object id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "group delete")
	defer cancel()

	store := cohortgroupstore.New(h.DB)
	group, err := store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "not_found", "cohort group not found")
			return
		}
		h.Log.Error("group lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	var detached int64
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		if detached, err = cohortstore.New(h.DB).ClearGroup(ctx, id); err != nil {
			return err
		}
		_, err = store.Delete(ctx, id)
		return err
	})
	if err != nil {
		h.Log.Error("group delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	h.Audit.AdminAction(ctx, audit.EventCohortGroupDeleted, nil, authz.Actor(r),
		"cohort group "+group.Name+" deleted", map[string]string{
			"detached_cohorts": fmt.Sprint(detached),
		})
	w.WriteHeader(http.StatusNoContent)
}
