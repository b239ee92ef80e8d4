// internal/app/features/orgunits/centers.go
package orgunits

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/coachhub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/coachhub/internal/app/store/audit"
	orgunitstore "github.com/dalemusser/coachhub/internal/app/store/orgunits"
	"github.com/dalemusser/coachhub/internal/app/system/authz"
	"github.com/dalemusser/coachhub/internal/app/system/timeouts"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeCreateCenter handles POST /centers.
func (h *Handler) ServeCreateCenter(w http.ResponseWriter, r *http.Request) {
	var req centerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	cohortID, err := primitive.ObjectIDFromHex(req.CohortID)
	if err != nil {
		httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid center", "cohort_id", "must be a valid object id")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid center", "name", "is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "center create")
	defer cancel()

	created, err := orgunitstore.NewCenters(h.DB).Create(ctx, models.Center{
		CohortID: cohortID,
		Name:     name,
		City:     strings.TrimSpace(req.City),
		State:    strings.TrimSpace(req.State),
	})
	if err != nil {
		if errors.Is(err, orgunitstore.ErrDuplicateCenter) {
			httpjson.Error(w, http.StatusConflict, "duplicate_name", "a center with this name already exists in the cohort")
			return
		}
		h.Log.Error("center create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	h.Audit.AdminAction(ctx, audit.EventCenterCreated, &cohortID, authz.Actor(r),
		"center "+created.Name+" created", nil)
	httpjson.Respond(w, http.StatusCreated, toCenterView(created))
}

// ServeListCenters handles GET /centers?cohort_id=.
func (h *Handler) ServeListCenters(w http.ResponseWriter, r *http.Request) {
	cohortID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("cohort_id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "cohort_id is required and must be a valid object id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "center list")
	defer cancel()

	centers, err := orgunitstore.NewCenters(h.DB).ListByCohort(ctx, cohortID)
	if err != nil {
		h.Log.Error("center list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	views := make([]centerView, 0, len(centers))
	for _, c := range centers {
		views = append(views, toCenterView(c))
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"centers": views, "total": len(views)})
}

// ServeGetCenter handles GET /centers/{id}.
func (h *Handler) ServeGetCenter(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "id must be a valid object id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "center get")
	defer cancel()

	center, err := orgunitstore.NewCenters(h.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "not_found", "center not found")
			return
		}
		h.Log.Error("center get failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}
	httpjson.Respond(w, http.StatusOK, toCenterView(center))
}

// ServeUpdateCenter handles PUT /centers/{id}. Empty request fields leave
// the stored values unchanged.
func (h *Handler) ServeUpdateCenter(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "id must be a valid object id")
		return
	}

	var req centerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "center update")
	defer cancel()

	store := orgunitstore.NewCenters(h.DB)
	center, err := store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "not_found", "center not found")
			return
		}
		h.Log.Error("center lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	err = store.Update(ctx, id, models.Center{
		Name:  strings.TrimSpace(req.Name),
		City:  strings.TrimSpace(req.City),
		State: strings.TrimSpace(req.State),
	})
	if err != nil {
		if errors.Is(err, orgunitstore.ErrDuplicateCenter) {
			httpjson.Error(w, http.StatusConflict, "duplicate_name", "a center with this name already exists in the cohort")
			return
		}
		h.Log.Error("center update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	updated, err := store.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("center reload failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	h.Audit.AdminAction(ctx, audit.EventCenterUpdated, &center.CohortID, authz.Actor(r),
		"center "+updated.Name+" updated", nil)
	httpjson.Respond(w, http.StatusOK, toCenterView(updated))
}

// ServeDeleteCenter handles DELETE /centers/{id}. The delete is refused
// while teams, enrollments, or coach assignments still reference the center.
func (h *Handler) ServeDeleteCenter(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "id must be a valid object id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "center delete")
	defer cancel()

	store := orgunitstore.NewCenters(h.DB)
	center, err := store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "not_found", "center not found")
			return
		}
		h.Log.Error("center lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	blocked, reason, err := h.centerHasDependents(ctx, center)
	if err != nil {
		h.Log.Error("center dependent check failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}
	if blocked {
		httpjson.Error(w, http.StatusConflict, "has_dependents", reason)
		return
	}

	if _, err := store.Delete(ctx, id); err != nil {
		h.Log.Error("center delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	h.Audit.AdminAction(ctx, audit.EventCenterDeleted, &center.CohortID, authz.Actor(r),
		"center "+center.Name+" deleted", nil)
	w.WriteHeader(http.StatusNoContent)
}
