// internal/app/features/enrollments/crud.go
package enrollments

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/coachhub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/coachhub/internal/app/store/audit"
	enrollmentstore "github.com/dalemusser/coachhub/internal/app/store/enrollments"
	"github.com/dalemusser/coachhub/internal/app/system/authz"
	"github.com/dalemusser/coachhub/internal/app/system/timeouts"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeCreate handles POST / - creates an enrollment. Placement is optional;
// a team always implies its center.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	cohortID, err := primitive.ObjectIDFromHex(req.CohortID)
	if err != nil {
		httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid enrollment", "cohort_id", "must be a valid object id")
		return
	}
	name := strings.TrimSpace(req.ParticipantName)
	if name == "" {
		httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid enrollment", "participant_name", "is required")
		return
	}
	centerID, ok := optionalID(w, "center_id", req.CenterID)
	if !ok {
		return
	}
	teamID, ok := optionalID(w, "team_id", req.TeamID)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "enrollment create")
	defer cancel()

	created, err := enrollmentstore.New(h.DB).Create(ctx, models.Enrollment{
		CohortID:        cohortID,
		CenterID:        centerID,
		TeamID:          teamID,
		ParticipantName: name,
		Status:          req.Status,
	})
	if err != nil {
		h.writePlacementError(w, err)
		return
	}

	h.Audit.AdminAction(ctx, audit.EventEnrollmentCreated, &cohortID, authz.Actor(r),
		"enrollment for "+created.ParticipantName+" created", nil)
	httpjson.Respond(w, http.StatusCreated, toView(created))
}

// ServeList handles GET / with ?cohort_id= or ?team_id=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "enrollment list")
	defer cancel()

	store := enrollmentstore.New(h.DB)

	var (
		enrs []models.Enrollment
		err  error
	)
	switch {
	case r.URL.Query().Get("team_id") != "":
		teamID, idErr := primitive.ObjectIDFromHex(r.URL.Query().Get("team_id"))
		if idErr != nil {
			httpjson.Error(w, http.StatusBadRequest, "bad_request", "team_id must be a valid object id")
			return
		}
		enrs, err = store.ListByTeam(ctx, teamID)
	case r.URL.Query().Get("cohort_id") != "":
		cohortID, idErr := primitive.ObjectIDFromHex(r.URL.Query().Get("cohort_id"))
		if idErr != nil {
			httpjson.Error(w, http.StatusBadRequest, "bad_request", "cohort_id must be a valid object id")
			return
		}
		enrs, err = store.ListByCohort(ctx, cohortID)
	default:
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "cohort_id or team_id query parameter is required")
		return
	}
	if err != nil {
		h.Log.Error("enrollment list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	views := make([]enrollmentView, 0, len(enrs))
	for _, e := range enrs {
		views = append(views, toView(e))
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"enrollments": views, "total": len(views)})
}

// ServeGet handles GET /{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "id must be a valid object id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "enrollment get")
	defer cancel()

	enr, err := enrollmentstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "not_found", "enrollment not found")
			return
		}
		h.Log.Error("enrollment get failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}
	httpjson.Respond(w, http.StatusOK, toView(enr))
}

// ServeUpdatePlacement handles PUT /{id}/placement. Empty ids clear the
// placement; the team-implies-center rule is re-applied by the store.
func (h *Handler) ServeUpdatePlacement(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "id must be a valid object id")
		return
	}

	var req placementRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	centerID, ok := optionalID(w, "center_id", req.CenterID)
	if !ok {
		return
	}
	teamID, ok := optionalID(w, "team_id", req.TeamID)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "enrollment placement")
	defer cancel()

	store := enrollmentstore.New(h.DB)
	if err := store.UpdatePlacement(ctx, id, centerID, teamID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "not_found", "enrollment not found")
			return
		}
		h.writePlacementError(w, err)
		return
	}

	updated, err := store.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("enrollment reload failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	h.Audit.AdminAction(ctx, audit.EventEnrollmentUpdated, &updated.CohortID, authz.Actor(r),
		"enrollment for "+updated.ParticipantName+" re-placed", nil)
	httpjson.Respond(w, http.StatusOK, toView(updated))
}

// ServeUpdateStatus handles PUT /{id}/status.
func (h *Handler) ServeUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "id must be a valid object id")
		return
	}

	var req statusRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	st := strings.ToLower(strings.TrimSpace(req.Status))
	switch st {
	case "active", "withdrawn":
	default:
		httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid enrollment", "status", `must be "active" or "withdrawn"`)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "enrollment status")
	defer cancel()

	store := enrollmentstore.New(h.DB)
	if _, err := store.GetByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "not_found", "enrollment not found")
			return
		}
		h.Log.Error("enrollment lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	if err := store.UpdateStatus(ctx, id, st); err != nil {
		h.Log.Error("enrollment status update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	updated, err := store.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("enrollment reload failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}
	httpjson.Respond(w, http.StatusOK, toView(updated))
}

// ServeDelete handles DELETE /{id}. The delete is refused while coach
// assignments still reference the enrollment.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "id must be a valid object id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "enrollment delete")
	defer cancel()

	store := enrollmentstore.New(h.DB)
	enr, err := store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "not_found", "enrollment not found")
			return
		}
		h.Log.Error("enrollment lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	scope := models.Scope{Kind: models.ScopeEnrollment, ID: enr.ID}
	n, err := h.Assignments.CountByScope(ctx, enr.CohortID, scope)
	if err != nil {
		h.Log.Error("enrollment dependent check failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}
	if n > 0 {
		httpjson.Error(w, http.StatusConflict, "has_dependents", "enrollment still has coach assignments")
		return
	}

	if _, err := store.Delete(ctx, id); err != nil {
		h.Log.Error("enrollment delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	h.Audit.AdminAction(ctx, audit.EventEnrollmentDeleted, &enr.CohortID, authz.Actor(r),
		"enrollment for "+enr.ParticipantName+" deleted", nil)
	w.WriteHeader(http.StatusNoContent)
}

// writePlacementError maps enrollment store failures onto API statuses.
func (h *Handler) writePlacementError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, enrollmentstore.ErrCenterNotInCohort):
		httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid enrollment", "center_id", "center does not belong to the cohort")
	case errors.Is(err, enrollmentstore.ErrTeamNotInCohort):
		httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid enrollment", "team_id", "team does not belong to the cohort")
	case errors.Is(err, enrollmentstore.ErrTeamCenterMismatch):
		httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid enrollment", "team_id", "team does not belong to the given center")
	default:
		h.Log.Error("enrollment write failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
	}
}
