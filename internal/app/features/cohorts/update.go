// internal/app/features/cohorts/update.go
package cohorts

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/coachhub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/coachhub/internal/app/store/audit"
	cohortstore "github.com/dalemusser/coachhub/internal/app/store/cohorts"
	"github.com/dalemusser/coachhub/internal/app/system/authz"
	"github.com/dalemusser/coachhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/coachhub/internal/app/system/timeouts"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeUpdate handles PUT /{id} - updates name, description, and status.
// Empty request fields leave the stored values unchanged.
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "cohort update")
	defer cancel()

	store := cohortstore.New(h.DB)
	if _, err := store.GetByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "not_found", "cohort not found")
			return
		}
		h.Log.Error("cohort lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	err = store.Update(ctx, id, models.Cohort{
		Name:        strings.TrimSpace(req.Name),
		Description: htmlsanitize.Clean(req.Description),
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, cohortstore.ErrDuplicateCohort) {
			httpjson.Error(w, http.StatusConflict, "duplicate_name", "a cohort with this name already exists")
			return
		}
		h.Log.Error("cohort update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	updated, err := store.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("cohort reload failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	h.Audit.AdminAction(ctx, audit.EventCohortUpdated, &id, authz.Actor(r),
		"cohort "+updated.Name+" updated", nil)
	httpjson.Respond(w, http.StatusOK, toView(updated))
}

// ServeSetGroup handles PUT /{id}/group - links the cohort to a group, or
// clears the link when group_id is empty.
func (h *Handler) ServeSetGroup(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "id must be a valid object id")
		return
	}

	var req setGroupRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	var groupID *primitive.ObjectID
	if req.GroupID != "" {
		gid, err := primitive.ObjectIDFromHex(req.GroupID)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "bad_request", "group_id must be a valid object id")
			return
		}
		groupID = &gid
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "cohort set group")
	defer cancel()

	store := cohortstore.New(h.DB)
	if _, err := store.GetByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "not_found", "cohort not found")
			return
		}
		h.Log.Error("cohort lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	if err := store.SetGroup(ctx, id, groupID); err != nil {
		h.Log.Error("cohort set group failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	updated, err := store.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("cohort reload failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}
	httpjson.Respond(w, http.StatusOK, toView(updated))
}
