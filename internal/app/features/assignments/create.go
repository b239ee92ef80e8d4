// internal/app/features/assignments/create.go
package assignments

import (
	"errors"
	"net/http"

	"github.com/dalemusser/coachhub/internal/app/features/shared/httpjson"
	assignmentstore "github.com/dalemusser/coachhub/internal/app/store/assignments"
	"github.com/dalemusser/coachhub/internal/app/system/authz"
	"github.com/dalemusser/coachhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/coachhub/internal/app/system/timeouts"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeCreate handles POST / - creates a coach assignment.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	a, ok := h.assignmentFromRequest(w, req)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "assignment create")
	defer cancel()

	created, err := h.Store.Create(ctx, a, authz.Actor(r))
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	label := h.Registry.LabelFor(ctx, created.Scope())
	httpjson.Respond(w, http.StatusCreated, toView(created, label))
}

// assignmentFromRequest parses and id-checks the request fields. It writes
// the error response itself and reports ok=false when the request is bad.
func (h *Handler) assignmentFromRequest(w http.ResponseWriter, req createRequest) (models.CoachAssignment, bool) {
	fail := func(field, reason string) (models.CoachAssignment, bool) {
		httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid assignment", field, reason)
		return models.CoachAssignment{}, false
	}

	cohortID, err := primitive.ObjectIDFromHex(req.CohortID)
	if err != nil {
		return fail("cohort_id", "must be a valid object id")
	}
	coachID, err := primitive.ObjectIDFromHex(req.CoachID)
	if err != nil {
		return fail("coach_id", "must be a valid object id")
	}
	kind, ok := models.ParseScopeKind(req.ScopeKind)
	if !ok {
		return fail("scope_kind", "must be center, team, or enrollment")
	}
	scopeID, err := primitive.ObjectIDFromHex(req.ScopeID)
	if err != nil {
		return fail("scope_id", "must be a valid object id")
	}
	from, err := parseDate(req.EffectiveFrom)
	if err != nil {
		return fail("effective_from", "must be YYYY-MM-DD")
	}

	a := models.CoachAssignment{
		CohortID:      cohortID,
		CoachID:       coachID,
		ScopeKind:     kind,
		ScopeID:       scopeID,
		EffectiveFrom: from,
		Notes:         htmlsanitize.Clean(req.Notes),
	}
	if req.EffectiveTo != "" {
		to, err := parseDate(req.EffectiveTo)
		if err != nil {
			return fail("effective_to", "must be YYYY-MM-DD")
		}
		a.EffectiveTo = &to
	}
	return a, true
}

// writeStoreError maps assignment store failures onto API statuses.
func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *assignmentstore.ValidationError
	if errors.As(err, &verr) {
		httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid assignment", verr.Field, verr.Reason)
		return
	}

	var cerr *assignmentstore.ConflictError
	if errors.As(err, &cerr) {
		httpjson.Respond(w, http.StatusConflict, map[string]any{
			"error": map[string]any{
				"code":        "assignment_conflict",
				"message":     "an assignment for this scope overlaps the requested dates",
				"existing_id": cerr.ExistingID.Hex(),
			},
		})
		return
	}

	if errors.Is(err, assignmentstore.ErrNotFound) {
		httpjson.Error(w, http.StatusNotFound, "not_found", "assignment not found")
		return
	}

	h.Log.Error("assignment store failure", zap.String("path", r.URL.Path), zap.Error(err))
	httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
}
