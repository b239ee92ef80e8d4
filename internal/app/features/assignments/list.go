// internal/app/features/assignments/list.go
package assignments

import (
	"net/http"
	"strings"

	"github.com/dalemusser/coachhub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/coachhub/internal/app/system/timeouts"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeList handles GET / - lists assignments.
//
// Query forms:
//   - ?cohort_id=…                                 all of a cohort's assignments,
//     ordered center → team → enrollment, newest first within each kind
//   - ?cohort_id=…&scope_kind=…&scope_id=…         one scope triple's history
//   - ?coach_id=…                                  everything assigned to a coach
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "assignment list")
	defer cancel()

	if coachHex := strings.TrimSpace(q.Get("coach_id")); coachHex != "" {
		coachID, err := primitive.ObjectIDFromHex(coachHex)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "bad_request", "invalid coach_id")
			return
		}
		list, err := h.Store.ListByCoach(ctx, coachID)
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		h.respondList(w, list)
		return
	}

	cohortID, err := primitive.ObjectIDFromHex(strings.TrimSpace(q.Get("cohort_id")))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "cohort_id or coach_id is required")
		return
	}

	kindStr := strings.TrimSpace(q.Get("scope_kind"))
	scopeHex := strings.TrimSpace(q.Get("scope_id"))
	if kindStr == "" && scopeHex == "" {
		list, err := h.Store.ListByCohort(ctx, cohortID)
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		h.respondList(w, list)
		return
	}

	kind, ok := models.ParseScopeKind(kindStr)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "scope_kind must be center, team, or enrollment")
		return
	}
	scopeID, err := primitive.ObjectIDFromHex(scopeHex)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "invalid scope_id")
		return
	}

	list, err := h.Store.ListByScope(ctx, cohortID, models.Scope{Kind: kind, ID: scopeID})
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	h.respondList(w, list)
}

// ServeGet handles GET /{id} - fetches one assignment.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "invalid assignment id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "assignment get")
	defer cancel()

	a, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	label := h.Registry.LabelFor(ctx, a.Scope())
	httpjson.Respond(w, http.StatusOK, toView(a, label))
}

func (h *Handler) respondList(w http.ResponseWriter, list []models.CoachAssignment) {
	views := make([]assignmentView, 0, len(list))
	for _, a := range list {
		views = append(views, toView(a, ""))
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{
		"assignments": views,
		"total":       len(views),
	})
}
