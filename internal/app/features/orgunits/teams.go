// internal/app/features/orgunits/teams.go
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

// ServeCreateTeam handles POST /teams. The center must belong to the given
// cohort; a center_id that disagrees with the cohort is rejected.
func (h *Handler) ServeCreateTeam(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	cohortID, err := primitive.ObjectIDFromHex(req.CohortID)
	if err != nil {
		httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid team", "cohort_id", "must be a valid object id")
		return
	}
	centerID, err := primitive.ObjectIDFromHex(req.CenterID)
	if err != nil {
		httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid team", "center_id", "must be a valid object id")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid team", "name", "is required")
		return
	}

	team := models.Team{CohortID: cohortID, CenterID: centerID, Name: name}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "team create")
	defer cancel()

	created, err := orgunitstore.NewTeams(h.DB).Create(ctx, team)
	if err != nil {
		switch {
		case errors.Is(err, orgunitstore.ErrDuplicateTeam):
			httpjson.Error(w, http.StatusConflict, "duplicate_name", "a team with this name already exists in the center")
		case errors.Is(err, orgunitstore.ErrCenterNotInCohort):
			httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid team", "center_id", "center does not belong to the cohort")
		default:
			h.Log.Error("team create failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		}
		return
	}

	h.Audit.AdminAction(ctx, audit.EventTeamCreated, &created.CohortID, authz.Actor(r),
		"team "+created.Name+" created", nil)
	httpjson.Respond(w, http.StatusCreated, toTeamView(created))
}

// ServeListTeams handles GET /teams?cohort_id= or GET /teams?center_id=.
func (h *Handler) ServeListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "team list")
	defer cancel()

	store := orgunitstore.NewTeams(h.DB)

	var (
		teams []models.Team
		err   error
	)
	switch {
	case r.URL.Query().Get("center_id") != "":
		centerID, idErr := primitive.ObjectIDFromHex(r.URL.Query().Get("center_id"))
		if idErr != nil {
			httpjson.Error(w, http.StatusBadRequest, "bad_request", "center_id must be a valid object id")
			return
		}
		teams, err = store.ListByCenter(ctx, centerID)
	case r.URL.Query().Get("cohort_id") != "":
		cohortID, idErr := primitive.ObjectIDFromHex(r.URL.Query().Get("cohort_id"))
		if idErr != nil {
			httpjson.Error(w, http.StatusBadRequest, "bad_request", "cohort_id must be a valid object id")
			return
		}
		teams, err = store.ListByCohort(ctx, cohortID)
	default:
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "cohort_id or center_id query parameter is required")
		return
	}
	if err != nil {
		h.Log.Error("team list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	views := make([]teamView, 0, len(teams))
	for _, tm := range teams {
		views = append(views, toTeamView(tm))
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"teams": views, "total": len(views)})
}

// ServeGetTeam handles GET /teams/{id}.
func (h *Handler) ServeGetTeam(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "id must be a valid object id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "team get")
	defer cancel()

	team, err := orgunitstore.NewTeams(h.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "not_found", "team not found")
			return
		}
		h.Log.Error("team get failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}
	httpjson.Respond(w, http.StatusOK, toTeamView(team))
}

// ServeUpdateTeam handles PUT /teams/{id}. Only the name is mutable; teams
// do not move between centers.
func (h *Handler) ServeUpdateTeam(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "id must be a valid object id")
		return
	}

	var req teamRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid team", "name", "is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "team update")
	defer cancel()

	store := orgunitstore.NewTeams(h.DB)
	team, err := store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "not_found", "team not found")
			return
		}
		h.Log.Error("team lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	if err := store.Update(ctx, id, models.Team{Name: name}); err != nil {
		if errors.Is(err, orgunitstore.ErrDuplicateTeam) {
			httpjson.Error(w, http.StatusConflict, "duplicate_name", "a team with this name already exists in the center")
			return
		}
		h.Log.Error("team update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	updated, err := store.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("team reload failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	h.Audit.AdminAction(ctx, audit.EventTeamUpdated, &team.CohortID, authz.Actor(r),
		"team "+updated.Name+" updated", nil)
	httpjson.Respond(w, http.StatusOK, toTeamView(updated))
}

// ServeDeleteTeam handles DELETE /teams/{id}. The delete is refused while
// enrollments or coach assignments still reference the team.
func (h *Handler) ServeDeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "id must be a valid object id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "team delete")
	defer cancel()

	store := orgunitstore.NewTeams(h.DB)
	team, err := store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "not_found", "team not found")
			return
		}
		h.Log.Error("team lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	blocked, reason, err := h.teamHasDependents(ctx, team)
	if err != nil {
		h.Log.Error("team dependent check failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}
	if blocked {
		httpjson.Error(w, http.StatusConflict, "has_dependents", reason)
		return
	}

	if _, err := store.Delete(ctx, id); err != nil {
		h.Log.Error("team delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	h.Audit.AdminAction(ctx, audit.EventTeamDeleted, &team.CohortID, authz.Actor(r),
		"team "+team.Name+" deleted", nil)
	w.WriteHeader(http.StatusNoContent)
}
