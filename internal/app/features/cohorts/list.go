// internal/app/features/cohorts/list.go
package cohorts

import (
	"errors"
	"net/http"

	"github.com/dalemusser/coachhub/internal/app/features/shared/httpjson"
	cohortstore "github.com/dalemusser/coachhub/internal/app/store/cohorts"
	"github.com/dalemusser/coachhub/internal/app/system/timeouts"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeList handles GET / - all cohorts, or one group's with ?group_id=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "cohort list")
	defer cancel()

	store := cohortstore.New(h.DB)

	var (
		cohorts []models.Cohort
		err     error
	)
	if raw := r.URL.Query().Get("group_id"); raw != "" {
		groupID, idErr := primitive.ObjectIDFromHex(raw)
		if idErr != nil {
			httpjson.Error(w, http.StatusBadRequest, "bad_request", "group_id must be a valid object id")
			return
		}
		cohorts, err = store.ListByGroup(ctx, groupID)
	} else {
		cohorts, err = store.List(ctx)
	}
	if err != nil {
		h.Log.Error("cohort list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	views := make([]cohortView, 0, len(cohorts))
	for _, c := range cohorts {
		views = append(views, toView(c))
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"cohorts": views, "total": len(views)})
}

// ServeGet handles GET /{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "id must be a valid object id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "cohort get")
	defer cancel()

	cohort, err := cohortstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "not_found", "cohort not found")
			return
		}
		h.Log.Error("cohort get failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}
	httpjson.Respond(w, http.StatusOK, toView(cohort))
}
