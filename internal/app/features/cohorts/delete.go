// internal/app/features/cohorts/delete.go
package cohorts

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/coachhub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/coachhub/internal/app/store/audit"
	cohortstore "github.com/dalemusser/coachhub/internal/app/store/cohorts"
	enrollmentstore "github.com/dalemusser/coachhub/internal/app/store/enrollments"
	orgunitstore "github.com/dalemusser/coachhub/internal/app/store/orgunits"
	"github.com/dalemusser/coachhub/internal/app/system/authz"
	"github.com/dalemusser/coachhub/internal/app/system/timeouts"
	"github.com/dalemusser/coachhub/internal/app/system/txn"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeDelete handles DELETE /{id} - removes the cohort and sweeps its
// centers, teams, enrollments, and coach assignments in one transaction.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "id must be a valid object id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "cohort delete")
	defer cancel()

	cohort, err := cohortstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "not_found", "cohort not found")
			return
		}
		h.Log.Error("cohort lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	var swept struct {
		centers, teams, enrollments, assignments int64
	}
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		if swept.assignments, err = h.Assignments.DeleteByCohort(ctx, id); err != nil {
			return err
		}
		if swept.enrollments, err = enrollmentstore.New(h.DB).DeleteByCohort(ctx, id); err != nil {
			return err
		}
		if swept.teams, err = orgunitstore.NewTeams(h.DB).DeleteByCohort(ctx, id); err != nil {
			return err
		}
		if swept.centers, err = orgunitstore.NewCenters(h.DB).DeleteByCohort(ctx, id); err != nil {
			return err
		}
		_, err = cohortstore.New(h.DB).Delete(ctx, id)
		return err
	})
	if err != nil {
		h.Log.Error("cohort delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	h.Audit.AdminAction(ctx, audit.EventCohortDeleted, &id, authz.Actor(r),
		"cohort "+cohort.Name+" deleted", map[string]string{
			"centers":     fmt.Sprint(swept.centers),
			"teams":       fmt.Sprint(swept.teams),
			"enrollments": fmt.Sprint(swept.enrollments),
			"assignments": fmt.Sprint(swept.assignments),
		})
	w.WriteHeader(http.StatusNoContent)
}
