// internal/app/features/cohorts/create.go
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
	"go.uber.org/zap"
)

// ServeCreate handles POST / - creates a cohort.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid cohort", "name", "is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "cohort create")
	defer cancel()

	created, err := cohortstore.New(h.DB).Create(ctx, models.Cohort{
		Name:        name,
		Description: htmlsanitize.Clean(req.Description),
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, cohortstore.ErrDuplicateCohort) {
			httpjson.Error(w, http.StatusConflict, "duplicate_name", "a cohort with this name already exists")
			return
		}
		h.Log.Error("cohort create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	h.Audit.AdminAction(ctx, audit.EventCohortCreated, &created.ID, authz.Actor(r),
		"cohort "+created.Name+" created", nil)
	httpjson.Respond(w, http.StatusCreated, toView(created))
}
