// internal/app/features/orgunits/guards.go
package orgunits

import (
	"context"

	enrollmentstore "github.com/dalemusser/coachhub/internal/app/store/enrollments"
	orgunitstore "github.com/dalemusser/coachhub/internal/app/store/orgunits"
	"github.com/dalemusser/coachhub/internal/domain/models"
)

// centerHasDependents reports whether anything still references the center:
// teams nested under it, enrollments placed in it, or coach assignments
// scoped to it.
func (h *Handler) centerHasDependents(ctx context.Context, center models.Center) (bool, string, error) {
	if n, err := orgunitstore.NewTeams(h.DB).CountByCenter(ctx, center.ID); err != nil {
		return false, "", err
	} else if n > 0 {
		return true, "center still has teams", nil
	}
	if n, err := enrollmentstore.New(h.DB).CountByCenter(ctx, center.ID); err != nil {
		return false, "", err
	} else if n > 0 {
		return true, "center still has enrollments", nil
	}
	scope := models.Scope{Kind: models.ScopeCenter, ID: center.ID}
	if n, err := h.Assignments.CountByScope(ctx, center.CohortID, scope); err != nil {
		return false, "", err
	} else if n > 0 {
		return true, "center still has coach assignments", nil
	}
	return false, "", nil
}

// teamHasDependents reports whether enrollments or coach assignments still
// reference the team.
func (h *Handler) teamHasDependents(ctx context.Context, team models.Team) (bool, string, error) {
	if n, err := enrollmentstore.New(h.DB).CountByTeam(ctx, team.ID); err != nil {
		return false, "", err
	} else if n > 0 {
		return true, "team still has enrollments", nil
	}
	scope := models.Scope{Kind: models.ScopeTeam, ID: team.ID}
	if n, err := h.Assignments.CountByScope(ctx, team.CohortID, scope); err != nil {
		return false, "", err
	} else if n > 0 {
		return true, "team still has coach assignments", nil
	}
	return false, "", nil
}
