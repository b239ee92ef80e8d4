// internal/app/features/assignments/types.go
package assignments

import (
	"time"

	"github.com/dalemusser/coachhub/internal/app/system/effrange"
	"github.com/dalemusser/coachhub/internal/domain/models"
)

const dateLayout = "2006-01-02"

// createRequest is the POST / body. Dates travel as "YYYY-MM-DD" strings;
// effective_to is omitted for an open-ended assignment.
type createRequest struct {
	CohortID      string `json:"cohort_id"`
	CoachID       string `json:"coach_id"`
	ScopeKind     string `json:"scope_kind"`
	ScopeID       string `json:"scope_id"`
	EffectiveFrom string `json:"effective_from"`
	EffectiveTo   string `json:"effective_to,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// closeRequest is the POST /{id}/close body.
type closeRequest struct {
	EffectiveTo string `json:"effective_to"`
}

// assignmentView is the wire shape of one assignment.
type assignmentView struct {
	ID            string    `json:"id"`
	CohortID      string    `json:"cohort_id"`
	CoachID       string    `json:"coach_id"`
	ScopeKind     string    `json:"scope_kind"`
	ScopeID       string    `json:"scope_id"`
	ScopeLabel    string    `json:"scope_label,omitempty"`
	EffectiveFrom string    `json:"effective_from"`
	EffectiveTo   string    `json:"effective_to,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedByName string    `json:"created_by_name,omitempty"`
}

func toView(a models.CoachAssignment, label string) assignmentView {
	v := assignmentView{
		ID:            a.ID.Hex(),
		CohortID:      a.CohortID.Hex(),
		CoachID:       a.CoachID.Hex(),
		ScopeKind:     string(a.ScopeKind),
		ScopeID:       a.ScopeID.Hex(),
		ScopeLabel:    label,
		EffectiveFrom: a.EffectiveFrom.Format(dateLayout),
		Notes:         a.Notes,
		CreatedAt:     a.CreatedAt,
		CreatedByName: a.CreatedByName,
	}
	if a.EffectiveTo != nil {
		v.EffectiveTo = a.EffectiveTo.Format(dateLayout)
	}
	return v
}

// parseDate reads a "YYYY-MM-DD" value as a UTC-midnight day.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return effrange.Day(t), nil
}
