// internal/app/features/cohorts/types.go
package cohorts

import (
	"time"

	"github.com/dalemusser/coachhub/internal/domain/models"
)

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type updateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type setGroupRequest struct {
	GroupID string `json:"group_id"` // empty clears the link
}

type cohortView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	GroupID     string    `json:"group_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toView(c models.Cohort) cohortView {
	v := cohortView{
		ID:          c.ID.Hex(),
		Name:        c.Name,
		Description: c.Description,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.GroupID != nil {
		v.GroupID = c.GroupID.Hex()
	}
	return v
}
