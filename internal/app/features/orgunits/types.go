// internal/app/features/orgunits/types.go
package orgunits

import (
	"time"

	"github.com/dalemusser/coachhub/internal/domain/models"
)

type centerRequest struct {
	CohortID string `json:"cohort_id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	State    string `json:"state"`
}

type teamRequest struct {
	CohortID string `json:"cohort_id"`
	CenterID string `json:"center_id"`
	Name     string `json:"name"`
}

type centerView struct {
	ID        string    `json:"id"`
	CohortID  string    `json:"cohort_id"`
	Name      string    `json:"name"`
	City      string    `json:"city,omitempty"`
	State     string    `json:"state,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type teamView struct {
	ID        string    `json:"id"`
	CohortID  string    `json:"cohort_id"`
	CenterID  string    `json:"center_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCenterView(c models.Center) centerView {
	return centerView{
		ID:        c.ID.Hex(),
		CohortID:  c.CohortID.Hex(),
		Name:      c.Name,
		City:      c.City,
		State:     c.State,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toTeamView(tm models.Team) teamView {
	return teamView{
		ID:        tm.ID.Hex(),
		CohortID:  tm.CohortID.Hex(),
		CenterID:  tm.CenterID.Hex(),
		Name:      tm.Name,
		CreatedAt: tm.CreatedAt,
		UpdatedAt: tm.UpdatedAt,
	}
}
