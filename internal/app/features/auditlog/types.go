// internal/app/features/auditlog/types.go
package auditlog

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in

import (
	"time"

	"github.com/dalemusser/coachhub/internal/app/store/audit"
)

// eventView is one audit event as returned by the list endpoint.
type eventView struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	CohortID  string            `json:"cohort_id,omitempty"`
	Category  string            `json:"category"`
	EventType string            `json:"event_type"`
	UserID    string            `json:"user_id,omitempty"`
	ActorID   string            `json:"actor_id,omitempty"`
	IP        string            `json:"ip,omitempty"`
	Success   bool              `json:"success"`
	Summary   string            `json:"summary,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

func toView(e audit.Event) eventView {
	v := eventView{
		ID:        e.ID.Hex(),
		Timestamp: e.Timestamp,
		Category:  e.Category,
		EventType: e.EventType,
		IP:        e.IP,
		Success:   e.Success,
		Summary:   e.Summary,
		Details:   e.Details,
	}
	if e.CohortID != nil {
		v.CohortID = e.CohortID.Hex()
	}
	if e.UserID != nil {
		v.UserID = e.UserID.Hex()
	}
	if e.ActorID != nil {
		v.ActorID = e.ActorID.Hex()
	}
	return v
}
