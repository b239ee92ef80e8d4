// internal/app/features/enrollments/types.go
package enrollments

import (
	"net/http"
	"time"

	"github.com/dalemusser/coachhub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createRequest struct {
	CohortID        string `json:"cohort_id"`
	CenterID        string `json:"center_id"`
	TeamID          string `json:"team_id"`
	ParticipantName string `json:"participant_name"`
	Status          string `json:"status"`
}

type placementRequest struct {
	CenterID string `json:"center_id"` // empty clears
	TeamID   string `json:"team_id"`   // empty clears
}

type statusRequest struct {
	Status string `json:"status"`
}

type enrollmentView struct {
	ID              string    `json:"id"`
	CohortID        string    `json:"cohort_id"`
	CenterID        string    `json:"center_id,omitempty"`
	TeamID          string    `json:"team_id,omitempty"`
	ParticipantName string    `json:"participant_name"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toView(e models.Enrollment) enrollmentView {
	v := enrollmentView{
		ID:              e.ID.Hex(),
		CohortID:        e.CohortID.Hex(),
		ParticipantName: e.ParticipantName,
		Status:          e.Status,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
	if e.CenterID != nil {
		v.CenterID = e.CenterID.Hex()
	}
	if e.TeamID != nil {
		v.TeamID = e.TeamID.Hex()
	}
	return v
}

// optionalID parses an optional hex id field, writing a field error and
// reporting ok=false when the value is present but malformed.
func optionalID(w http.ResponseWriter, field, raw string) (*primitive.ObjectID, bool) {
	if raw == "" {
		return nil, true
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid enrollment", field, "must be a valid object id")
		return nil, false
	}
	return &id, true
}
