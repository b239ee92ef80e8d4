// internal/domain/models/enrollment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enrollment is one participant in a cohort.
//
// CenterID and TeamID place the participant in the cohort's organizational
// tree; both are optional, but a team always implies its center (the store
// validates and denormalizes this at write time), so resolution never has to
// walk the tree.
type Enrollment struct {
	ID       primitive.ObjectID  `bson:"_id" json:"id"`
	CohortID primitive.ObjectID  `bson:"cohort_id" json:"cohort_id"`
	CenterID *primitive.ObjectID `bson:"center_id,omitempty" json:"center_id,omitempty"`
	TeamID   *primitive.ObjectID `bson:"team_id,omitempty" json:"team_id,omitempty"`

	ParticipantName   string `bson:"participant_name" json:"participant_name"`
	ParticipantNameCI string `bson:"participant_name_ci" json:"-"`

	Status string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
