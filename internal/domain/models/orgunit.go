// internal/domain/models/orgunit.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Center is the top org unit inside a cohort, typically a physical site.
type Center struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	CohortID primitive.ObjectID `bson:"cohort_id" json:"cohort_id"`
	Name     string             `bson:"name" json:"name"`
	NameCI   string             `bson:"name_ci" json:"-"`
	City     string             `bson:"city" json:"city"`
	State    string             `bson:"state" json:"state"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Team is an org unit nested under a center. CohortID is denormalized from
// the center so scope validation is a single lookup.
type Team struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	CohortID primitive.ObjectID `bson:"cohort_id" json:"cohort_id"`
	CenterID primitive.ObjectID `bson:"center_id" json:"center_id"`
	Name     string             `bson:"name" json:"name"`
	NameCI   string             `bson:"name_ci" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
