// internal/domain/models/actor.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Actor identifies the administrative user performing a mutation, carried
// into the audit trail. A zero Actor means a system-initiated change.
type Actor struct {
	ID   primitive.ObjectID
	Name string
}
