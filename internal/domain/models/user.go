// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents admins and coaches.
//
// Admins manage cohorts, org units, enrollments, and coach assignments.
// Coaches are assignable to scopes and may query resolution, but hold no
// management privilege.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	LoginID    string             `bson:"login_id" json:"login_id"`
	LoginIDCI  string             `bson:"login_id_ci" json:"-"`

	// bcrypt hash; never serialized.
	PasswordHash string `bson:"password_hash" json:"-"`

	Role   string `bson:"role" json:"role"` // admin | coach
	Status string `bson:"status,omitempty" json:"status,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Roles.
const (
	RoleAdmin = "admin"
	RoleCoach = "coach"
)
