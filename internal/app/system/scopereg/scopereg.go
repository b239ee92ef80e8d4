// Package scopereg resolves scope references against the org-unit and
// enrollment collections: does this center/team/enrollment exist in that
// cohort, and what should the admin screens call it.
package scopereg

import (
	"context"

	"github.com/dalemusser/coachhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Registry is read-only over the three scope collections.
type Registry struct {
	db  *mongo.Database
	log *zap.Logger
}

// New constructs a Registry.
func New(db *mongo.Database, logger *zap.Logger) *Registry {
	return &Registry{db: db, log: logger}
}

// collectionFor maps a scope kind to its backing collection.
func collectionFor(kind models.ScopeKind) string {
	switch kind {
	case models.ScopeCenter:
		return "centers"
	case models.ScopeTeam:
		return "teams"
	case models.ScopeEnrollment:
		return "enrollments"
	}
	return ""
}

// ValidateScope reports whether the referenced entity exists and belongs to
// the cohort. Centers and teams belong via their cohort_id (teams carry the
// cohort id denormalized from their center); enrollments belong directly.
func (r *Registry) ValidateScope(ctx context.Context, cohortID primitive.ObjectID, scope models.Scope) (bool, error) {
	coll := collectionFor(scope.Kind)
	if coll == "" {
		return false, nil
	}
	n, err := r.db.Collection(coll).CountDocuments(ctx, bson.M{
		"_id":       scope.ID,
		"cohort_id": cohortID,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// LabelFor returns a human label for the scope entity. It never fails: when
// the entity cannot be found (deleted unit, stale reference, db hiccup) it
// degrades to the synthetic fallback label instead of blocking the caller.
func (r *Registry) LabelFor(ctx context.Context, scope models.Scope) string {
	coll := collectionFor(scope.Kind)
	if coll == "" {
		return scope.FallbackLabel()
	}

	field := "name"
	if scope.Kind == models.ScopeEnrollment {
		field = "participant_name"
	}

	var doc bson.M
	err := r.db.Collection(coll).FindOne(ctx, bson.M{"_id": scope.ID}).Decode(&doc)
	if err != nil {
		if r.log != nil && err != mongo.ErrNoDocuments {
			r.log.Warn("scope label lookup failed",
				zap.String("kind", string(scope.Kind)),
				zap.String("scope_id", scope.ID.Hex()),
				zap.Error(err))
		}
		return scope.FallbackLabel()
	}
	if name, ok := doc[field].(string); ok && name != "" {
		return name
	}
	return scope.FallbackLabel()
}
