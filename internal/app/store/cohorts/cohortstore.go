// internal/app/store/cohorts/cohortstore.go
package cohortstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/coachhub/internal/app/system/status"
	"github.com/dalemusser/coachhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateCohort = errors.New("a cohort with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("cohorts")}
}

func (s *Store) Create(ctx context.Context, cohort models.Cohort) (models.Cohort, error) {
	now := time.Now().UTC()
	cohort.ID = primitive.NewObjectID()
	cohort.NameCI = text.Fold(cohort.Name)
	if cohort.Status == "" {
		cohort.Status = status.Active
	}
	cohort.CreatedAt = now
	cohort.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, cohort)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Cohort{}, ErrDuplicateCohort
		}
		return models.Cohort{}, err
	}
	return cohort, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Cohort, error) {
	var cohort models.Cohort
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cohort)
	if err != nil {
		return models.Cohort{}, err
	}
	return cohort, nil
}

// List returns all cohorts sorted by folded name.
func (s *Store) List(ctx context.Context) ([]models.Cohort, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var cohorts []models.Cohort
	if err := cur.All(ctx, &cohorts); err != nil {
		return nil, err
	}
	return cohorts, nil
}

// ListByGroup returns the cohorts belonging to one cohort group.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Cohort, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var cohorts []models.Cohort
	if err := cur.All(ctx, &cohorts); err != nil {
		return nil, err
	}
	return cohorts, nil
}

// Update modifies a cohort's mutable fields and refreshes UpdatedAt.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, cohort models.Cohort) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if cohort.Name != "" {
		set["name"] = cohort.Name
		set["name_ci"] = text.Fold(cohort.Name)
	}
	if cohort.Description != "" {
		set["description"] = cohort.Description
	}
	if cohort.Status != "" {
		set["status"] = cohort.Status
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateCohort
		}
		return err
	}
	return nil
}

// SetGroup links a cohort to a cohort group, or unlinks it when groupID is nil.
func (s *Store) SetGroup(ctx context.Context, id primitive.ObjectID, groupID *primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}}
	if groupID == nil {
		update["$unset"] = bson.M{"group_id": ""}
	} else {
		update["$set"].(bson.M)["group_id"] = *groupID
	}
	_, err := s.c.UpdateByID(ctx, id, update)
	return err
}

// ClearGroup detaches every cohort from the given group. Called when the
// group is deleted; the cohorts themselves survive.
func (s *Store) ClearGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"group_id": groupID},
		bson.M{
			"$unset": bson.M{"group_id": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Delete removes a cohort by ID. Returns the number of documents deleted (0 or 1).
// Dependent org units, enrollments, and assignments are swept by the caller.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ExistsByNameCI checks if a cohort with the given case-insensitive name exists.
func (s *Store) ExistsByNameCI(ctx context.Context, nameCI string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"name_ci": nameCI}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// NameExistsForOther checks if a cohort with the given name exists, excluding the specified ID.
func (s *Store) NameExistsForOther(ctx context.Context, nameCI string, excludeID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"name_ci": nameCI,
		"_id":     bson.M{"$ne": excludeID},
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
