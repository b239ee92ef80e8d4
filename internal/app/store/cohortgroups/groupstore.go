// internal/app/store/cohortgroups/groupstore.go
package cohortgroupstore

import (
	"context"
	"errors"
	"time"

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

var ErrDuplicateGroup = errors.New("a cohort group with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("cohort_groups")}
}

func (s *Store) Create(ctx context.Context, group models.CohortGroup) (models.CohortGroup, error) {
	now := time.Now().UTC()
	group.ID = primitive.NewObjectID()
	group.NameCI = text.Fold(group.Name)
	group.CreatedAt = now
	group.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, group)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.CohortGroup{}, ErrDuplicateGroup
		}
		return models.CohortGroup{}, err
	}
	return group, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.CohortGroup, error) {
	var group models.CohortGroup
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&group)
	if err != nil {
		return models.CohortGroup{}, err
	}
	return group, nil
}

// List returns all cohort groups sorted by folded name.
func (s *Store) List(ctx context.Context) ([]models.CohortGroup, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var groups []models.CohortGroup
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Update modifies a group's mutable fields and refreshes UpdatedAt.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, group models.CohortGroup) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if group.Name != "" {
		set["name"] = group.Name
		set["name_ci"] = text.Fold(group.Name)
	}
	if group.Description != "" {
		set["description"] = group.Description
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateGroup
		}
		return err
	}
	return nil
}

// Delete removes a group by ID. Returns the number of documents deleted (0 or 1).
// Member cohorts are detached by the caller, not cascaded.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ExistsByNameCI checks if a group with the given case-insensitive name exists.
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
