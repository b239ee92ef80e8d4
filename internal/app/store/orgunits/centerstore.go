// internal/app/store/orgunits/centerstore.go
package orgunitstore

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

var (
	ErrDuplicateCenter = errors.New("a center with this name already exists in the cohort")
	ErrDuplicateTeam   = errors.New("a team with this name already exists in the center")

	// ErrHasDependents is returned when deleting an org unit that teams,
	// enrollments, or coach assignments still reference.
	ErrHasDependents = errors.New("org unit still has dependent records")
)

// CenterStore manages the centers collection.
type CenterStore struct {
	c *mongo.Collection
}

func NewCenters(db *mongo.Database) *CenterStore {
	return &CenterStore{c: db.Collection("centers")}
}

func (s *CenterStore) Create(ctx context.Context, center models.Center) (models.Center, error) {
	now := time.Now().UTC()
	center.ID = primitive.NewObjectID()
	center.NameCI = text.Fold(center.Name)
	center.CreatedAt = now
	center.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, center)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Center{}, ErrDuplicateCenter
		}
		return models.Center{}, err
	}
	return center, nil
}

func (s *CenterStore) GetByID(ctx context.Context, id primitive.ObjectID) (models.Center, error) {
	var center models.Center
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&center)
	if err != nil {
		return models.Center{}, err
	}
	return center, nil
}

// ListByCohort returns a cohort's centers sorted by folded name.
func (s *CenterStore) ListByCohort(ctx context.Context, cohortID primitive.ObjectID) ([]models.Center, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"cohort_id": cohortID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var centers []models.Center
	if err := cur.All(ctx, &centers); err != nil {
		return nil, err
	}
	return centers, nil
}

// Update modifies a center's mutable fields and refreshes UpdatedAt.
func (s *CenterStore) Update(ctx context.Context, id primitive.ObjectID, center models.Center) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if center.Name != "" {
		set["name"] = center.Name
		set["name_ci"] = text.Fold(center.Name)
	}
	if center.City != "" {
		set["city"] = center.City
	}
	if center.State != "" {
		set["state"] = center.State
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateCenter
		}
		return err
	}
	return nil
}

// Delete removes a center by ID. Returns the number of documents deleted (0 or 1).
// Callers must refuse the delete while teams, enrollments, or assignments
// still reference the center.
func (s *CenterStore) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByCohort removes all of a cohort's centers. Used by the cohort cascade.
func (s *CenterStore) DeleteByCohort(ctx context.Context, cohortID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"cohort_id": cohortID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
