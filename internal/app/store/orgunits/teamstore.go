// internal/app/store/orgunits/teamstore.go
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

// ErrCenterNotInCohort is returned when a team names a center that does not
// exist or belongs to a different cohort.
var ErrCenterNotInCohort = errors.New("center not found in this cohort")

// TeamStore manages the teams collection. It also reads centers to enforce
// the center/cohort relationship at write time.
type TeamStore struct {
	c       *mongo.Collection
	centers *mongo.Collection
}

func NewTeams(db *mongo.Database) *TeamStore {
	return &TeamStore{
		c:       db.Collection("teams"),
		centers: db.Collection("centers"),
	}
}

// Create inserts a team after verifying its center belongs to the team's
// cohort. CohortID is denormalized from the center so later scope checks are
// a single lookup.
func (s *TeamStore) Create(ctx context.Context, team models.Team) (models.Team, error) {
	var center models.Center
	err := s.centers.FindOne(ctx, bson.M{"_id": team.CenterID}).Decode(&center)
	if err == mongo.ErrNoDocuments || (err == nil && center.CohortID != team.CohortID) {
		return models.Team{}, ErrCenterNotInCohort
	}
	if err != nil {
		return models.Team{}, err
	}

	now := time.Now().UTC()
	team.ID = primitive.NewObjectID()
	team.CohortID = center.CohortID
	team.NameCI = text.Fold(team.Name)
	team.CreatedAt = now
	team.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, team); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Team{}, ErrDuplicateTeam
		}
		return models.Team{}, err
	}
	return team, nil
}

func (s *TeamStore) GetByID(ctx context.Context, id primitive.ObjectID) (models.Team, error) {
	var team models.Team
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&team)
	if err != nil {
		return models.Team{}, err
	}
	return team, nil
}

// ListByCohort returns a cohort's teams sorted by folded name.
func (s *TeamStore) ListByCohort(ctx context.Context, cohortID primitive.ObjectID) ([]models.Team, error) {
	return s.list(ctx, bson.M{"cohort_id": cohortID})
}

// ListByCenter returns a center's teams sorted by folded name.
func (s *TeamStore) ListByCenter(ctx context.Context, centerID primitive.ObjectID) ([]models.Team, error) {
	return s.list(ctx, bson.M{"center_id": centerID})
}

func (s *TeamStore) list(ctx context.Context, filter bson.M) ([]models.Team, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var teams []models.Team
	if err := cur.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// Update modifies a team's name and refreshes UpdatedAt. Teams do not move
// between centers; recreate instead.
func (s *TeamStore) Update(ctx context.Context, id primitive.ObjectID, team models.Team) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if team.Name != "" {
		set["name"] = team.Name
		set["name_ci"] = text.Fold(team.Name)
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateTeam
		}
		return err
	}
	return nil
}

// Delete removes a team by ID. Returns the number of documents deleted (0 or 1).
// Callers must refuse the delete while enrollments or assignments still
// reference the team.
func (s *TeamStore) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByCenter returns how many teams sit under a center.
func (s *TeamStore) CountByCenter(ctx context.Context, centerID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"center_id": centerID})
}

// DeleteByCohort removes all of a cohort's teams. Used by the cohort cascade.
func (s *TeamStore) DeleteByCohort(ctx context.Context, cohortID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"cohort_id": cohortID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
