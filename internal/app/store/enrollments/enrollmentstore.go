// internal/app/store/enrollments/enrollmentstore.go
package enrollmentstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/coachhub/internal/app/system/status"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrCenterNotInCohort = errors.New("center not found in this cohort")
	ErrTeamNotInCohort   = errors.New("team not found in this cohort")

	// ErrTeamCenterMismatch is returned when an enrollment names both a team
	// and a center but the team belongs to a different center.
	ErrTeamCenterMismatch = errors.New("team does not belong to the given center")
)

// Store manages the enrollments collection. It reads centers and teams to
// validate placement at write time.
type Store struct {
	c       *mongo.Collection
	centers *mongo.Collection
	teams   *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:       db.Collection("enrollments"),
		centers: db.Collection("centers"),
		teams:   db.Collection("teams"),
	}
}

// Create inserts an enrollment after validating its placement. A team always
// implies its center: when TeamID is set, CenterID is filled in (or checked)
// from the team record, so resolution never has to walk the org tree.
func (s *Store) Create(ctx context.Context, enr models.Enrollment) (models.Enrollment, error) {
	if err := s.resolvePlacement(ctx, &enr); err != nil {
		return models.Enrollment{}, err
	}

	now := time.Now().UTC()
	enr.ID = primitive.NewObjectID()
	enr.ParticipantNameCI = text.Fold(enr.ParticipantName)
	if enr.Status == "" {
		enr.Status = status.Active
	}
	enr.CreatedAt = now
	enr.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, enr); err != nil {
		return models.Enrollment{}, err
	}
	return enr, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Enrollment, error) {
	var enr models.Enrollment
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&enr)
	if err != nil {
		return models.Enrollment{}, err
	}
	return enr, nil
}

// ListByCohort returns a cohort's enrollments sorted by folded participant name.
func (s *Store) ListByCohort(ctx context.Context, cohortID primitive.ObjectID) ([]models.Enrollment, error) {
	return s.list(ctx, bson.M{"cohort_id": cohortID})
}

// ListByTeam returns the enrollments placed on one team.
func (s *Store) ListByTeam(ctx context.Context, teamID primitive.ObjectID) ([]models.Enrollment, error) {
	return s.list(ctx, bson.M{"team_id": teamID})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Enrollment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "participant_name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var enrs []models.Enrollment
	if err := cur.All(ctx, &enrs); err != nil {
		return nil, err
	}
	return enrs, nil
}

// UpdatePlacement re-places an enrollment in the org tree. Passing nil for
// both clears the placement. The team-implies-center rule is re-applied.
func (s *Store) UpdatePlacement(ctx context.Context, id primitive.ObjectID, centerID, teamID *primitive.ObjectID) error {
	enr, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	enr.CenterID = centerID
	enr.TeamID = teamID
	if err := s.resolvePlacement(ctx, &enr); err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}}
	unset := bson.M{}
	if enr.CenterID != nil {
		update["$set"].(bson.M)["center_id"] = *enr.CenterID
	} else {
		unset["center_id"] = ""
	}
	if enr.TeamID != nil {
		update["$set"].(bson.M)["team_id"] = *enr.TeamID
	} else {
		unset["team_id"] = ""
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	_, err = s.c.UpdateByID(ctx, id, update)
	return err
}

// UpdateStatus changes an enrollment's status (active, withdrawn).
func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, st string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     st,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// Delete removes an enrollment by ID. Returns the number of documents deleted (0 or 1).
// Callers must refuse the delete while assignments still reference the enrollment.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByCenter returns how many enrollments are placed at a center,
// directly or through one of its teams.
func (s *Store) CountByCenter(ctx context.Context, centerID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"center_id": centerID})
}

// CountByTeam returns how many enrollments are placed on a team.
func (s *Store) CountByTeam(ctx context.Context, teamID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"team_id": teamID})
}

// DeleteByCohort removes all of a cohort's enrollments. Used by the cohort cascade.
func (s *Store) DeleteByCohort(ctx context.Context, cohortID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"cohort_id": cohortID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// resolvePlacement validates CenterID/TeamID against the cohort and fills in
// the center implied by a team.
func (s *Store) resolvePlacement(ctx context.Context, enr *models.Enrollment) error {
	if enr.TeamID != nil {
		var team models.Team
		err := s.teams.FindOne(ctx, bson.M{"_id": *enr.TeamID}).Decode(&team)
		if err == mongo.ErrNoDocuments || (err == nil && team.CohortID != enr.CohortID) {
			return ErrTeamNotInCohort
		}
		if err != nil {
			return err
		}
		if enr.CenterID != nil && *enr.CenterID != team.CenterID {
			return ErrTeamCenterMismatch
		}
		id := team.CenterID
		enr.CenterID = &id
		return nil
	}

	if enr.CenterID != nil {
		n, err := s.centers.CountDocuments(ctx, bson.M{"_id": *enr.CenterID, "cohort_id": enr.CohortID})
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrCenterNotInCohort
		}
	}
	return nil
}
