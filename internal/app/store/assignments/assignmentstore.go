// internal/app/store/assignments/assignmentstore.go
package assignmentstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/coachhub/internal/app/system/effrange"
	"github.com/dalemusser/coachhub/internal/app/system/txn"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ScopeValidator confirms that a scope id exists and belongs to the cohort.
// Implemented by scopereg.Registry.
type ScopeValidator interface {
	ValidateScope(ctx context.Context, cohortID primitive.ObjectID, scope models.Scope) (bool, error)
}

// Notifier receives one event per successful mutation, synchronously.
// Implemented by auditlog.Logger. Delivery is best-effort: the store never
// lets a notifier problem fail or roll back the mutation it describes.
type Notifier interface {
	AssignmentCreated(ctx context.Context, a models.CoachAssignment, actor models.Actor)
	AssignmentClosed(ctx context.Context, a models.CoachAssignment, actor models.Actor)
	AssignmentDeleted(ctx context.Context, a models.CoachAssignment, actor models.Actor)
}

// Store manages the coach_assignments collection.
//
// Writes for one (cohort, scope kind, scope id) triple are serialized: the
// overlap check and the insert run under a per-triple lock and inside a
// transaction when the deployment supports one. Two concurrent creates for
// overlapping ranges on the same triple therefore cannot both pass the check.
// Readers never take the lock.
type Store struct {
	c      *mongo.Collection
	db     *mongo.Database
	scopes ScopeValidator
	notify Notifier
	log    *zap.Logger

	mu    sync.Mutex
	inUse map[string]*tripleLock
}

type tripleLock struct {
	sync.Mutex
	refs int
}

// New constructs the Store. notify may be nil when no audit sink is wired.
func New(db *mongo.Database, scopes ScopeValidator, notify Notifier, logger *zap.Logger) *Store {
	return &Store{
		c:      db.Collection("coach_assignments"),
		db:     db,
		scopes: scopes,
		notify: notify,
		log:    logger,
		inUse:  map[string]*tripleLock{},
	}
}

func tripleKey(cohortID primitive.ObjectID, scope models.Scope) string {
	return cohortID.Hex() + "|" + string(scope.Kind) + "|" + scope.ID.Hex()
}

// lockTriple acquires the write lock for one scope triple and returns the
// release func. Locks are created on demand and dropped once unused.
func (s *Store) lockTriple(key string) func() {
	s.mu.Lock()
	l := s.inUse[key]
	if l == nil {
		l = &tripleLock{}
		s.inUse[key] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.inUse, key)
		}
		s.mu.Unlock()
	}
}

// Create validates, conflict-checks, and persists a new assignment, then
// notifies the audit sink. ID, CreatedAt, and CreatedBy* are set here; dates
// are normalized to UTC midnight.
//
// Failure modes: *ValidationError for malformed data or a scope that fails
// validation, *ConflictError when another assignment for the same scope
// triple overlaps the requested range. Neither leaves any partial state.
func (s *Store) Create(ctx context.Context, a models.CoachAssignment, actor models.Actor) (models.CoachAssignment, error) {
	if err := s.validate(ctx, &a); err != nil {
		return models.CoachAssignment{}, err
	}

	a.ID = primitive.NewObjectID()
	a.CreatedAt = time.Now().UTC()
	if !actor.ID.IsZero() {
		id := actor.ID
		a.CreatedByID = &id
		a.CreatedByName = actor.Name
	}

	unlock := s.lockTriple(tripleKey(a.CohortID, a.Scope()))
	defer unlock()

	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		if err := s.checkOverlap(ctx, a, primitive.NilObjectID); err != nil {
			return err
		}
		_, err := s.c.InsertOne(ctx, a)
		return err
	})
	if err != nil {
		return models.CoachAssignment{}, err
	}

	if s.notify != nil {
		s.notify.AssignmentCreated(ctx, a, actor)
	}
	return a, nil
}

// CloseRange ends an assignment's effective range on the given date. This is
// the only sanctioned mutation of a stored assignment and exists so that
// reassignment stays an explicit two-step operation: close the old range,
// then create the replacement. The new end must not cut before the start and
// must genuinely shorten the range, judged against the stored document under
// the same per-triple lock Create takes, so a close racing another close or
// a replacement create cannot widen a range behind the conflict check.
func (s *Store) CloseRange(ctx context.Context, id primitive.ObjectID, to time.Time, actor models.Actor) (models.CoachAssignment, error) {
	day := effrange.Day(to)

	// This read only establishes the scope triple for the lock; the scope
	// fields are immutable so the key cannot go stale. The range fields are
	// re-read and validated under the lock.
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return models.CoachAssignment{}, err
	}

	unlock := s.lockTriple(tripleKey(a.CohortID, a.Scope()))
	defer unlock()

	err = txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		a, err = s.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if day.Before(a.EffectiveFrom) {
			return &ValidationError{Field: "effective_to", Reason: "before effective_from"}
		}
		if a.EffectiveTo != nil && !day.Before(*a.EffectiveTo) {
			return &ValidationError{Field: "effective_to", Reason: "assignment already ends on or before that date"}
		}

		shortened := a
		shortened.EffectiveTo = &day
		if err := s.checkOverlap(ctx, shortened, a.ID); err != nil {
			return err
		}

		res, err := s.c.UpdateOne(ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"effective_to": day}},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return models.CoachAssignment{}, err
	}
	a.EffectiveTo = &day

	if s.notify != nil {
		s.notify.AssignmentClosed(ctx, a, actor)
	}
	return a, nil
}

// Delete hard-deletes an assignment. If audit retention matters, the audit
// sink is the archive of record, not this collection.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID, actor models.Actor) error {
	var a models.CoachAssignment
	err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if s.notify != nil {
		s.notify.AssignmentDeleted(ctx, a, actor)
	}
	return nil
}

// GetByID returns a single assignment, or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.CoachAssignment, error) {
	var a models.CoachAssignment
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.CoachAssignment{}, ErrNotFound
	}
	return a, err
}

// ListByCohort returns all of a cohort's assignments ordered by scope kind
// (center, team, enrollment) and then by start date, newest first; the
// precedence-then-recency order the admin screens present.
func (s *Store) ListByCohort(ctx context.Context, cohortID primitive.ObjectID) ([]models.CoachAssignment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "effective_from", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"cohort_id": cohortID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.CoachAssignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	// Kind order is precedence order, which bson string sorting can't
	// express; finish the sort here. SliceStable keeps the recency order
	// within each kind.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScopeKind.Precedence() < out[j].ScopeKind.Precedence()
	})
	return out, nil
}

// ListByScope returns the assignments for one exact scope triple, newest
// start date first.
func (s *Store) ListByScope(ctx context.Context, cohortID primitive.ObjectID, scope models.Scope) ([]models.CoachAssignment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "effective_from", Value: -1}})
	cur, err := s.c.Find(ctx, s.scopeFilter(cohortID, scope), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.CoachAssignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByCoach returns every assignment naming the coach, across cohorts.
func (s *Store) ListByCoach(ctx context.Context, coachID primitive.ObjectID) ([]models.CoachAssignment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "effective_from", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"coach_id": coachID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.CoachAssignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InForce returns the assignment covering asOf for one scope triple, if any.
// The overlap invariant guarantees at most one document qualifies.
func (s *Store) InForce(ctx context.Context, cohortID primitive.ObjectID, scope models.Scope, asOf time.Time) (models.CoachAssignment, bool, error) {
	day := effrange.Day(asOf)
	filter := s.scopeFilter(cohortID, scope)
	filter["effective_from"] = bson.M{"$lte": day}
	filter["$or"] = []bson.M{
		{"effective_to": bson.M{"$exists": false}},
		{"effective_to": nil},
		{"effective_to": bson.M{"$gte": day}},
	}

	var a models.CoachAssignment
	err := s.c.FindOne(ctx, filter).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.CoachAssignment{}, false, nil
	}
	if err != nil {
		return models.CoachAssignment{}, false, err
	}
	return a, true, nil
}

// DeleteByCohort removes all assignments for a cohort. Used by the cohort
// cascade delete; individual audit events are not emitted for the sweep
// (the cohort deletion itself is audited).
func (s *Store) DeleteByCohort(ctx context.Context, cohortID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"cohort_id": cohortID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByScope returns how many assignments reference a scope entity.
// Org-unit deletion is refused while this is non-zero.
func (s *Store) CountByScope(ctx context.Context, cohortID primitive.ObjectID, scope models.Scope) (int64, error) {
	return s.c.CountDocuments(ctx, s.scopeFilter(cohortID, scope))
}

func (s *Store) scopeFilter(cohortID primitive.ObjectID, scope models.Scope) bson.M {
	return bson.M{
		"cohort_id":  cohortID,
		"scope_kind": scope.Kind,
		"scope_id":   scope.ID,
	}
}

// validate applies the field and referential invariants and normalizes the
// effective dates to UTC midnight in place.
func (s *Store) validate(ctx context.Context, a *models.CoachAssignment) error {
	switch {
	case a.CohortID.IsZero():
		return &ValidationError{Field: "cohort_id", Reason: "required"}
	case a.CoachID.IsZero():
		return &ValidationError{Field: "coach_id", Reason: "required"}
	case !a.ScopeKind.Valid():
		return &ValidationError{Field: "scope_kind", Reason: "must be center, team, or enrollment"}
	case a.ScopeID.IsZero():
		return &ValidationError{Field: "scope_id", Reason: "required"}
	case a.EffectiveFrom.IsZero():
		return &ValidationError{Field: "effective_from", Reason: "required"}
	}

	r := effrange.New(a.EffectiveFrom, a.EffectiveTo)
	if err := r.Validate(); err != nil {
		return &ValidationError{Field: "effective_to", Reason: "before effective_from"}
	}
	a.EffectiveFrom = r.From
	a.EffectiveTo = r.To

	ok, err := s.scopes.ValidateScope(ctx, a.CohortID, a.Scope())
	if err != nil {
		return err
	}
	if !ok {
		return &ValidationError{Field: "scope_id", Reason: "no such " + string(a.ScopeKind) + " in this cohort"}
	}
	return nil
}

// checkOverlap scans the stored ranges for a's scope triple and rejects a if
// any of them intersects a's range. exclude skips one document so CloseRange
// can re-check its own record's shortened range against the neighbors.
func (s *Store) checkOverlap(ctx context.Context, a models.CoachAssignment, exclude primitive.ObjectID) error {
	existing, err := s.ListByScope(ctx, a.CohortID, a.Scope())
	if err != nil {
		return err
	}
	candidate := effrange.Range{From: a.EffectiveFrom, To: a.EffectiveTo}
	for _, e := range existing {
		if e.ID == exclude || e.ID == a.ID {
			continue
		}
		if candidate.Intersects(effrange.Range{From: e.EffectiveFrom, To: e.EffectiveTo}) {
			return &ConflictError{ExistingID: e.ID}
		}
	}
	return nil
}
