// internal/app/features/assignments/handler.go
package assignments

import (
	assignmentstore "github.com/dalemusser/coachhub/internal/app/store/assignments"
	enrollmentstore "github.com/dalemusser/coachhub/internal/app/store/enrollments"
	"github.com/dalemusser/coachhub/internal/app/system/resolve"
	"github.com/dalemusser/coachhub/internal/app/system/scopereg"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for coach assignments.
//
// Unlike most features it holds its stores rather than constructing them per
// request: the assignment store carries the per-scope write locks and must be
// a process singleton.
type Handler struct {
	DB          *mongo.Database
	Log         *zap.Logger
	Store       *assignmentstore.Store
	Enrollments *enrollmentstore.Store
	Registry    *scopereg.Registry
	Resolver    *resolve.Resolver
}

// NewHandler constructs an assignments handler over the shared store.
func NewHandler(db *mongo.Database, store *assignmentstore.Store, registry *scopereg.Registry, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Log:         logger,
		Store:       store,
		Enrollments: enrollmentstore.New(db),
		Registry:    registry,
		Resolver:    resolve.New(store),
	}
}
