// internal/app/features/cohorts/handler.go
package cohorts

import (
	assignmentstore "github.com/dalemusser/coachhub/internal/app/store/assignments"
	"github.com/dalemusser/coachhub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves cohort administration. Cohort stores are stateless and
// constructed per request; the assignment store is shared because it owns
// the per-scope write locks and is needed for the delete cascade.
type Handler struct {
	DB          *mongo.Database
	Log         *zap.Logger
	Audit       *auditlog.Logger
	Assignments *assignmentstore.Store
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, assignments *assignmentstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Log:         logger,
		Audit:       audit,
		Assignments: assignments,
	}
}
