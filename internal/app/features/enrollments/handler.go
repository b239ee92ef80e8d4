// internal/app/features/enrollments/handler.go
package enrollments

import (
	assignmentstore "github.com/dalemusser/coachhub/internal/app/store/assignments"
	"github.com/dalemusser/coachhub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves enrollment administration.
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
