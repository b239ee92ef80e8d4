// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	userstore "github.com/dalemusser/coachhub/internal/app/store/users"
	"github.com/dalemusser/coachhub/internal/app/system/status"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := ensureSuperAdmin(ctx, deps, appCfg.SuperAdminLoginID, appCfg.SuperAdminName, logger); err != nil {
		return fmt.Errorf("admin bootstrap: %w", err)
	}
	return nil
}

// ensureSuperAdmin guarantees that the configured login ID belongs to an
// active admin account. A missing account is created with a generated
// one-time password, which is logged exactly once so the operator can
// sign in and change it.
func ensureSuperAdmin(ctx context.Context, deps DBDeps, loginID, fullName string, logger *zap.Logger) error {
	if loginID == "" {
		logger.Debug("no superadmin_login_id configured; skipping admin bootstrap")
		return nil
	}

	store := userstore.New(deps.CoachHubMongoDatabase)

	existing, err := store.GetByLoginID(ctx, loginID)
	switch {
	case err == nil:
		if existing.Role == models.RoleAdmin && existing.Status == status.Active {
			return nil
		}
		// Promote (and re-enable) the existing account.
		_, err := deps.CoachHubMongoDatabase.Collection("users").UpdateByID(ctx, existing.ID, bson.M{
			"$set": bson.M{
				"role":       models.RoleAdmin,
				"status":     status.Active,
				"updated_at": time.Now().UTC(),
			},
		})
		if err != nil {
			return err
		}
		logger.Info("promoted existing account to admin",
			zap.String("login_id", existing.LoginID))
		return nil

	case errors.Is(err, mongo.ErrNoDocuments):
		password := uuid.NewString()
		hash, err := userstore.HashPassword(password)
		if err != nil {
			return err
		}
		created, err := store.Create(ctx, models.User{
			FullName:     fullName,
			LoginID:      loginID,
			PasswordHash: hash,
			Role:         models.RoleAdmin,
			Status:       status.Active,
		})
		if err != nil {
			return err
		}
		// The only place this password is ever emitted.
		logger.Warn("created initial admin account; change this password after first sign-in",
			zap.String("login_id", created.LoginID),
			zap.String("one_time_password", password))
		return nil

	default:
		return err
	}
}
