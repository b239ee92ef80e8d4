// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	assignmentsfeature "github.com/dalemusser/coachhub/internal/app/features/assignments"
	auditlogfeature "github.com/dalemusser/coachhub/internal/app/features/auditlog"
	cohortgroupsfeature "github.com/dalemusser/coachhub/internal/app/features/cohortgroups"
	cohortsfeature "github.com/dalemusser/coachhub/internal/app/features/cohorts"
	enrollmentsfeature "github.com/dalemusser/coachhub/internal/app/features/enrollments"
	healthfeature "github.com/dalemusser/coachhub/internal/app/features/health"
	loginfeature "github.com/dalemusser/coachhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/coachhub/internal/app/features/logout"
	orgunitsfeature "github.com/dalemusser/coachhub/internal/app/features/orgunits"
	usersfeature "github.com/dalemusser/coachhub/internal/app/features/users"
	assignmentstore "github.com/dalemusser/coachhub/internal/app/store/assignments"
	"github.com/dalemusser/coachhub/internal/app/store/audit"
	"github.com/dalemusser/coachhub/internal/app/system/auditlog"
	"github.com/dalemusser/coachhub/internal/app/system/auth"
	"github.com/dalemusser/coachhub/internal/app/system/scopereg"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// CoachHub exposes a JSON API. Every feature mounts its own router under
// /api; the assignment store is built once here because it owns the
// per-scope write locks that serialize conflicting assignment creates.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.CoachHubMongoDatabase

	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// One audit pipeline shared by every feature. Sinks are configurable
	// per event category (db, log, both, or off).
	auditor := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	// The assignment store must be a process singleton: it serializes
	// writes per (cohort, scope kind, scope id) triple. It notifies the
	// auditor about every successful mutation.
	registry := scopereg.New(db, logger)
	assignments := assignmentstore.New(db, registry, auditor, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.CoachHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(db, sessionMgr, auditor, logger)
	r.Mount("/api/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditor, logger)
	r.Mount("/api/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Cohort structure
	cohortsHandler := cohortsfeature.NewHandler(db, auditor, assignments, logger)
	r.Mount("/api/cohorts", cohortsfeature.Routes(cohortsHandler, sessionMgr))

	groupsHandler := cohortgroupsfeature.NewHandler(db, auditor, logger)
	r.Mount("/api/cohort-groups", cohortgroupsfeature.Routes(groupsHandler, sessionMgr))

	orgunitsHandler := orgunitsfeature.NewHandler(db, auditor, assignments, logger)
	r.Mount("/api/orgunits", orgunitsfeature.Routes(orgunitsHandler, sessionMgr))

	enrollmentsHandler := enrollmentsfeature.NewHandler(db, auditor, assignments, logger)
	r.Mount("/api/enrollments", enrollmentsfeature.Routes(enrollmentsHandler, sessionMgr))

	// Coach assignments and resolution
	assignmentsHandler := assignmentsfeature.NewHandler(db, assignments, registry, logger)
	r.Mount("/api/assignments", assignmentsfeature.Routes(assignmentsHandler, sessionMgr))

	// Account management
	usersHandler := usersfeature.NewHandler(db, auditor, assignments, logger)
	r.Mount("/api/users", usersfeature.Routes(usersHandler, sessionMgr))

	// Audit trail
	auditlogHandler := auditlogfeature.NewHandler(db, logger)
	r.Mount("/api/auditlog", auditlogfeature.Routes(auditlogHandler, sessionMgr))

	return r, nil
}
