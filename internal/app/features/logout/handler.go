// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/coachhub/internal/app/system/auditlog"
	"github.com/dalemusser/coachhub/internal/app/system/auth"
	"github.com/dalemusser/coachhub/internal/app/system/authz"
	"github.com/dalemusser/coachhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
	}
}

// ServeLogout handles POST / - ends the session.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	actor := authz.Actor(r)

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		// The deletion cookie was still written; log and carry on.
		h.Log.Warn("session sign-out failed", zap.Error(err))
	}

	if !actor.ID.IsZero() {
		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "logout audit")
		defer cancel()
		h.AuditLog.Logout(ctx, r, actor.ID)
	}

	w.WriteHeader(http.StatusNoContent)
}
