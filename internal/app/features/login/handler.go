// internal/app/features/login/handler.go
package login

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in

import (
	"errors"
	"net/http"

	"github.com/dalemusser/coachhub/internal/app/features/shared/httpjson"
	userstore "github.com/dalemusser/coachhub/internal/app/store/users"
	"github.com/dalemusser/coachhub/internal/app/system/auditlog"
	"github.com/dalemusser/coachhub/internal/app/system/auth"
	"github.com/dalemusser/coachhub/internal/app/system/normalize"
	"github.com/dalemusser/coachhub/internal/app/system/status"
	"github.com/dalemusser/coachhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
	}
}

type loginRequest struct {
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LoginID string `json:"login_id"`
	Role    string `json:"role"`
}

// ServeLogin handles POST / - password sign-in. Unknown login IDs and wrong
// passwords get the same response so accounts cannot be probed.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if req.LoginID == "" || req.Password == "" {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "login_id and password are required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	user, err := userstore.New(h.DB).GetByLoginID(ctx, req.LoginID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.AuditLog.LoginFailedUserNotFound(ctx, r, req.LoginID)
			httpjson.Error(w, http.StatusUnauthorized, "invalid_credentials", "login ID or password is incorrect")
			return
		}
		h.Log.Error("login lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	if !userstore.CheckPassword(user.PasswordHash, req.Password) {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, user.ID, user.LoginID)
		httpjson.Error(w, http.StatusUnauthorized, "invalid_credentials", "login ID or password is incorrect")
		return
	}

	if normalize.Status(user.Status) == status.Disabled {
		h.AuditLog.LoginFailedUserDisabled(ctx, r, user.ID, user.LoginID)
		httpjson.Error(w, http.StatusForbidden, "account_disabled", "this account is disabled")
		return
	}

	sessionUser := &auth.SessionUser{
		ID:      user.ID.Hex(),
		Name:    user.FullName,
		LoginID: user.LoginID,
		Role:    user.Role,
	}
	if err := h.SessionMgr.SignIn(w, r, sessionUser); err != nil {
		h.Log.Error("session sign-in failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "could not establish a session")
		return
	}

	h.AuditLog.LoginSuccess(ctx, r, user.ID, user.LoginID)
	httpjson.Respond(w, http.StatusOK, loginResponse{
		ID:      user.ID.Hex(),
		Name:    user.FullName,
		LoginID: user.LoginID,
		Role:    user.Role,
	})
}
