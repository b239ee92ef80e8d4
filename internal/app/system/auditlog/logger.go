// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net"
	"net/http"

	"github.com/dalemusser/coachhub/internal/app/store/audit"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for admin mutations (cohort/org-unit/enrollment
	// CRUD and coach assignment changes). Same values as Auth.
	Admin string
}

// Logger is the change notifier: every successful mutation in the stores and
// handlers reports here, and the event fans out to MongoDB (audit.Store) and
// structured logs (zap) per Config.
//
// A nil *Logger is a valid no-op notifier; the audit sink is an optional
// collaborator, and its absence or failure must never affect the mutation
// being described.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// clientIP extracts the client IP from the request, preferring proxy headers
// and falling back to RemoteAddr with the port stripped.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}

	if event.CohortID != nil {
		fields = append(fields, zap.String("cohort_id", event.CohortID.Hex()))
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	if event.Summary != "" {
		fields = append(fields, zap.String("summary", event.Summary))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration. If the logger is nil,
// this is a no-op. A storage failure is reported to zap and swallowed: the
// mutation is the source of truth and the audit event is a side channel.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, loginID string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"login_id": loginID},
	})
}

// LoginFailedUserNotFound logs a failed login due to user not found.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedLoginID string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserNotFound,
		IP:            clientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "user not found",
		Details:       map[string]string{"attempted_login_id": attemptedLoginID},
	})
}

// LoginFailedWrongPassword logs a failed login due to wrong password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, loginID string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongPassword,
		UserID:        &userID,
		IP:            clientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "wrong password",
		Details:       map[string]string{"login_id": loginID},
	})
}

// LoginFailedUserDisabled logs a failed login due to a disabled account.
func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, userID primitive.ObjectID, loginID string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserDisabled,
		UserID:        &userID,
		IP:            clientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "user disabled",
		Details:       map[string]string{"login_id": loginID},
	})
}

// Logout logs a logout.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		UserID:    &userID,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// --- Admin events ---

// AdminAction logs a generic successful admin mutation. cohortID may be nil
// for entities that live outside a cohort (cohort groups, users).
func (l *Logger) AdminAction(ctx context.Context, eventType string, cohortID *primitive.ObjectID, actor models.Actor, summary string, details map[string]string) {
	e := audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		CohortID:  cohortID,
		Success:   true,
		Summary:   summary,
		Details:   details,
	}
	if !actor.ID.IsZero() {
		id := actor.ID
		e.ActorID = &id
		if e.Details == nil {
			e.Details = map[string]string{}
		}
		e.Details["actor_name"] = actor.Name
	}
	l.Log(ctx, e)
}

// --- Coach assignment events (assignmentstore.Notifier) ---

// AssignmentCreated reports a newly persisted coach assignment.
func (l *Logger) AssignmentCreated(ctx context.Context, a models.CoachAssignment, actor models.Actor) {
	l.assignmentEvent(ctx, audit.EventAssignmentCreated, a, actor,
		"assigned coach to "+a.Scope().FallbackLabel())
}

// AssignmentClosed reports that an assignment's effective range was ended.
func (l *Logger) AssignmentClosed(ctx context.Context, a models.CoachAssignment, actor models.Actor) {
	l.assignmentEvent(ctx, audit.EventAssignmentRangeClosed, a, actor,
		"closed coach assignment for "+a.Scope().FallbackLabel())
}

// AssignmentDeleted reports a hard delete.
func (l *Logger) AssignmentDeleted(ctx context.Context, a models.CoachAssignment, actor models.Actor) {
	l.assignmentEvent(ctx, audit.EventAssignmentDeleted, a, actor,
		"deleted coach assignment for "+a.Scope().FallbackLabel())
}

func (l *Logger) assignmentEvent(ctx context.Context, eventType string, a models.CoachAssignment, actor models.Actor, summary string) {
	if l == nil {
		return
	}
	to := "open"
	if a.EffectiveTo != nil {
		to = a.EffectiveTo.Format("2006-01-02")
	}
	cohortID := a.CohortID
	details := map[string]string{
		"assignment_id":  a.ID.Hex(),
		"coach_id":       a.CoachID.Hex(),
		"scope_kind":     string(a.ScopeKind),
		"scope_id":       a.ScopeID.Hex(),
		"effective_from": a.EffectiveFrom.Format("2006-01-02"),
		"effective_to":   to,
	}
	l.AdminAction(ctx, eventType, &cohortID, actor, summary, details)
}
