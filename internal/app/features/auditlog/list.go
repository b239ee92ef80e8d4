// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/coachhub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/coachhub/internal/app/store/audit"
	"github.com/dalemusser/coachhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// ServeList handles GET / - returns audit events matching the query
// filters, newest first, with a total count for paging.
//
// Filters: cohort_id, actor_id, user_id, category, event_type,
// start (YYYY-MM-DD, inclusive), end (YYYY-MM-DD, inclusive),
// limit (default 50, max 200), offset.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	q := r.URL.Query()

	filter := audit.QueryFilter{
		Category:  strings.TrimSpace(q.Get("category")),
		EventType: strings.TrimSpace(q.Get("event_type")),
		Limit:     defaultLimit,
	}

	for field, dst := range map[string]**primitive.ObjectID{
		"cohort_id": &filter.CohortID,
		"actor_id":  &filter.ActorID,
		"user_id":   &filter.UserID,
	} {
		raw := strings.TrimSpace(q.Get(field))
		if raw == "" {
			continue
		}
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "Invalid filter.", field, "must be a valid id")
			return
		}
		*dst = &id
	}

	if raw := strings.TrimSpace(q.Get("start")); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "Invalid filter.", "start", "must be YYYY-MM-DD")
			return
		}
		filter.StartTime = &t
	}
	if raw := strings.TrimSpace(q.Get("end")); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "Invalid filter.", "end", "must be YYYY-MM-DD")
			return
		}
		// Inclusive through the end of the named day.
		endOfDay := t.Add(24*time.Hour - time.Second)
		filter.EndTime = &endOfDay
	}

	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			if n > maxLimit {
				n = maxLimit
			}
			filter.Limit = n
		}
	}
	if raw := q.Get("offset"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			filter.Offset = n
		}
	}

	store := audit.New(h.DB)

	events, err := store.Query(ctx, filter)
	if err != nil {
		h.Log.Error("audit log query failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "Something went wrong.")
		return
	}
	total, err := store.CountByFilter(ctx, filter)
	if err != nil {
		h.Log.Error("audit log count failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "Something went wrong.")
		return
	}

	views := make([]eventView, 0, len(events))
	for _, e := range events {
		views = append(views, toView(e))
	}

	httpjson.Respond(w, http.StatusOK, map[string]any{
		"events": views,
		"total":  total,
	})
}
