// internal/app/features/assignments/resolve.go
package assignments

import (
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/coachhub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/coachhub/internal/app/system/effrange"
	"github.com/dalemusser/coachhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// resolveResponse is the wire shape of a resolution query result. When no
// coach is in force, found is false and the other fields are omitted.
type resolveResponse struct {
	Found        bool   `json:"found"`
	CoachID      string `json:"coach_id,omitempty"`
	ScopeKind    string `json:"scope_kind,omitempty"`
	AssignmentID string `json:"assignment_id,omitempty"`
	AsOf         string `json:"as_of"`
}

// ServeResolve handles GET /resolve?enrollment_id=…&as_of=YYYY-MM-DD -
// answers "who coaches this enrollment on this date". as_of defaults to
// today (UTC).
func (h *Handler) ServeResolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	enrID, err := primitive.ObjectIDFromHex(strings.TrimSpace(q.Get("enrollment_id")))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "enrollment_id is required")
		return
	}

	asOf := effrange.Day(time.Now().UTC())
	if s := strings.TrimSpace(q.Get("as_of")); s != "" {
		asOf, err = parseDate(s)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "bad_request", "as_of must be YYYY-MM-DD")
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "assignment resolve")
	defer cancel()

	enr, err := h.Enrollments.GetByID(ctx, enrID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, http.StatusNotFound, "not_found", "enrollment not found")
		return
	}
	if err != nil {
		h.Log.Error("enrollment lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	res, found, err := h.Resolver.Resolve(ctx, enr, asOf)
	if err != nil {
		h.Log.Error("resolution failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal", "a database error occurred")
		return
	}

	resp := resolveResponse{Found: found, AsOf: asOf.Format(dateLayout)}
	if found {
		resp.CoachID = res.CoachID.Hex()
		resp.ScopeKind = string(res.ScopeKind)
		resp.AssignmentID = res.AssignmentID.Hex()
	}
	httpjson.Respond(w, http.StatusOK, resp)
}
