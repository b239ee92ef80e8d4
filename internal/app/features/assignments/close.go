// internal/app/features/assignments/close.go
package assignments

import (
	"net/http"

	"github.com/dalemusser/coachhub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/coachhub/internal/app/system/authz"
	"github.com/dalemusser/coachhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeClose handles POST /{id}/close - ends an assignment's effective range
// so a replacement can be created. Reassignment is always close-then-create.
func (h *Handler) ServeClose(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "invalid assignment id")
		return
	}

	var req closeRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	to, err := parseDate(req.EffectiveTo)
	if err != nil {
		httpjson.FieldError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid close date", "effective_to", "must be YYYY-MM-DD")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "assignment close")
	defer cancel()

	closed, err := h.Store.CloseRange(ctx, id, to, authz.Actor(r))
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	label := h.Registry.LabelFor(ctx, closed.Scope())
	httpjson.Respond(w, http.StatusOK, toView(closed, label))
}
