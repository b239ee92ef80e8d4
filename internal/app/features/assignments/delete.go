// internal/app/features/assignments/delete.go
package assignments

import (
	"net/http"

	"github.com/dalemusser/coachhub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/coachhub/internal/app/system/authz"
	"github.com/dalemusser/coachhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeDelete handles DELETE /{id} - hard-deletes an assignment. The audit
// log is the record of what was removed.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad_request", "invalid assignment id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "assignment delete")
	defer cancel()

	if err := h.Store.Delete(ctx, id, authz.Actor(r)); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
