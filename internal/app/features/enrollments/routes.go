// internal/app/features/enrollments/routes.go
package enrollments

import (
	"github.com/dalemusser/coachhub/internal/app/system/auth"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the enrollment admin routes (typically at "/api/enrollments").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin))

		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeGet)
		pr.Post("/", h.ServeCreate)
		pr.Put("/{id}/placement", h.ServeUpdatePlacement)
		pr.Put("/{id}/status", h.ServeUpdateStatus)
		pr.Delete("/{id}", h.ServeDelete)
	})

	return r
}
