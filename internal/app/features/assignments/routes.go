// internal/app/features/assignments/routes.go
package assignments

import (
	"github.com/dalemusser/coachhub/internal/app/system/auth"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the assignment routes under the path where this router is
// mounted (typically "/api/assignments" from bootstrap).
//
// Reads are open to admins and coaches; writes are admin-only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin, models.RoleCoach))

		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeGet)
		pr.Get("/resolve", h.ServeResolve)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin))

		pr.Post("/", h.ServeCreate)
		pr.Post("/{id}/close", h.ServeClose)
		pr.Delete("/{id}", h.ServeDelete)
	})

	return r
}
