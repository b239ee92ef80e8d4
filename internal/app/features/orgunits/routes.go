// internal/app/features/orgunits/routes.go
package orgunits

import (
	"github.com/dalemusser/coachhub/internal/app/system/auth"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts center and team admin routes (typically at "/api/orgunits").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin))

		pr.Route("/centers", func(cr chi.Router) {
			cr.Get("/", h.ServeListCenters)
			cr.Get("/{id}", h.ServeGetCenter)
			cr.Post("/", h.ServeCreateCenter)
			cr.Put("/{id}", h.ServeUpdateCenter)
			cr.Delete("/{id}", h.ServeDeleteCenter)
		})

		pr.Route("/teams", func(tr chi.Router) {
			tr.Get("/", h.ServeListTeams)
			tr.Get("/{id}", h.ServeGetTeam)
			tr.Post("/", h.ServeCreateTeam)
			tr.Put("/{id}", h.ServeUpdateTeam)
			tr.Delete("/{id}", h.ServeDeleteTeam)
		})
	})

	return r
}
