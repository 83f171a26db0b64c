package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/giannis84/favorites-admin/internal/database"
	"github.com/giannis84/favorites-admin/internal/logging"
)

// RegisterHealthRoutes creates the health check endpoints.
func RegisterHealthRoutes(repo database.FavoritesRepository) func(r chi.Router) {
	return func(r chi.Router) {
		r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
			if err := repo.Ping(r.Context()); err != nil {
				logging.Log(r.Context()).Layer("routes").Op("ready").Err(err).Warn("favorites store not ready")
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("database not ready"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Ready"))
		})
	}
}
