package http

import (
	"net/http"

	"github.com/atelierlaine/reservation-service/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the storefront routes. Catalog reads are public; the
// reservation lifecycle requires authentication, and the admin transitions
// additionally require the admin role.
func NewRouter(h *Handler, jwtSecret string, log logger.Logger) *chi.Mux {
	mux := chi.NewRouter()

	mux.Use(chimiddleware.RequestID)
	mux.Use(chimiddleware.RealIP)
	mux.Use(chimiddleware.Recoverer)
	mux.Use(Authenticate(jwtSecret, log))

	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.Get("/api/creations", h.HandleListCreations)
	mux.Get("/api/creations/{id}", h.HandleGetCreation)

	mux.Group(func(r chi.Router) {
		r.Use(RequireAuth)

		r.Post("/api/creations/{id}/reserve", h.HandleReserveCreation)
		r.Get("/api/reservations", h.HandleListReservations)
		r.Post("/api/reservations/{id}/cancel", h.HandleCancelReservation)
	})

	mux.Group(func(r chi.Router) {
		r.Use(RequireAdmin)

		r.Post("/api/creations", h.HandleCreateCreation)
		r.Put("/api/creations/{id}", h.HandleUpdateCreation)
		r.Delete("/api/creations/{id}", h.HandleDeleteCreation)

		r.Get("/api/reservations/count", h.HandleCountReservations)
		r.Post("/api/reservations/{id}/validate", h.HandleValidateReservation)
		r.Delete("/api/reservations/{id}", h.HandleDeleteReservation)
	})

	return mux
}
