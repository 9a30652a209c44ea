package wire

import (
	"net/http"

	"library-seating/internal/adaptor"
	"library-seating/internal/data/repository"
	"library-seating/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReservation(
	r chi.Router,
	reservationHandler *adaptor.ReservationHandler,
	repo *repository.Repository,
	limiter func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Route("/api/reservations", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(limiter)

		// POST /api/reservations - Book a seat
		r.Post("/", reservationHandler.Create)

		// GET /api/reservations/{id} - Reservation details (owner or admin)
		r.Get("/{id}", reservationHandler.GetByID)

		// Lifecycle transitions
		r.Put("/{id}/checkin", reservationHandler.CheckIn)
		r.Put("/{id}/checkout", reservationHandler.CheckOut)
		r.Put("/{id}/temp-release", reservationHandler.TempRelease)
		r.Put("/{id}/resume", reservationHandler.Resume)
		r.Put("/{id}/cancel", reservationHandler.Cancel)
	})
}
