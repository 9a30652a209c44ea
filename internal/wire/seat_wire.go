package wire

import (
	"library-seating/internal/adaptor"
	"library-seating/internal/data/repository"
	"library-seating/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSeat(
	r chi.Router,
	seatHandler *adaptor.SeatHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/areas - List active library areas
	r.Get("/api/areas", seatHandler.GetAreas)

	// GET /api/areas/{id}/seats - List seats in an area
	r.Get("/api/areas/{id}/seats", seatHandler.GetSeatsByArea)

	// GET /api/seats?status=available - Filter seats by registry status
	r.Get("/api/seats", seatHandler.GetSeatsByStatus)

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(repo.User, log))

		// POST /api/admin/areas - Register a new area
		r.Post("/api/admin/areas", seatHandler.CreateArea)

		// POST /api/admin/seats - Register a new seat
		r.Post("/api/admin/seats", seatHandler.CreateSeat)

		// PUT /api/admin/seats/{id}/status - Manual status override
		r.Put("/api/admin/seats/{id}/status", seatHandler.UpdateSeatStatus)
	})
}
