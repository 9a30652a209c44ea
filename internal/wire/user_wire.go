package wire

import (
	"library-seating/internal/adaptor"
	"library-seating/internal/data/repository"
	"library-seating/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// GET /api/user/profile - Own profile with violation count
		r.Get("/api/user/profile", userHandler.GetProfile)

		// GET /api/user/reservations - Own reservation history
		r.Get("/api/user/reservations", userHandler.GetReservations)

		// GET /api/user/violations - Own violation ledger entries
		r.Get("/api/user/violations", userHandler.GetViolations)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/users", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(repo.User, log))

		// GET /api/admin/users/{id}/violations - Any user's ledger entries
		r.Get("/{id}/violations", userHandler.GetUserViolations)

		// PUT /api/admin/users/{id}/ban and /unban - Manual ban management
		r.Put("/{id}/ban", userHandler.SetBanned(true))
		r.Put("/{id}/unban", userHandler.SetBanned(false))
	})
}
