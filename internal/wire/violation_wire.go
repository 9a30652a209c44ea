package wire

import (
	"library-seating/internal/adaptor"
	"library-seating/internal/data/repository"
	"library-seating/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireViolation(
	r chi.Router,
	violationHandler *adaptor.ViolationHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/violations", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(repo.User, log))

		// GET /api/admin/violations?unresolved=true - Ledger listing
		r.Get("/", violationHandler.GetAll)

		// POST /api/admin/violations - Manual ledger entry
		r.Post("/", violationHandler.Create)

		// PUT /api/admin/violations/{id}/resolve - Mark an entry handled
		r.Put("/{id}/resolve", violationHandler.Resolve)
	})
}
