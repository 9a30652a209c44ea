package wire

import (
	"library-seating/internal/adaptor"
	"library-seating/internal/data/repository"
	"library-seating/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireDetector(
	r chi.Router,
	detectorHandler *adaptor.DetectorHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/detector", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Get("/status", detectorHandler.Status)
		r.Post("/start", detectorHandler.Start)
		r.Post("/stop", detectorHandler.Stop)
		r.Post("/sweep", detectorHandler.Sweep)

		r.Get("/rules", detectorHandler.GetRules)
		r.Put("/rules/{id}", detectorHandler.UpdateRule)
	})
}
