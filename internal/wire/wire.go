// internal/wire/wire.go
package wire

import (
	"fmt"
	"net/http"

	"library-seating/internal/adaptor"
	"library-seating/internal/data/repository"
	"library-seating/internal/location"
	"library-seating/internal/usecase"
	"library-seating/pkg/middleware"
	"library-seating/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the wired dependencies.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring initializes all dependencies.
func Wiring(repo *repository.Repository, rdb *redis.Client, config *utils.Config, logger *zap.Logger) (*App, error) {
	zones, err := location.ParseZones(config.Location.Zones)
	if err != nil {
		return nil, fmt.Errorf("parse location zones: %w", err)
	}
	verifier := location.NewZoneVerifier(zones)

	service := usecase.NewService(repo, verifier, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, rdb, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}, nil
}

// setupRouter configures the Chi router.
func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	rdb *redis.Client,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Lifecycle endpoints share one fixed-window rate limit.
	limiter := middleware.RateLimit(rdb, config.Redis.RateLimit, config.Redis.RateLimitWindow, logger)

	// Apply routes
	wireAuth(r, handler.Auth, repo, logger)
	wireUser(r, handler.User, repo, logger)
	wireSeat(r, handler.Seat, repo, logger)
	wireReservation(r, handler.Reservation, repo, limiter, logger)
	wireViolation(r, handler.Violation, repo, logger)
	wireDetector(r, handler.Detector, repo, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
