package adaptor

import (
	"net/http"

	"library-seating/internal/dto/request"
	"library-seating/internal/usecase"
	"library-seating/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	users        usecase.UserService
	reservations usecase.ReservationService
	violations   usecase.ViolationService
	log          *zap.Logger
}

func NewUserHandler(users usecase.UserService, reservations usecase.ReservationService, violations usecase.ViolationService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		users:        users,
		reservations: reservations,
		violations:   violations,
		log:          log.With(zap.String("handler", "user")),
	}
}

// GetProfile handles GET /api/user/profile (protected)
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.users.GetProfile(r.Context(), userID.String())
	if err != nil {
		handleServiceError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "success", profile)
}

// GetReservations handles GET /api/user/reservations (protected)
func (h *UserHandler) GetReservations(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	reservations, err := h.reservations.GetUserReservations(r.Context(), userID.String(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get user reservations")
		return
	}

	utils.ResponseSuccess(w, "success", reservations)
}

// GetViolations handles GET /api/user/violations (protected)
func (h *UserHandler) GetViolations(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	violations, err := h.violations.GetByUser(r.Context(), userID.String())
	if err != nil {
		handleServiceError(w, h.log, err, "get user violations")
		return
	}

	utils.ResponseSuccess(w, "success", violations)
}

// SetBanned handles PUT /api/admin/users/{id}/ban and .../unban (admin only)
func (h *UserHandler) SetBanned(banned bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")
		if userID == "" {
			utils.ResponseBadRequest(w, "User ID is required", nil)
			return
		}

		if err := h.users.SetBanned(r.Context(), userID, banned); err != nil {
			handleServiceError(w, h.log, err, "set ban state")
			return
		}

		utils.ResponseSuccess(w, "success", nil)
	}
}

// GetUserViolations handles GET /api/admin/users/{id}/violations (admin only)
func (h *UserHandler) GetUserViolations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		utils.ResponseBadRequest(w, "User ID is required", nil)
		return
	}

	violations, err := h.violations.GetByUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get user violations")
		return
	}

	utils.ResponseSuccess(w, "success", violations)
}
