package adaptor

import (
	"encoding/json"
	"net/http"

	"library-seating/internal/dto/request"
	"library-seating/internal/usecase"
	"library-seating/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SeatHandler struct {
	service usecase.SeatService
	log     *zap.Logger
}

func NewSeatHandler(service usecase.SeatService, log *zap.Logger) *SeatHandler {
	return &SeatHandler{
		service: service,
		log:     log.With(zap.String("handler", "seat")),
	}
}

// GetAreas handles GET /api/areas (public)
func (h *SeatHandler) GetAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.service.GetAreas(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get areas")
		return
	}

	utils.ResponseSuccess(w, "success", areas)
}

// GetSeatsByArea handles GET /api/areas/{id}/seats (public)
func (h *SeatHandler) GetSeatsByArea(w http.ResponseWriter, r *http.Request) {
	areaID := chi.URLParam(r, "id")
	if areaID == "" {
		utils.ResponseBadRequest(w, "Area ID is required", nil)
		return
	}

	seats, err := h.service.GetSeatsByArea(r.Context(), areaID)
	if err != nil {
		handleServiceError(w, h.log, err, "get seats by area")
		return
	}

	utils.ResponseSuccess(w, "success", seats)
}

// GetSeatsByStatus handles GET /api/seats?status=available (public)
func (h *SeatHandler) GetSeatsByStatus(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = "available"
	}

	seats, err := h.service.GetSeatsByStatus(r.Context(), status)
	if err != nil {
		handleServiceError(w, h.log, err, "get seats by status")
		return
	}

	utils.ResponseSuccess(w, "success", seats)
}

// ==================== ADMIN METHODS ====================

// CreateArea handles POST /api/admin/areas (admin only)
func (h *SeatHandler) CreateArea(w http.ResponseWriter, r *http.Request) {
	var req request.CreateAreaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	area, err := h.service.CreateArea(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create area")
		return
	}

	utils.ResponseCreated(w, "success", area)
}

// CreateSeat handles POST /api/admin/seats (admin only)
func (h *SeatHandler) CreateSeat(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	seat, err := h.service.CreateSeat(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create seat")
		return
	}

	utils.ResponseCreated(w, "success", seat)
}

// UpdateSeatStatus handles PUT /api/admin/seats/{id}/status (admin only)
func (h *SeatHandler) UpdateSeatStatus(w http.ResponseWriter, r *http.Request) {
	seatID := chi.URLParam(r, "id")
	if seatID == "" {
		utils.ResponseBadRequest(w, "Seat ID is required", nil)
		return
	}

	var req request.UpdateSeatStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.UpdateSeatStatus(r.Context(), seatID, &req); err != nil {
		handleServiceError(w, h.log, err, "update seat status")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
