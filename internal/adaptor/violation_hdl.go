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

type ViolationHandler struct {
	service usecase.ViolationService
	log     *zap.Logger
}

func NewViolationHandler(service usecase.ViolationService, log *zap.Logger) *ViolationHandler {
	return &ViolationHandler{
		service: service,
		log:     log.With(zap.String("handler", "violation")),
	}
}

// GetAll handles GET /api/admin/violations (admin only)
func (h *ViolationHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("unresolved") == "true" {
		violations, err := h.service.GetUnresolved(r.Context())
		if err != nil {
			handleServiceError(w, h.log, err, "get unresolved violations")
			return
		}
		utils.ResponseSuccess(w, "success", violations)
		return
	}

	violations, err := h.service.GetAll(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get violations")
		return
	}

	utils.ResponseSuccess(w, "success", violations)
}

// Create handles POST /api/admin/violations (admin only)
func (h *ViolationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateViolationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	violation, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create violation")
		return
	}

	utils.ResponseCreated(w, "success", violation)
}

// Resolve handles PUT /api/admin/violations/{id}/resolve (admin only)
func (h *ViolationHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	resolverID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	violationID := chi.URLParam(r, "id")
	if violationID == "" {
		utils.ResponseBadRequest(w, "Violation ID is required", nil)
		return
	}

	if err := h.service.Resolve(r.Context(), violationID, resolverID.String()); err != nil {
		handleServiceError(w, h.log, err, "resolve violation")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
