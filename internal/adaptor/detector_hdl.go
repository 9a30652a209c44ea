package adaptor

import (
	"encoding/json"
	"net/http"
	"time"

	"library-seating/internal/dto/request"
	"library-seating/internal/usecase"
	"library-seating/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type DetectorHandler struct {
	service usecase.DetectorService
	log     *zap.Logger
}

func NewDetectorHandler(service usecase.DetectorService, log *zap.Logger) *DetectorHandler {
	return &DetectorHandler{
		service: service,
		log:     log.With(zap.String("handler", "detector")),
	}
}

// Status handles GET /api/admin/detector/status (admin only)
func (h *DetectorHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get detector status")
		return
	}

	utils.ResponseSuccess(w, "success", status)
}

// Start handles POST /api/admin/detector/start (admin only)
func (h *DetectorHandler) Start(w http.ResponseWriter, r *http.Request) {
	// Body is optional; no body keeps the configured interval.
	var req request.StartDetectorRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.ResponseBadRequest(w, "Invalid request body", nil)
			return
		}
		if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
			utils.ResponseBadRequest(w, "Validation failed", validationErrors)
			return
		}
	}

	interval := time.Duration(req.IntervalMs) * time.Millisecond
	if err := h.service.Start(r.Context(), interval); err != nil {
		handleServiceError(w, h.log, err, "start detector")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// Stop handles POST /api/admin/detector/stop (admin only)
func (h *DetectorHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Stop(r.Context()); err != nil {
		handleServiceError(w, h.log, err, "stop detector")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// Sweep handles POST /api/admin/detector/sweep (admin only)
func (h *DetectorHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	created, err := h.service.RunSweep(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "run sweep")
		return
	}

	utils.ResponseSuccess(w, "success", map[string]int{"violations_created": created})
}

// GetRules handles GET /api/admin/detector/rules (admin only)
func (h *DetectorHandler) GetRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.service.GetRules(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get rules")
		return
	}

	utils.ResponseSuccess(w, "success", rules)
}

// UpdateRule handles PUT /api/admin/detector/rules/{id} (admin only)
func (h *DetectorHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	ruleID := chi.URLParam(r, "id")
	if ruleID == "" {
		utils.ResponseBadRequest(w, "Rule ID is required", nil)
		return
	}

	var req request.UpdateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	rule, err := h.service.UpdateRule(r.Context(), ruleID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update rule")
		return
	}

	utils.ResponseSuccess(w, "success", rule)
}
