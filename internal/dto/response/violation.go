package response

import (
	"time"

	"library-seating/internal/data/entity"
)

type ViolationResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	ReservationID *string    `json:"reservation_id,omitempty"`
	Type          string     `json:"type"`
	Description   string     `json:"description"`
	Penalty       string     `json:"penalty"`
	IsResolved    bool       `json:"is_resolved"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy    *string    `json:"resolved_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func ViolationToResponse(v *entity.Violation) ViolationResponse {
	resp := ViolationResponse{
		ID:          v.ID.String(),
		UserID:      v.UserID.String(),
		Type:        string(v.Type),
		Description: v.Description,
		Penalty:     v.Penalty,
		IsResolved:  v.IsResolved,
		ResolvedAt:  v.ResolvedAt,
		CreatedAt:   v.CreatedAt,
	}
	if v.ReservationID != nil {
		id := v.ReservationID.String()
		resp.ReservationID = &id
	}
	if v.ResolvedBy != nil {
		id := v.ResolvedBy.String()
		resp.ResolvedBy = &id
	}
	return resp
}

type RuleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Enabled     bool      `json:"enabled"`
	Severity    string    `json:"severity"`
	AutoResolve bool      `json:"auto_resolve"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func RuleToResponse(rule *entity.ViolationRule) RuleResponse {
	return RuleResponse{
		ID:          rule.ID,
		Name:        rule.Name,
		Description: rule.Description,
		Enabled:     rule.Enabled,
		Severity:    string(rule.Severity),
		AutoResolve: rule.AutoResolve,
		UpdatedAt:   rule.UpdatedAt,
	}
}

type DetectorStatusResponse struct {
	IsRunning         bool   `json:"is_running"`
	IntervalMs        int64  `json:"interval_ms"`
	RulesCount        int    `json:"rules_count"`
	EnabledRulesCount int    `json:"enabled_rules_count"`
	LastSweepAt       string `json:"last_sweep_at,omitempty"`
}
