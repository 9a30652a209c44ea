package request

type CreateViolationRequest struct {
	UserID        string  `json:"user_id" validate:"required,uuid4"`
	ReservationID *string `json:"reservation_id,omitempty" validate:"omitempty,uuid4"`
	Type          string  `json:"type" validate:"required,oneof=no_show overstay late_checkin frequent_cancellation unauthorized_extension manual"`
	Description   string  `json:"description" validate:"required,max=500"`
	Penalty       string  `json:"penalty" validate:"required,max=200"`
}

// UpdateRuleRequest patches a violation rule; nil fields are left unchanged.
type UpdateRuleRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Enabled     *bool   `json:"enabled,omitempty"`
	Severity    *string `json:"severity,omitempty" validate:"omitempty,oneof=low medium high"`
	AutoResolve *bool   `json:"auto_resolve,omitempty"`
}

type StartDetectorRequest struct {
	IntervalMs int `json:"interval_ms" validate:"omitempty,min=1000"`
}
