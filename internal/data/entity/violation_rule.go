package entity

import "time"

type RuleSeverity string

const (
	SeverityLow    RuleSeverity = "low"
	SeverityMedium RuleSeverity = "medium"
	SeverityHigh   RuleSeverity = "high"
)

// Rule IDs are stable slugs, not UUIDs, so the detector can switch on them.
const (
	RuleNoShow                = "no_show_15min"
	RuleOverstay              = "overstay_30min"
	RuleLateCheckIn           = "late_checkin_10min"
	RuleFrequentCancellation  = "frequent_cancellation"
	RuleUnauthorizedExtension = "unauthorized_extension"
)

type ViolationRule struct {
	ID          string       `db:"id"`
	Name        string       `db:"name"`
	Description string       `db:"description"`
	Enabled     bool         `db:"enabled"`
	Severity    RuleSeverity `db:"severity"`
	AutoResolve bool         `db:"auto_resolve"`
	SortOrder   int          `db:"sort_order"`
	UpdatedAt   time.Time    `db:"updated_at"`
}
