package entity

import (
	"time"

	"github.com/google/uuid"
)

type ViolationType string

const (
	ViolationNoShow                ViolationType = "no_show"
	ViolationOverstay              ViolationType = "overstay"
	ViolationLateCheckIn           ViolationType = "late_checkin"
	ViolationFrequentCancellation  ViolationType = "frequent_cancellation"
	ViolationUnauthorizedExtension ViolationType = "unauthorized_extension"
	ViolationManual                ViolationType = "manual"
)

// Violation is append-only: rows are created by the detector or an admin and
// mutated only by resolution.
type Violation struct {
	BaseSimple
	UserID        uuid.UUID     `db:"user_id"`
	ReservationID *uuid.UUID    `db:"reservation_id"`
	Type          ViolationType `db:"type"`
	Description   string        `db:"description"`
	Penalty       string        `db:"penalty"`
	IsResolved    bool          `db:"is_resolved"`
	ResolvedAt    *time.Time    `db:"resolved_at"`
	ResolvedBy    *uuid.UUID    `db:"resolved_by"`
}
