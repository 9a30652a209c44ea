package response

import (
	"time"

	"library-seating/internal/data/entity"
)

type ReservationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	SeatID    string    `json:"seat_id"`
	SeatName  string    `json:"seat_name,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`

	// DisplayStatus is the time-derived projection, never persisted.
	DisplayStatus string `json:"display_status"`

	CheckInTime  *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`

	TempReleaseTime       *time.Time `json:"temp_release_time,omitempty"`
	TempReleaseDuration   *int       `json:"temp_release_duration,omitempty"`
	TempReleaseReason     *string    `json:"temp_release_reason,omitempty"`
	TempReleaseExpiryTime *time.Time `json:"temp_release_expiry_time,omitempty"`

	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ReservationToResponse(res *entity.Reservation, seatName, displayStatus string) ReservationResponse {
	return ReservationResponse{
		ID:                    res.ID.String(),
		UserID:                res.UserID.String(),
		SeatID:                res.SeatID.String(),
		SeatName:              seatName,
		StartTime:             res.StartTime,
		EndTime:               res.EndTime,
		Status:                string(res.Status),
		DisplayStatus:         displayStatus,
		CheckInTime:           res.CheckInTime,
		CheckOutTime:          res.CheckOutTime,
		TempReleaseTime:       res.TempReleaseTime,
		TempReleaseDuration:   res.TempReleaseDuration,
		TempReleaseReason:     res.TempReleaseReason,
		TempReleaseExpiryTime: res.TempReleaseExpiryTime,
		Notes:                 res.Notes,
		CreatedAt:             res.CreatedAt,
		UpdatedAt:             res.UpdatedAt,
	}
}
