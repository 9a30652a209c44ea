package request

import "time"

type CreateReservationRequest struct {
	SeatID    string    `json:"seat_id" validate:"required,uuid4"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	Notes     *string   `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// CheckInRequest carries the reported coordinates for location verification.
type CheckInRequest struct {
	Latitude  float64 `json:"latitude" validate:"required,latitude"`
	Longitude float64 `json:"longitude" validate:"required,longitude"`
}

type TempReleaseRequest struct {
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=5,max=120"`
	Reason          string `json:"reason" validate:"required,max=200"`
}
