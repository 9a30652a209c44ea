package request

type CreateAreaRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Floor       int    `json:"floor" validate:"required,min=1"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

type CreateSeatRequest struct {
	AreaID       string   `json:"area_id" validate:"required,uuid4"`
	SeatNumber   string   `json:"seat_number" validate:"required,min=1,max=20"`
	Floor        int      `json:"floor" validate:"required,min=1"`
	Row          int      `json:"row" validate:"required,min=1"`
	Column       int      `json:"column" validate:"required,min=1"`
	Features     []string `json:"features,omitempty" validate:"omitempty,dive,oneof=power window quiet computer"`
	IsReservable *bool    `json:"is_reservable,omitempty"`
}

// UpdateSeatStatusRequest is the admin override, used for maintenance and
// manual corrections.
type UpdateSeatStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available occupied reserved maintenance temporarily_released"`
}
