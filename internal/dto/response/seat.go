package response

import (
	"time"

	"library-seating/internal/data/entity"
)

type AreaResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Floor       int    `json:"floor"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

func AreaToResponse(area *entity.Area) AreaResponse {
	return AreaResponse{
		ID:          area.ID.String(),
		Name:        area.Name,
		Floor:       area.Floor,
		Description: area.Description,
		IsActive:    area.IsActive,
	}
}

type SeatResponse struct {
	ID           string    `json:"id"`
	AreaID       string    `json:"area_id"`
	SeatNumber   string    `json:"seat_number"`
	Floor        int       `json:"floor"`
	Row          int       `json:"row"`
	Column       int       `json:"column"`
	Status       string    `json:"status"`
	Features     []string  `json:"features"`
	IsReservable bool      `json:"is_reservable"`
	CreatedAt    time.Time `json:"created_at"`
}

func SeatToResponse(seat *entity.Seat) SeatResponse {
	return SeatResponse{
		ID:           seat.ID.String(),
		AreaID:       seat.AreaID.String(),
		SeatNumber:   seat.SeatNumber,
		Floor:        seat.Floor,
		Row:          seat.SeatRow,
		Column:       seat.SeatColumn,
		Status:       string(seat.Status),
		Features:     seat.Features,
		IsReservable: seat.IsReservable,
		CreatedAt:    seat.CreatedAt,
	}
}
