package entity

import "github.com/google/uuid"

type SeatStatus string

const (
	SeatStatusAvailable    SeatStatus = "available"
	SeatStatusOccupied     SeatStatus = "occupied"
	SeatStatusReserved     SeatStatus = "reserved"
	SeatStatusMaintenance  SeatStatus = "maintenance"
	SeatStatusTempReleased SeatStatus = "temporarily_released"
)

type Seat struct {
	Base
	AreaID       uuid.UUID  `db:"area_id"`
	SeatNumber   string     `db:"seat_number"` // A-001, A-002, etc.
	Floor        int        `db:"floor"`
	SeatRow      int        `db:"seat_row"`
	SeatColumn   int        `db:"seat_column"`
	Status       SeatStatus `db:"status"`
	Features     []string   `db:"features"` // power, window, quiet, computer
	IsReservable bool       `db:"is_reservable"`
}
