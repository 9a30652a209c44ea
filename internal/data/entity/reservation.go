package entity

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationStatusPending      ReservationStatus = "pending"
	ReservationStatusConfirmed    ReservationStatus = "confirmed"
	ReservationStatusCancelled    ReservationStatus = "cancelled"
	ReservationStatusCompleted    ReservationStatus = "completed"
	ReservationStatusTempReleased ReservationStatus = "temporarily_released"
	ReservationStatusExpired      ReservationStatus = "expired"
)

// Terminal reports whether the reservation can no longer transition.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationStatusCancelled ||
		s == ReservationStatusCompleted ||
		s == ReservationStatusExpired
}

type Reservation struct {
	Base
	UserID    uuid.UUID         `db:"user_id"`
	SeatID    uuid.UUID         `db:"seat_id"`
	StartTime time.Time         `db:"start_time"`
	EndTime   time.Time         `db:"end_time"`
	Status    ReservationStatus `db:"status"`

	CheckInTime  *time.Time `db:"check_in_time"`
	CheckOutTime *time.Time `db:"check_out_time"`

	// Temp-release sub-fields: all set together or all nil.
	TempReleaseTime       *time.Time `db:"temp_release_time"`
	TempReleaseDuration   *int       `db:"temp_release_duration"` // minutes
	TempReleaseReason     *string    `db:"temp_release_reason"`
	TempReleaseExpiryTime *time.Time `db:"temp_release_expiry_time"`

	Notes *string `db:"notes"`
}
