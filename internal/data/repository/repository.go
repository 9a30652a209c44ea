package repository

import (
	"library-seating/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User          UserRepository
	Session       SessionRepository
	Area          AreaRepository
	Seat          SeatRepository
	Reservation   ReservationRepository
	Violation     ViolationRepository
	ViolationRule ViolationRuleRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:          NewUserRepository(db, log),
		Session:       NewSessionRepository(db, log),
		Area:          NewAreaRepository(db, log),
		Seat:          NewSeatRepository(db, log),
		Reservation:   NewReservationRepository(db, log),
		Violation:     NewViolationRepository(db, log),
		ViolationRule: NewViolationRuleRepository(db, log),
	}
}
