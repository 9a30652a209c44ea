package usecase

import (
	"library-seating/internal/data/repository"
	"library-seating/internal/location"
	"library-seating/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth        AuthService
	User        UserService
	Seat        SeatService
	Reservation ReservationService
	Violation   ViolationService
	Detector    DetectorService
}

func NewService(repo *repository.Repository, verifier location.Verifier, config *utils.Config, log *zap.Logger) *Service {
	reservation := NewReservationService(repo, verifier, log)

	return &Service{
		Auth:        NewAuthService(repo, config, log),
		User:        NewUserService(repo.User, log),
		Seat:        NewSeatService(repo, log),
		Reservation: reservation,
		Violation:   NewViolationService(repo, log),
		Detector:    NewDetectorService(repo, reservation, config, log),
	}
}
