package adaptor

import (
	"errors"
	"net/http"
	"strings"

	"library-seating/internal/usecase"
	"library-seating/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Seat        *SeatHandler
	Reservation *ReservationHandler
	Violation   *ViolationHandler
	Detector    *DetectorHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(service.Auth, log),
		User:        NewUserHandler(service.User, service.Reservation, service.Violation, log),
		Seat:        NewSeatHandler(service.Seat, log),
		Reservation: NewReservationHandler(service.Reservation, log),
		Violation:   NewViolationHandler(service.Violation, log),
		Detector:    NewDetectorHandler(service.Detector, log),
	}
}

// Lifecycle guard failures surface as 409, ownership and zone failures as
// 403. Everything else falls back to message matching.
var conflictErrors = []error{
	usecase.ErrReservationTerminal,
	usecase.ErrAlreadyCheckedIn,
	usecase.ErrCheckInWindowNotOpen,
	usecase.ErrCheckInWindowClosed,
	usecase.ErrNotCheckedIn,
	usecase.ErrSeatOnHold,
	usecase.ErrNotTempReleased,
	usecase.ErrSeatUnavailable,
	usecase.ErrSeatConflict,
	usecase.ErrDetectorAlreadyRunning,
	usecase.ErrDetectorNotRunning,
}

func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	errMsg := err.Error()

	for _, sentinel := range conflictErrors {
		if errors.Is(err, sentinel) {
			log.Warn(operation+" failed - invalid state",
				zap.Error(err),
				zap.String("operation", operation))
			utils.ResponseConflict(w, errMsg)
			return
		}
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		log.Warn(operation+" failed - bad credentials",
			zap.String("operation", operation))
		utils.ResponseUnauthorized(w, errMsg)

	case errors.Is(err, usecase.ErrNotReservationOwner),
		errors.Is(err, usecase.ErrOutsideLibraryZone),
		errors.Is(err, usecase.ErrUserBanned):
		log.Warn(operation+" failed - forbidden",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseForbidden(w, errMsg)

	case strings.Contains(errMsg, "not found"):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "validation failed"):
		log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "invalid"):
		log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "already"):
		log.Warn(operation+" failed - duplicate",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, errMsg)

	case strings.Contains(errMsg, "cannot"):
		log.Warn(operation+" failed - invalid state",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
