package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"library-seating/internal/data/entity"
	"library-seating/internal/data/repository"
	"library-seating/internal/dto/request"
	"library-seating/internal/dto/response"
	"library-seating/internal/location"
	"library-seating/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// Check-in opens this long before the reservation start and stays open
	// until the same interval after the end. A slot more than this past its
	// start still displays as a no-show even while check-in remains possible.
	checkInWindow = 15 * time.Minute

	// Active-snapshot grace band around [start, end].
	activeGrace = 30 * time.Minute
)

// Lifecycle guard failures. Handlers map these to 409, everything else
// falls through the generic error mapping.
var (
	ErrNotReservationOwner  = errors.New("reservation does not belong to user")
	ErrReservationTerminal  = errors.New("reservation is already closed")
	ErrAlreadyCheckedIn     = errors.New("already checked in")
	ErrCheckInWindowNotOpen = errors.New("check-in window not open yet")
	ErrCheckInWindowClosed  = errors.New("check-in window closed")
	ErrOutsideLibraryZone   = errors.New("location outside library zones")
	ErrNotCheckedIn         = errors.New("not checked in")
	ErrSeatOnHold           = errors.New("seat is temporarily released, resume before checking out")
	ErrNotTempReleased      = errors.New("reservation is not temporarily released")
	ErrSeatUnavailable      = errors.New("seat is not reservable")
	ErrSeatConflict         = errors.New("seat already reserved for that time")
	ErrUserBanned           = errors.New("user is banned from reserving")
)

type ReservationService interface {
	Create(ctx context.Context, userID string, req *request.CreateReservationRequest) (*response.ReservationResponse, error)
	GetByID(ctx context.Context, reservationID string) (*response.ReservationResponse, error)
	GetUserReservations(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error)

	// Lifecycle transitions, always on behalf of the owner.
	CheckIn(ctx context.Context, userID, reservationID string, req *request.CheckInRequest) (*response.ReservationResponse, error)
	CheckOut(ctx context.Context, userID, reservationID string) (*response.ReservationResponse, error)
	TempRelease(ctx context.Context, userID, reservationID string, req *request.TempReleaseRequest) (*response.ReservationResponse, error)
	Resume(ctx context.Context, userID, reservationID string) (*response.ReservationResponse, error)
	Cancel(ctx context.Context, userID, reservationID string) error

	// SweepExpired closes reservations whose temp-release hold ran out and
	// expires pending ones that were never used. Returns how many changed.
	SweepExpired(ctx context.Context) (int, error)
}

type reservationService struct {
	repo     *repository.Repository
	verifier location.Verifier
	log      *zap.Logger
	now      func() time.Time
}

func NewReservationService(repo *repository.Repository, verifier location.Verifier, log *zap.Logger) ReservationService {
	return &reservationService{
		repo:     repo,
		verifier: verifier,
		log:      log.With(zap.String("service", "reservation")),
		now:      time.Now,
	}
}

func (s *reservationService) Create(ctx context.Context, userID string, req *request.CreateReservationRequest) (*response.ReservationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create reservation validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	seatID, err := uuid.Parse(req.SeatID)
	if err != nil {
		return nil, fmt.Errorf("invalid seat ID format %s: %w", req.SeatID, err)
	}

	user, err := s.repo.User.FindByID(ctx, userUUID)
	if err != nil || user == nil {
		return nil, fmt.Errorf("user %s not found", userID)
	}
	if user.IsBanned {
		return nil, ErrUserBanned
	}

	seat, err := s.repo.Seat.FindByID(ctx, seatID)
	if err != nil || seat == nil {
		return nil, fmt.Errorf("seat %s not found", req.SeatID)
	}
	if !seat.IsReservable || seat.Status == entity.SeatStatusMaintenance {
		return nil, ErrSeatUnavailable
	}

	now := s.now()
	if req.EndTime.Before(now) {
		return nil, fmt.Errorf("cannot reserve for a past time slot")
	}

	overlapping, err := s.repo.Reservation.FindOverlapping(ctx, seatID, req.StartTime, req.EndTime)
	if err != nil {
		s.log.Error("Failed to check overlapping reservations", zap.Error(err))
		return nil, fmt.Errorf("check seat availability: %w", err)
	}
	if len(overlapping) > 0 {
		return nil, ErrSeatConflict
	}

	reservation := &entity.Reservation{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:    userUUID,
		SeatID:    seatID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    entity.ReservationStatusPending,
		Notes:     req.Notes,
	}

	if err := s.repo.Reservation.Create(ctx, reservation); err != nil {
		s.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("seat_id", req.SeatID),
		)
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	if err := s.repo.Seat.UpdateStatus(ctx, seatID, entity.SeatStatusReserved); err != nil {
		s.log.Error("Failed to mark seat reserved", zap.Error(err), zap.String("seat_id", req.SeatID))
		return nil, fmt.Errorf("update seat status: %w", err)
	}

	s.log.Info("Reservation created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("user_id", userID),
		zap.String("seat_id", req.SeatID),
		zap.Time("start_time", req.StartTime),
		zap.Time("end_time", req.EndTime),
	)

	return s.buildResponse(ctx, reservation), nil
}

func (s *reservationService) GetByID(ctx context.Context, reservationID string) (*response.ReservationResponse, error) {
	reservation, err := s.findReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, reservation), nil
}

func (s *reservationService) GetUserReservations(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	reservations, err := s.repo.Reservation.FindByUserID(ctx, userUUID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get user reservations",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("get user reservations: %w", err)
	}

	total, err := s.repo.Reservation.CountByUserID(ctx, userUUID)
	if err != nil {
		s.log.Error("Failed to count user reservations", zap.Error(err))
		return nil, fmt.Errorf("count user reservations: %w", err)
	}

	items := make([]response.ReservationResponse, len(reservations))
	for i, reservation := range reservations {
		items[i] = *s.buildResponse(ctx, reservation)
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *reservationService) CheckIn(ctx context.Context, userID, reservationID string, req *request.CheckInRequest) (*response.ReservationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	reservation, err := s.findOwnedReservation(ctx, userID, reservationID)
	if err != nil {
		return nil, err
	}

	if reservation.Status.Terminal() {
		return nil, ErrReservationTerminal
	}
	if reservation.Status != entity.ReservationStatusPending {
		return nil, ErrAlreadyCheckedIn
	}

	now := s.now()
	if now.Before(reservation.StartTime.Add(-checkInWindow)) {
		return nil, ErrCheckInWindowNotOpen
	}
	if now.After(reservation.EndTime.Add(checkInWindow)) {
		return nil, ErrCheckInWindowClosed
	}

	// Location check happens before any mutation: a failed or errored
	// verification leaves the reservation untouched.
	result, err := s.verifier.Verify(ctx, req.Latitude, req.Longitude)
	if err != nil {
		s.log.Error("Location verification failed",
			zap.Error(err),
			zap.String("reservation_id", reservationID),
		)
		return nil, fmt.Errorf("verify location: %w", err)
	}
	if !result.Allowed {
		s.log.Warn("Check-in rejected outside zone",
			zap.String("reservation_id", reservationID),
			zap.String("nearest_zone", result.Zone),
			zap.Float64("distance_m", result.DistanceM),
		)
		return nil, fmt.Errorf("%w: %.0fm from %s", ErrOutsideLibraryZone, result.DistanceM, result.Zone)
	}

	reservation.Status = entity.ReservationStatusConfirmed
	reservation.CheckInTime = &now
	reservation.UpdatedAt = now

	if err := s.repo.Reservation.Update(ctx, reservation); err != nil {
		return nil, fmt.Errorf("check in reservation: %w", err)
	}
	if err := s.repo.Seat.UpdateStatus(ctx, reservation.SeatID, entity.SeatStatusOccupied); err != nil {
		return nil, fmt.Errorf("update seat status: %w", err)
	}

	s.log.Info("Checked in",
		zap.String("reservation_id", reservationID),
		zap.String("user_id", userID),
		zap.String("zone", result.Zone),
	)

	return s.buildResponse(ctx, reservation), nil
}

func (s *reservationService) CheckOut(ctx context.Context, userID, reservationID string) (*response.ReservationResponse, error) {
	reservation, err := s.findOwnedReservation(ctx, userID, reservationID)
	if err != nil {
		return nil, err
	}

	if reservation.Status.Terminal() {
		return nil, ErrReservationTerminal
	}
	if reservation.Status == entity.ReservationStatusTempReleased {
		return nil, ErrSeatOnHold
	}
	if reservation.Status != entity.ReservationStatusConfirmed || reservation.CheckInTime == nil {
		return nil, ErrNotCheckedIn
	}

	now := s.now()
	reservation.Status = entity.ReservationStatusCompleted
	reservation.CheckOutTime = &now
	reservation.UpdatedAt = now

	if err := s.repo.Reservation.Update(ctx, reservation); err != nil {
		return nil, fmt.Errorf("check out reservation: %w", err)
	}
	if err := s.repo.Seat.UpdateStatus(ctx, reservation.SeatID, entity.SeatStatusAvailable); err != nil {
		return nil, fmt.Errorf("update seat status: %w", err)
	}

	s.log.Info("Checked out",
		zap.String("reservation_id", reservationID),
		zap.String("user_id", userID),
	)

	return s.buildResponse(ctx, reservation), nil
}

func (s *reservationService) TempRelease(ctx context.Context, userID, reservationID string, req *request.TempReleaseRequest) (*response.ReservationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	reservation, err := s.findOwnedReservation(ctx, userID, reservationID)
	if err != nil {
		return nil, err
	}

	if reservation.Status.Terminal() {
		return nil, ErrReservationTerminal
	}
	if reservation.Status != entity.ReservationStatusConfirmed || reservation.CheckInTime == nil {
		return nil, ErrNotCheckedIn
	}

	now := s.now()
	expiry := now.Add(time.Duration(req.DurationMinutes) * time.Minute)
	duration := req.DurationMinutes
	reason := req.Reason

	reservation.Status = entity.ReservationStatusTempReleased
	reservation.TempReleaseTime = &now
	reservation.TempReleaseDuration = &duration
	reservation.TempReleaseReason = &reason
	reservation.TempReleaseExpiryTime = &expiry
	reservation.UpdatedAt = now

	if err := s.repo.Reservation.Update(ctx, reservation); err != nil {
		return nil, fmt.Errorf("temp release reservation: %w", err)
	}
	if err := s.repo.Seat.UpdateStatus(ctx, reservation.SeatID, entity.SeatStatusTempReleased); err != nil {
		return nil, fmt.Errorf("update seat status: %w", err)
	}

	s.log.Info("Temporarily released",
		zap.String("reservation_id", reservationID),
		zap.String("user_id", userID),
		zap.Int("duration_minutes", req.DurationMinutes),
		zap.Time("expires_at", expiry),
	)

	return s.buildResponse(ctx, reservation), nil
}

func (s *reservationService) Resume(ctx context.Context, userID, reservationID string) (*response.ReservationResponse, error) {
	reservation, err := s.findOwnedReservation(ctx, userID, reservationID)
	if err != nil {
		return nil, err
	}

	if reservation.Status != entity.ReservationStatusTempReleased {
		return nil, ErrNotTempReleased
	}

	// Resuming after the hold expired is allowed as long as the sweep has
	// not closed the reservation yet.
	now := s.now()
	reservation.Status = entity.ReservationStatusConfirmed
	reservation.TempReleaseTime = nil
	reservation.TempReleaseDuration = nil
	reservation.TempReleaseReason = nil
	reservation.TempReleaseExpiryTime = nil
	reservation.UpdatedAt = now

	if err := s.repo.Reservation.Update(ctx, reservation); err != nil {
		return nil, fmt.Errorf("resume reservation: %w", err)
	}
	if err := s.repo.Seat.UpdateStatus(ctx, reservation.SeatID, entity.SeatStatusOccupied); err != nil {
		return nil, fmt.Errorf("update seat status: %w", err)
	}

	s.log.Info("Resumed from temporary release",
		zap.String("reservation_id", reservationID),
		zap.String("user_id", userID),
	)

	return s.buildResponse(ctx, reservation), nil
}

func (s *reservationService) Cancel(ctx context.Context, userID, reservationID string) error {
	reservation, err := s.findOwnedReservation(ctx, userID, reservationID)
	if err != nil {
		return err
	}

	if reservation.Status.Terminal() {
		return ErrReservationTerminal
	}

	now := s.now()
	reservation.Status = entity.ReservationStatusCancelled
	reservation.UpdatedAt = now

	if err := s.repo.Reservation.Update(ctx, reservation); err != nil {
		return fmt.Errorf("cancel reservation: %w", err)
	}
	if err := s.repo.Seat.UpdateStatus(ctx, reservation.SeatID, entity.SeatStatusAvailable); err != nil {
		return fmt.Errorf("update seat status: %w", err)
	}

	s.log.Info("Reservation cancelled",
		zap.String("reservation_id", reservationID),
		zap.String("user_id", userID),
	)

	return nil
}

func (s *reservationService) SweepExpired(ctx context.Context) (int, error) {
	now := s.now()
	changed := 0

	released, err := s.repo.Reservation.FindTempReleased(ctx)
	if err != nil {
		return 0, fmt.Errorf("find temp released reservations: %w", err)
	}
	for _, reservation := range released {
		if reservation.TempReleaseExpiryTime == nil || now.Before(*reservation.TempReleaseExpiryTime) {
			continue
		}

		reservation.Status = entity.ReservationStatusCancelled
		reservation.UpdatedAt = now
		if err := s.repo.Reservation.Update(ctx, reservation); err != nil {
			s.log.Error("Failed to close expired temp release",
				zap.Error(err),
				zap.String("reservation_id", reservation.ID.String()),
			)
			continue
		}
		if err := s.repo.Seat.UpdateStatus(ctx, reservation.SeatID, entity.SeatStatusAvailable); err != nil {
			s.log.Error("Failed to free seat after expired temp release",
				zap.Error(err),
				zap.String("seat_id", reservation.SeatID.String()),
			)
		}
		changed++

		s.log.Info("Temp release expired, reservation closed",
			zap.String("reservation_id", reservation.ID.String()),
			zap.String("user_id", reservation.UserID.String()),
		)
	}

	// Pending reservations that were never checked in expire once the
	// check-in window itself has closed.
	pending, err := s.repo.Reservation.FindPendingStarted(ctx, now)
	if err != nil {
		return changed, fmt.Errorf("find pending reservations: %w", err)
	}
	for _, reservation := range pending {
		if now.Before(reservation.EndTime.Add(checkInWindow)) {
			continue
		}

		reservation.Status = entity.ReservationStatusExpired
		reservation.UpdatedAt = now
		if err := s.repo.Reservation.Update(ctx, reservation); err != nil {
			s.log.Error("Failed to expire unused reservation",
				zap.Error(err),
				zap.String("reservation_id", reservation.ID.String()),
			)
			continue
		}
		if err := s.repo.Seat.UpdateStatus(ctx, reservation.SeatID, entity.SeatStatusAvailable); err != nil {
			s.log.Error("Failed to free seat after expiry",
				zap.Error(err),
				zap.String("seat_id", reservation.SeatID.String()),
			)
		}
		changed++

		s.log.Info("Unused reservation expired",
			zap.String("reservation_id", reservation.ID.String()),
			zap.String("user_id", reservation.UserID.String()),
		)
	}

	return changed, nil
}

func (s *reservationService) findReservation(ctx context.Context, reservationID string) (*entity.Reservation, error) {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		return nil, fmt.Errorf("invalid reservation ID format %s: %w", reservationID, err)
	}

	reservation, err := s.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find reservation: %w", err)
	}
	if reservation == nil {
		return nil, fmt.Errorf("reservation %s not found", reservationID)
	}
	return reservation, nil
}

func (s *reservationService) findOwnedReservation(ctx context.Context, userID, reservationID string) (*entity.Reservation, error) {
	reservation, err := s.findReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.UserID.String() != userID {
		return nil, ErrNotReservationOwner
	}
	return reservation, nil
}

func (s *reservationService) buildResponse(ctx context.Context, reservation *entity.Reservation) *response.ReservationResponse {
	var seatName string
	seat, _ := s.repo.Seat.FindByID(ctx, reservation.SeatID)
	if seat != nil {
		seatName = seat.SeatNumber
	}

	resp := response.ReservationToResponse(reservation, seatName, DeriveDisplayStatus(reservation, s.now()))
	return &resp
}

// DeriveDisplayStatus projects a reservation onto its user-facing status for
// the current moment. It never touches storage: overdue no-shows and expired
// holds are displayed as such even before a sweep persists the transition.
func DeriveDisplayStatus(reservation *entity.Reservation, now time.Time) string {
	switch reservation.Status {
	case entity.ReservationStatusPending:
		switch {
		case now.Before(reservation.StartTime.Add(-checkInWindow)):
			return "upcoming"
		case now.After(reservation.StartTime.Add(checkInWindow)):
			return "no_show"
		default:
			return "can_check_in"
		}
	case entity.ReservationStatusConfirmed:
		if now.After(reservation.EndTime) {
			return "overdue"
		}
		return "checked_in"
	case entity.ReservationStatusTempReleased:
		if reservation.TempReleaseExpiryTime != nil && now.After(*reservation.TempReleaseExpiryTime) {
			return "temp_expired"
		}
		return "temp_released"
	default:
		return string(reservation.Status)
	}
}
