package repository

import (
	"context"
	"fmt"
	"time"

	"library-seating/internal/data/entity"
	"library-seating/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Reservation, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	Update(ctx context.Context, reservation *entity.Reservation) error

	// Detector queries
	FindActiveAt(ctx context.Context, now time.Time, grace time.Duration) ([]*entity.Reservation, error)
	FindPendingStarted(ctx context.Context, before time.Time) ([]*entity.Reservation, error)
	FindConfirmedEnded(ctx context.Context, before time.Time) ([]*entity.Reservation, error)
	FindCancelledSince(ctx context.Context, since time.Time) ([]*entity.Reservation, error)
	FindTempReleased(ctx context.Context) ([]*entity.Reservation, error)

	// Overlap check: reservations on the seat still holding it
	// (pending or confirmed or temporarily released) overlapping [start, end).
	FindOverlapping(ctx context.Context, seatID uuid.UUID, start, end time.Time) ([]*entity.Reservation, error)
}

type reservationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReservationRepository(db database.PgxIface, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

const reservationColumns = `id, user_id, seat_id, start_time, end_time, status,
	check_in_time, check_out_time,
	temp_release_time, temp_release_duration, temp_release_reason, temp_release_expiry_time,
	notes, created_at, updated_at`

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.SeatID,
		&res.StartTime,
		&res.EndTime,
		&res.Status,
		&res.CheckInTime,
		&res.CheckOutTime,
		&res.TempReleaseTime,
		&res.TempReleaseDuration,
		&res.TempReleaseReason,
		&res.TempReleaseExpiryTime,
		&res.Notes,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	query := `
		INSERT INTO reservations (id, user_id, seat_id, start_time, end_time, status,
			check_in_time, check_out_time,
			temp_release_time, temp_release_duration, temp_release_reason, temp_release_expiry_time,
			notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.Exec(ctx, query,
		reservation.ID,
		reservation.UserID,
		reservation.SeatID,
		reservation.StartTime,
		reservation.EndTime,
		reservation.Status,
		reservation.CheckInTime,
		reservation.CheckOutTime,
		reservation.TempReleaseTime,
		reservation.TempReleaseDuration,
		reservation.TempReleaseReason,
		reservation.TempReleaseExpiryTime,
		reservation.Notes,
		reservation.CreatedAt,
		reservation.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.String("user_id", reservation.UserID.String()),
			zap.String("seat_id", reservation.SeatID.String()),
		)
		return fmt.Errorf("create reservation: %w", err)
	}

	return nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	res, err := scanReservation(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reservation by ID",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return nil, fmt.Errorf("find reservation by ID %s: %w", id.String(), err)
	}

	return res, nil
}

func (r *reservationRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryReservations(ctx, query, userID, limit, offset)
}

func (r *reservationRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM reservations WHERE user_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count reservations by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count reservations by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *reservationRepository) Update(ctx context.Context, reservation *entity.Reservation) error {
	query := `
		UPDATE reservations
		SET status = $2, check_in_time = $3, check_out_time = $4,
		    temp_release_time = $5, temp_release_duration = $6,
		    temp_release_reason = $7, temp_release_expiry_time = $8,
		    notes = $9, updated_at = $10
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		reservation.ID,
		reservation.Status,
		reservation.CheckInTime,
		reservation.CheckOutTime,
		reservation.TempReleaseTime,
		reservation.TempReleaseDuration,
		reservation.TempReleaseReason,
		reservation.TempReleaseExpiryTime,
		reservation.Notes,
		reservation.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update reservation",
			zap.Error(err),
			zap.String("reservation_id", reservation.ID.String()),
		)
		return fmt.Errorf("update reservation %s: %w", reservation.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reservation %s not found", reservation.ID.String())
	}

	return nil
}

func (r *reservationRepository) FindActiveAt(ctx context.Context, now time.Time, grace time.Duration) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE status = 'confirmed'
		  AND start_time <= $1
		  AND end_time >= $2
		ORDER BY start_time
	`

	return r.queryReservations(ctx, query, now.Add(grace), now.Add(-grace))
}

func (r *reservationRepository) FindPendingStarted(ctx context.Context, before time.Time) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE status = 'pending' AND start_time <= $1
		ORDER BY start_time
	`

	return r.queryReservations(ctx, query, before)
}

func (r *reservationRepository) FindConfirmedEnded(ctx context.Context, before time.Time) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE status = 'confirmed' AND end_time <= $1
		ORDER BY end_time
	`

	return r.queryReservations(ctx, query, before)
}

func (r *reservationRepository) FindCancelledSince(ctx context.Context, since time.Time) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE status = 'cancelled' AND updated_at > $1
	`

	return r.queryReservations(ctx, query, since)
}

func (r *reservationRepository) FindTempReleased(ctx context.Context) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE status = 'temporarily_released'
	`

	return r.queryReservations(ctx, query)
}

func (r *reservationRepository) FindOverlapping(ctx context.Context, seatID uuid.UUID, start, end time.Time) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE seat_id = $1
		  AND status IN ('pending', 'confirmed', 'temporarily_released')
		  AND start_time < $3
		  AND end_time > $2
	`

	return r.queryReservations(ctx, query, seatID, start, end)
}

func (r *reservationRepository) queryReservations(ctx context.Context, query string, args ...any) ([]*entity.Reservation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query reservations", zap.Error(err))
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			r.log.Error("Failed to scan reservation row", zap.Error(err))
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, res)
	}

	return reservations, nil
}
