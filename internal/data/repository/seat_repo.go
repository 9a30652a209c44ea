package repository

import (
	"context"
	"fmt"

	"library-seating/internal/data/entity"
	"library-seating/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SeatRepository interface {
	Create(ctx context.Context, seat *entity.Seat) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Seat, error)
	FindByArea(ctx context.Context, areaID uuid.UUID) ([]*entity.Seat, error)
	FindByStatus(ctx context.Context, status entity.SeatStatus) ([]*entity.Seat, error)

	// UpdateStatus is the registry's status-transition primitive. It persists
	// blindly; transition legality is the lifecycle service's responsibility.
	UpdateStatus(ctx context.Context, seatID uuid.UUID, status entity.SeatStatus) error
}

type seatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatRepository(db database.PgxIface, log *zap.Logger) SeatRepository {
	return &seatRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat")),
	}
}

const seatColumns = `id, area_id, seat_number, floor, seat_row, seat_column, status, features, is_reservable, created_at, updated_at`

func (r *seatRepository) scanSeat(row pgx.Row) (*entity.Seat, error) {
	var seat entity.Seat
	err := row.Scan(
		&seat.ID,
		&seat.AreaID,
		&seat.SeatNumber,
		&seat.Floor,
		&seat.SeatRow,
		&seat.SeatColumn,
		&seat.Status,
		&seat.Features,
		&seat.IsReservable,
		&seat.CreatedAt,
		&seat.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *seatRepository) Create(ctx context.Context, seat *entity.Seat) error {
	query := `
		INSERT INTO seats (id, area_id, seat_number, floor, seat_row, seat_column, status, features, is_reservable, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		seat.ID,
		seat.AreaID,
		seat.SeatNumber,
		seat.Floor,
		seat.SeatRow,
		seat.SeatColumn,
		seat.Status,
		seat.Features,
		seat.IsReservable,
		seat.CreatedAt,
		seat.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create seat",
			zap.Error(err),
			zap.String("seat_number", seat.SeatNumber),
		)
		return fmt.Errorf("create seat %s: %w", seat.SeatNumber, err)
	}

	return nil
}

func (r *seatRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE id = $1`

	seat, err := r.scanSeat(r.db.QueryRow(ctx, query, id))
	if err != nil {
		r.log.Error("Failed to find seat by ID",
			zap.Error(err),
			zap.String("seat_id", id.String()),
		)
		return nil, fmt.Errorf("find seat by ID %s: %w", id.String(), err)
	}

	return seat, nil
}

func (r *seatRepository) FindByArea(ctx context.Context, areaID uuid.UUID) ([]*entity.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE area_id = $1 ORDER BY seat_row, seat_column`

	return r.querySeats(ctx, query, areaID)
}

func (r *seatRepository) FindByStatus(ctx context.Context, status entity.SeatStatus) ([]*entity.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE status = $1 ORDER BY seat_number`

	return r.querySeats(ctx, query, status)
}

func (r *seatRepository) querySeats(ctx context.Context, query string, args ...any) ([]*entity.Seat, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query seats", zap.Error(err))
		return nil, fmt.Errorf("query seats: %w", err)
	}
	defer rows.Close()

	var seats []*entity.Seat
	for rows.Next() {
		var seat entity.Seat
		err := rows.Scan(
			&seat.ID,
			&seat.AreaID,
			&seat.SeatNumber,
			&seat.Floor,
			&seat.SeatRow,
			&seat.SeatColumn,
			&seat.Status,
			&seat.Features,
			&seat.IsReservable,
			&seat.CreatedAt,
			&seat.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan seat row", zap.Error(err))
			return nil, fmt.Errorf("scan seat row: %w", err)
		}
		seats = append(seats, &seat)
	}

	return seats, nil
}

func (r *seatRepository) UpdateStatus(ctx context.Context, seatID uuid.UUID, status entity.SeatStatus) error {
	query := `UPDATE seats SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, seatID, status)
	if err != nil {
		r.log.Error("Failed to update seat status",
			zap.Error(err),
			zap.String("seat_id", seatID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update seat %s status to %s: %w", seatID.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("seat %s not found", seatID.String())
	}

	return nil
}
