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

type ViolationRepository interface {
	Create(ctx context.Context, violation *entity.Violation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Violation, error)
	FindAll(ctx context.Context) ([]*entity.Violation, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Violation, error)
	FindUnresolved(ctx context.Context) ([]*entity.Violation, error)

	// FindDuplicate checks for an existing entry with the same user, type,
	// reservation and calendar day, so sweeps do not re-alert on a still-true
	// condition.
	FindDuplicate(ctx context.Context, userID uuid.UUID, vType entity.ViolationType, reservationID *uuid.UUID, day time.Time) (*entity.Violation, error)

	Resolve(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID, at time.Time) error
}

type violationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewViolationRepository(db database.PgxIface, log *zap.Logger) ViolationRepository {
	return &violationRepository{
		db:  db,
		log: log.With(zap.String("repository", "violation")),
	}
}

const violationColumns = `id, user_id, reservation_id, type, description, penalty, is_resolved, resolved_at, resolved_by, created_at`

func scanViolation(row pgx.Row) (*entity.Violation, error) {
	var v entity.Violation
	err := row.Scan(
		&v.ID,
		&v.UserID,
		&v.ReservationID,
		&v.Type,
		&v.Description,
		&v.Penalty,
		&v.IsResolved,
		&v.ResolvedAt,
		&v.ResolvedBy,
		&v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *violationRepository) Create(ctx context.Context, violation *entity.Violation) error {
	query := `
		INSERT INTO violations (id, user_id, reservation_id, type, description, penalty, is_resolved, resolved_at, resolved_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		violation.ID,
		violation.UserID,
		violation.ReservationID,
		violation.Type,
		violation.Description,
		violation.Penalty,
		violation.IsResolved,
		violation.ResolvedAt,
		violation.ResolvedBy,
		violation.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create violation",
			zap.Error(err),
			zap.String("user_id", violation.UserID.String()),
			zap.String("type", string(violation.Type)),
		)
		return fmt.Errorf("create violation: %w", err)
	}

	return nil
}

func (r *violationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Violation, error) {
	query := `SELECT ` + violationColumns + ` FROM violations WHERE id = $1`

	v, err := scanViolation(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find violation by ID",
			zap.Error(err),
			zap.String("violation_id", id.String()),
		)
		return nil, fmt.Errorf("find violation by ID %s: %w", id.String(), err)
	}

	return v, nil
}

func (r *violationRepository) FindAll(ctx context.Context) ([]*entity.Violation, error) {
	query := `SELECT ` + violationColumns + ` FROM violations ORDER BY created_at DESC`

	return r.queryViolations(ctx, query)
}

func (r *violationRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Violation, error) {
	query := `SELECT ` + violationColumns + ` FROM violations WHERE user_id = $1 ORDER BY created_at DESC`

	return r.queryViolations(ctx, query, userID)
}

func (r *violationRepository) FindUnresolved(ctx context.Context) ([]*entity.Violation, error) {
	query := `SELECT ` + violationColumns + ` FROM violations WHERE is_resolved = FALSE ORDER BY created_at DESC`

	return r.queryViolations(ctx, query)
}

func (r *violationRepository) FindDuplicate(ctx context.Context, userID uuid.UUID, vType entity.ViolationType, reservationID *uuid.UUID, day time.Time) (*entity.Violation, error) {
	query := `
		SELECT ` + violationColumns + `
		FROM violations
		WHERE user_id = $1
		  AND type = $2
		  AND reservation_id IS NOT DISTINCT FROM $3
		  AND date_trunc('day', created_at) = date_trunc('day', $4::timestamptz)
		LIMIT 1
	`

	v, err := scanViolation(r.db.QueryRow(ctx, query, userID, vType, reservationID, day))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to check duplicate violation",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("type", string(vType)),
		)
		return nil, fmt.Errorf("find duplicate violation: %w", err)
	}

	return v, nil
}

func (r *violationRepository) Resolve(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID, at time.Time) error {
	query := `
		UPDATE violations
		SET is_resolved = TRUE, resolved_at = $2, resolved_by = $3
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, at, resolvedBy)
	if err != nil {
		r.log.Error("Failed to resolve violation",
			zap.Error(err),
			zap.String("violation_id", id.String()),
		)
		return fmt.Errorf("resolve violation %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("violation %s not found", id.String())
	}

	return nil
}

func (r *violationRepository) queryViolations(ctx context.Context, query string, args ...any) ([]*entity.Violation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query violations", zap.Error(err))
		return nil, fmt.Errorf("query violations: %w", err)
	}
	defer rows.Close()

	var violations []*entity.Violation
	for rows.Next() {
		v, err := scanViolation(rows)
		if err != nil {
			r.log.Error("Failed to scan violation row", zap.Error(err))
			return nil, fmt.Errorf("scan violation row: %w", err)
		}
		violations = append(violations, v)
	}

	return violations, nil
}
