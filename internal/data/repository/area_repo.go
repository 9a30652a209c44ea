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

type AreaRepository interface {
	Create(ctx context.Context, area *entity.Area) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Area, error)
	FindAllActive(ctx context.Context) ([]*entity.Area, error)
}

type areaRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAreaRepository(db database.PgxIface, log *zap.Logger) AreaRepository {
	return &areaRepository{
		db:  db,
		log: log.With(zap.String("repository", "area")),
	}
}

func (r *areaRepository) Create(ctx context.Context, area *entity.Area) error {
	query := `
		INSERT INTO areas (id, name, floor, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		area.ID,
		area.Name,
		area.Floor,
		area.Description,
		area.IsActive,
		area.CreatedAt,
		area.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create area",
			zap.Error(err),
			zap.String("name", area.Name),
		)
		return fmt.Errorf("create area %s: %w", area.Name, err)
	}

	return nil
}

func (r *areaRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Area, error) {
	query := `
		SELECT id, name, floor, description, is_active, created_at, updated_at
		FROM areas
		WHERE id = $1
	`

	var area entity.Area
	err := r.db.QueryRow(ctx, query, id).Scan(
		&area.ID,
		&area.Name,
		&area.Floor,
		&area.Description,
		&area.IsActive,
		&area.CreatedAt,
		&area.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find area by ID",
			zap.Error(err),
			zap.String("area_id", id.String()),
		)
		return nil, fmt.Errorf("find area by ID %s: %w", id.String(), err)
	}

	return &area, nil
}

func (r *areaRepository) FindAllActive(ctx context.Context) ([]*entity.Area, error) {
	query := `
		SELECT id, name, floor, description, is_active, created_at, updated_at
		FROM areas
		WHERE is_active = TRUE
		ORDER BY floor, name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find active areas", zap.Error(err))
		return nil, fmt.Errorf("find active areas: %w", err)
	}
	defer rows.Close()

	var areas []*entity.Area
	for rows.Next() {
		var area entity.Area
		err := rows.Scan(
			&area.ID,
			&area.Name,
			&area.Floor,
			&area.Description,
			&area.IsActive,
			&area.CreatedAt,
			&area.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan area row", zap.Error(err))
			return nil, fmt.Errorf("scan area row: %w", err)
		}
		areas = append(areas, &area)
	}

	return areas, nil
}
