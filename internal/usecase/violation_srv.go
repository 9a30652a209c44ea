package usecase

import (
	"context"
	"fmt"
	"time"

	"library-seating/internal/data/entity"
	"library-seating/internal/data/repository"
	"library-seating/internal/dto/request"
	"library-seating/internal/dto/response"
	"library-seating/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ViolationService interface {
	GetAll(ctx context.Context) ([]response.ViolationResponse, error)
	GetUnresolved(ctx context.Context) ([]response.ViolationResponse, error)
	GetByUser(ctx context.Context, userID string) ([]response.ViolationResponse, error)

	// Admin entries outside the detector's rule set.
	Create(ctx context.Context, req *request.CreateViolationRequest) (*response.ViolationResponse, error)
	Resolve(ctx context.Context, violationID, resolvedBy string) error
}

type violationService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewViolationService(repo *repository.Repository, log *zap.Logger) ViolationService {
	return &violationService{
		repo: repo,
		log:  log.With(zap.String("service", "violation")),
		now:  time.Now,
	}
}

func (s *violationService) GetAll(ctx context.Context) ([]response.ViolationResponse, error) {
	violations, err := s.repo.Violation.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to get violations", zap.Error(err))
		return nil, fmt.Errorf("get violations: %w", err)
	}
	return toViolationResponses(violations), nil
}

func (s *violationService) GetUnresolved(ctx context.Context) ([]response.ViolationResponse, error) {
	violations, err := s.repo.Violation.FindUnresolved(ctx)
	if err != nil {
		s.log.Error("Failed to get unresolved violations", zap.Error(err))
		return nil, fmt.Errorf("get unresolved violations: %w", err)
	}
	return toViolationResponses(violations), nil
}

func (s *violationService) GetByUser(ctx context.Context, userID string) ([]response.ViolationResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	violations, err := s.repo.Violation.FindByUser(ctx, userUUID)
	if err != nil {
		s.log.Error("Failed to get user violations", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("get user violations: %w", err)
	}
	return toViolationResponses(violations), nil
}

func (s *violationService) Create(ctx context.Context, req *request.CreateViolationRequest) (*response.ViolationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", req.UserID, err)
	}

	user, err := s.repo.User.FindByID(ctx, userUUID)
	if err != nil || user == nil {
		return nil, fmt.Errorf("user %s not found", req.UserID)
	}

	var reservationID *uuid.UUID
	if req.ReservationID != nil {
		id, err := uuid.Parse(*req.ReservationID)
		if err != nil {
			return nil, fmt.Errorf("invalid reservation ID format %s: %w", *req.ReservationID, err)
		}
		reservation, err := s.repo.Reservation.FindByID(ctx, id)
		if err != nil || reservation == nil {
			return nil, fmt.Errorf("reservation %s not found", *req.ReservationID)
		}
		reservationID = &id
	}

	violation := &entity.Violation{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: s.now(),
		},
		UserID:        userUUID,
		ReservationID: reservationID,
		Type:          entity.ViolationType(req.Type),
		Description:   req.Description,
		Penalty:       req.Penalty,
	}

	if err := s.repo.Violation.Create(ctx, violation); err != nil {
		s.log.Error("Failed to create violation", zap.Error(err), zap.String("user_id", req.UserID))
		return nil, fmt.Errorf("create violation: %w", err)
	}

	if err := s.repo.User.IncrementViolationCount(ctx, userUUID); err != nil {
		s.log.Error("Failed to increment violation count", zap.Error(err), zap.String("user_id", req.UserID))
	}

	s.log.Info("Violation created",
		zap.String("violation_id", violation.ID.String()),
		zap.String("user_id", req.UserID),
		zap.String("type", req.Type),
	)

	resp := response.ViolationToResponse(violation)
	return &resp, nil
}

func (s *violationService) Resolve(ctx context.Context, violationID, resolvedBy string) error {
	id, err := uuid.Parse(violationID)
	if err != nil {
		return fmt.Errorf("invalid violation ID format %s: %w", violationID, err)
	}

	resolverUUID, err := uuid.Parse(resolvedBy)
	if err != nil {
		return fmt.Errorf("invalid resolver ID format %s: %w", resolvedBy, err)
	}

	violation, err := s.repo.Violation.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find violation: %w", err)
	}
	if violation == nil {
		return fmt.Errorf("violation %s not found", violationID)
	}
	// Resolving an already resolved entry overwrites resolvedAt/resolvedBy.

	if err := s.repo.Violation.Resolve(ctx, id, resolverUUID, s.now()); err != nil {
		s.log.Error("Failed to resolve violation", zap.Error(err), zap.String("violation_id", violationID))
		return fmt.Errorf("resolve violation: %w", err)
	}

	s.log.Info("Violation resolved",
		zap.String("violation_id", violationID),
		zap.String("resolved_by", resolvedBy),
	)
	return nil
}

func toViolationResponses(violations []*entity.Violation) []response.ViolationResponse {
	items := make([]response.ViolationResponse, len(violations))
	for i, violation := range violations {
		items[i] = response.ViolationToResponse(violation)
	}
	return items
}
