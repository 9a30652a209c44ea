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

type SeatService interface {
	GetAreas(ctx context.Context) ([]response.AreaResponse, error)
	GetSeatsByArea(ctx context.Context, areaID string) ([]response.SeatResponse, error)
	GetSeatsByStatus(ctx context.Context, status string) ([]response.SeatResponse, error)

	// Admin registry management
	CreateArea(ctx context.Context, req *request.CreateAreaRequest) (*response.AreaResponse, error)
	CreateSeat(ctx context.Context, req *request.CreateSeatRequest) (*response.SeatResponse, error)
	UpdateSeatStatus(ctx context.Context, seatID string, req *request.UpdateSeatStatusRequest) error
}

type seatService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewSeatService(repo *repository.Repository, log *zap.Logger) SeatService {
	return &seatService{
		repo: repo,
		log:  log.With(zap.String("service", "seat")),
		now:  time.Now,
	}
}

func (s *seatService) GetAreas(ctx context.Context) ([]response.AreaResponse, error) {
	areas, err := s.repo.Area.FindAllActive(ctx)
	if err != nil {
		s.log.Error("Failed to get areas", zap.Error(err))
		return nil, fmt.Errorf("get areas: %w", err)
	}

	items := make([]response.AreaResponse, len(areas))
	for i, area := range areas {
		items[i] = response.AreaToResponse(area)
	}
	return items, nil
}

func (s *seatService) GetSeatsByArea(ctx context.Context, areaID string) ([]response.SeatResponse, error) {
	areaUUID, err := uuid.Parse(areaID)
	if err != nil {
		return nil, fmt.Errorf("invalid area ID format %s: %w", areaID, err)
	}

	area, err := s.repo.Area.FindByID(ctx, areaUUID)
	if err != nil || area == nil {
		return nil, fmt.Errorf("area %s not found", areaID)
	}

	seats, err := s.repo.Seat.FindByArea(ctx, areaUUID)
	if err != nil {
		s.log.Error("Failed to get seats", zap.Error(err), zap.String("area_id", areaID))
		return nil, fmt.Errorf("get seats: %w", err)
	}

	items := make([]response.SeatResponse, len(seats))
	for i, seat := range seats {
		items[i] = response.SeatToResponse(seat)
	}
	return items, nil
}

func (s *seatService) GetSeatsByStatus(ctx context.Context, status string) ([]response.SeatResponse, error) {
	seatStatus := entity.SeatStatus(status)
	switch seatStatus {
	case entity.SeatStatusAvailable, entity.SeatStatusOccupied, entity.SeatStatusReserved,
		entity.SeatStatusMaintenance, entity.SeatStatusTempReleased:
	default:
		return nil, fmt.Errorf("invalid seat status %s", status)
	}

	seats, err := s.repo.Seat.FindByStatus(ctx, seatStatus)
	if err != nil {
		s.log.Error("Failed to get seats by status", zap.Error(err), zap.String("status", status))
		return nil, fmt.Errorf("get seats by status: %w", err)
	}

	items := make([]response.SeatResponse, len(seats))
	for i, seat := range seats {
		items[i] = response.SeatToResponse(seat)
	}
	return items, nil
}

func (s *seatService) CreateArea(ctx context.Context, req *request.CreateAreaRequest) (*response.AreaResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	now := s.now()
	area := &entity.Area{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Floor:       req.Floor,
		Description: req.Description,
		IsActive:    true,
	}

	if err := s.repo.Area.Create(ctx, area); err != nil {
		s.log.Error("Failed to create area", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("create area: %w", err)
	}

	s.log.Info("Area created",
		zap.String("area_id", area.ID.String()),
		zap.String("name", area.Name),
	)

	resp := response.AreaToResponse(area)
	return &resp, nil
}

func (s *seatService) CreateSeat(ctx context.Context, req *request.CreateSeatRequest) (*response.SeatResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	areaUUID, err := uuid.Parse(req.AreaID)
	if err != nil {
		return nil, fmt.Errorf("invalid area ID format %s: %w", req.AreaID, err)
	}

	area, err := s.repo.Area.FindByID(ctx, areaUUID)
	if err != nil || area == nil {
		return nil, fmt.Errorf("area %s not found", req.AreaID)
	}

	reservable := true
	if req.IsReservable != nil {
		reservable = *req.IsReservable
	}

	now := s.now()
	seat := &entity.Seat{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		AreaID:       areaUUID,
		SeatNumber:   req.SeatNumber,
		Floor:        req.Floor,
		SeatRow:      req.Row,
		SeatColumn:   req.Column,
		Status:       entity.SeatStatusAvailable,
		Features:     req.Features,
		IsReservable: reservable,
	}

	if err := s.repo.Seat.Create(ctx, seat); err != nil {
		s.log.Error("Failed to create seat", zap.Error(err), zap.String("seat_number", req.SeatNumber))
		return nil, fmt.Errorf("create seat: %w", err)
	}

	s.log.Info("Seat created",
		zap.String("seat_id", seat.ID.String()),
		zap.String("seat_number", seat.SeatNumber),
		zap.String("area_id", req.AreaID),
	)

	resp := response.SeatToResponse(seat)
	return &resp, nil
}

func (s *seatService) UpdateSeatStatus(ctx context.Context, seatID string, req *request.UpdateSeatStatusRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	seatUUID, err := uuid.Parse(seatID)
	if err != nil {
		return fmt.Errorf("invalid seat ID format %s: %w", seatID, err)
	}

	seat, err := s.repo.Seat.FindByID(ctx, seatUUID)
	if err != nil || seat == nil {
		return fmt.Errorf("seat %s not found", seatID)
	}

	if err := s.repo.Seat.UpdateStatus(ctx, seatUUID, entity.SeatStatus(req.Status)); err != nil {
		s.log.Error("Failed to update seat status", zap.Error(err), zap.String("seat_id", seatID))
		return fmt.Errorf("update seat status: %w", err)
	}

	s.log.Info("Seat status updated",
		zap.String("seat_id", seatID),
		zap.String("status", req.Status),
	)
	return nil
}
