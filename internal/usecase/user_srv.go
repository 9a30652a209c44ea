package usecase

import (
	"context"
	"fmt"

	"library-seating/internal/data/repository"
	"library-seating/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*response.UserResponse, error)

	// Admin operations on ban state. Banning by hand mirrors what the
	// frequent-cancellation rule does automatically.
	SetBanned(ctx context.Context, userID string, banned bool) error
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log.With(zap.String("service", "user")),
	}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*response.UserResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	user, err := s.userRepo.FindByID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s not found", userID)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) SetBanned(ctx context.Context, userID string, banned bool) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	user, err := s.userRepo.FindByID(ctx, userUUID)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user %s not found", userID)
	}

	if err := s.userRepo.SetBanned(ctx, userUUID, banned); err != nil {
		s.log.Error("Failed to update ban state", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("set banned: %w", err)
	}

	s.log.Info("Ban state updated",
		zap.String("user_id", userID),
		zap.Bool("banned", banned),
	)
	return nil
}
