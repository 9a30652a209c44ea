package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"library-seating/internal/data/entity"
	"library-seating/internal/data/repository"
	"library-seating/internal/dto/request"
	"library-seating/internal/dto/response"
	"library-seating/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Rule thresholds, relative to the reservation slot.
const (
	noShowAfter      = 15 * time.Minute
	overstayAfter    = 30 * time.Minute
	lateCheckInAfter = 10 * time.Minute
	extensionAfter   = time.Hour

	cancellationWindow    = 24 * time.Hour
	cancellationThreshold = 3
)

var (
	ErrDetectorAlreadyRunning = errors.New("detector is already running")
	ErrDetectorNotRunning     = errors.New("detector is not running")
)

var penaltyTexts = map[entity.ViolationType]string{
	entity.ViolationNoShow:                "Reservation forfeited, one violation recorded",
	entity.ViolationOverstay:              "Forced check-out, one violation recorded",
	entity.ViolationLateCheckIn:           "Warning, one violation recorded",
	entity.ViolationFrequentCancellation:  "Reservation privileges under review, one violation recorded",
	entity.ViolationUnauthorizedExtension: "Forced check-out, one violation recorded",
}

type DetectorService interface {
	// Start launches the periodic sweep. interval <= 0 keeps the configured
	// default.
	Start(ctx context.Context, interval time.Duration) error
	Stop(ctx context.Context) error
	Status(ctx context.Context) (*response.DetectorStatusResponse, error)

	// RunSweep evaluates every enabled rule once. Overlapping calls are
	// skipped rather than queued.
	RunSweep(ctx context.Context) (int, error)

	GetRules(ctx context.Context) ([]response.RuleResponse, error)
	UpdateRule(ctx context.Context, ruleID string, req *request.UpdateRuleRequest) (*response.RuleResponse, error)
}

// reservationSweeper is the slice of the reservation service the detector
// drives for lifecycle housekeeping.
type reservationSweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

type detectorService struct {
	repo    *repository.Repository
	sweeper reservationSweeper
	log     *zap.Logger
	now     func() time.Time

	defaultInterval time.Duration

	mu        sync.Mutex
	running   bool
	interval  time.Duration
	cancel    context.CancelFunc
	lastSweep time.Time

	// Held for the duration of one sweep. TryLock keeps ticks from piling
	// up behind a slow sweep.
	sweepMu sync.Mutex
}

func NewDetectorService(repo *repository.Repository, sweeper reservationSweeper, config *utils.Config, log *zap.Logger) DetectorService {
	interval := config.Detector.Interval
	if interval <= 0 {
		interval = time.Minute
	}

	return &detectorService{
		repo:            repo,
		sweeper:         sweeper,
		log:             log.With(zap.String("service", "detector")),
		now:             time.Now,
		defaultInterval: interval,
		interval:        interval,
	}
}

func (s *detectorService) Start(ctx context.Context, interval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrDetectorAlreadyRunning
	}
	if interval <= 0 {
		interval = s.defaultInterval
	}

	// The loop outlives the request that started it.
	loopCtx, cancel := context.WithCancel(context.Background())
	s.running = true
	s.interval = interval
	s.cancel = cancel

	go s.loop(loopCtx, interval)

	s.log.Info("Detector started", zap.Duration("interval", interval))
	return nil
}

func (s *detectorService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrDetectorNotRunning
	}

	s.cancel()
	s.cancel = nil
	s.running = false

	s.log.Info("Detector stopped")
	return nil
}

func (s *detectorService) Status(ctx context.Context) (*response.DetectorStatusResponse, error) {
	rules, err := s.repo.ViolationRule.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load violation rules: %w", err)
	}

	enabled := 0
	for _, rule := range rules {
		if rule.Enabled {
			enabled++
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	status := &response.DetectorStatusResponse{
		IsRunning:         s.running,
		IntervalMs:        s.interval.Milliseconds(),
		RulesCount:        len(rules),
		EnabledRulesCount: enabled,
	}
	if !s.lastSweep.IsZero() {
		status.LastSweepAt = s.lastSweep.Format(time.RFC3339)
	}
	return status, nil
}

func (s *detectorService) loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunSweep(ctx); err != nil {
				s.log.Error("Sweep failed", zap.Error(err))
			}
		}
	}
}

func (s *detectorService) RunSweep(ctx context.Context) (int, error) {
	if !s.sweepMu.TryLock() {
		s.log.Warn("Sweep already in progress, skipping")
		return 0, nil
	}
	defer s.sweepMu.Unlock()

	now := s.now()

	if _, err := s.sweeper.SweepExpired(ctx); err != nil {
		// Housekeeping failure does not block rule evaluation.
		s.log.Error("Expiry sweep failed", zap.Error(err))
	}

	rules, err := s.repo.ViolationRule.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load violation rules: %w", err)
	}

	enabled := make(map[string]*entity.ViolationRule, len(rules))
	for _, rule := range rules {
		if rule.Enabled {
			enabled[rule.ID] = rule
		}
	}

	// One failing rule never blocks the others.
	created := 0
	if rule := enabled[entity.RuleNoShow]; rule != nil {
		n, err := s.detectNoShows(ctx, now, rule)
		if err != nil {
			s.log.Error("No-show detection failed", zap.Error(err))
		}
		created += n
	}
	if rule := enabled[entity.RuleOverstay]; rule != nil {
		n, err := s.detectOverdueCheckOuts(ctx, now, rule, entity.ViolationOverstay, overstayAfter)
		if err != nil {
			s.log.Error("Overstay detection failed", zap.Error(err))
		}
		created += n
	}
	if rule := enabled[entity.RuleLateCheckIn]; rule != nil {
		n, err := s.detectLateCheckIns(ctx, now, rule)
		if err != nil {
			s.log.Error("Late check-in detection failed", zap.Error(err))
		}
		created += n
	}
	if rule := enabled[entity.RuleUnauthorizedExtension]; rule != nil {
		n, err := s.detectOverdueCheckOuts(ctx, now, rule, entity.ViolationUnauthorizedExtension, extensionAfter)
		if err != nil {
			s.log.Error("Unauthorized extension detection failed", zap.Error(err))
		}
		created += n
	}
	if rule := enabled[entity.RuleFrequentCancellation]; rule != nil {
		n, err := s.detectFrequentCancellations(ctx, now, rule)
		if err != nil {
			s.log.Error("Frequent cancellation detection failed", zap.Error(err))
		}
		created += n
	}

	s.mu.Lock()
	s.lastSweep = now
	s.mu.Unlock()

	if created > 0 {
		s.log.Info("Sweep finished", zap.Int("violations_created", created))
	}
	return created, nil
}

func (s *detectorService) detectNoShows(ctx context.Context, now time.Time, rule *entity.ViolationRule) (int, error) {
	overdue, err := s.repo.Reservation.FindPendingStarted(ctx, now.Add(-noShowAfter))
	if err != nil {
		return 0, fmt.Errorf("find overdue pending reservations: %w", err)
	}

	created := 0
	for _, reservation := range overdue {
		description := fmt.Sprintf("No check-in within %d minutes of the %s start",
			int(noShowAfter.Minutes()), reservation.StartTime.Format("15:04"))

		added, err := s.record(ctx, now, reservation.UserID, &reservation.ID, entity.ViolationNoShow, description)
		if err != nil {
			s.log.Error("Failed to record no-show", zap.Error(err),
				zap.String("reservation_id", reservation.ID.String()))
			continue
		}
		if !added {
			continue
		}
		created++

		if rule.AutoResolve {
			s.forfeitReservation(ctx, now, reservation)
		}
	}
	return created, nil
}

func (s *detectorService) detectLateCheckIns(ctx context.Context, now time.Time, rule *entity.ViolationRule) (int, error) {
	active, err := s.repo.Reservation.FindActiveAt(ctx, now, activeGrace)
	if err != nil {
		return 0, fmt.Errorf("find active reservations: %w", err)
	}

	created := 0
	for _, reservation := range active {
		if reservation.CheckInTime == nil {
			continue
		}
		delay := reservation.CheckInTime.Sub(reservation.StartTime)
		if delay <= lateCheckInAfter {
			continue
		}

		description := fmt.Sprintf("Checked in %d minutes after the reservation start", int(delay.Minutes()))
		added, err := s.record(ctx, now, reservation.UserID, &reservation.ID, entity.ViolationLateCheckIn, description)
		if err != nil {
			s.log.Error("Failed to record late check-in", zap.Error(err),
				zap.String("reservation_id", reservation.ID.String()))
			continue
		}
		if added {
			created++
		}
	}
	return created, nil
}

// detectOverdueCheckOuts serves both the overstay and the unauthorized
// extension rules; they differ only in threshold and violation type.
func (s *detectorService) detectOverdueCheckOuts(ctx context.Context, now time.Time, rule *entity.ViolationRule, vType entity.ViolationType, threshold time.Duration) (int, error) {
	overdue, err := s.repo.Reservation.FindConfirmedEnded(ctx, now.Add(-threshold))
	if err != nil {
		return 0, fmt.Errorf("find overdue confirmed reservations: %w", err)
	}

	created := 0
	for _, reservation := range overdue {
		description := fmt.Sprintf("No check-out %d minutes after the reservation end", int(threshold.Minutes()))
		added, err := s.record(ctx, now, reservation.UserID, &reservation.ID, vType, description)
		if err != nil {
			s.log.Error("Failed to record overdue check-out", zap.Error(err),
				zap.String("type", string(vType)),
				zap.String("reservation_id", reservation.ID.String()))
			continue
		}
		if !added {
			continue
		}
		created++

		if rule.AutoResolve {
			s.forceCheckOut(ctx, now, reservation)
		}
	}
	return created, nil
}

func (s *detectorService) detectFrequentCancellations(ctx context.Context, now time.Time, rule *entity.ViolationRule) (int, error) {
	cancelled, err := s.repo.Reservation.FindCancelledSince(ctx, now.Add(-cancellationWindow))
	if err != nil {
		return 0, fmt.Errorf("find recent cancellations: %w", err)
	}

	counts := make(map[uuid.UUID]int)
	for _, reservation := range cancelled {
		counts[reservation.UserID]++
	}

	created := 0
	for userID, count := range counts {
		if count < cancellationThreshold {
			continue
		}

		description := fmt.Sprintf("%d cancellations within 24 hours", count)
		added, err := s.record(ctx, now, userID, nil, entity.ViolationFrequentCancellation, description)
		if err != nil {
			s.log.Error("Failed to record frequent cancellation", zap.Error(err),
				zap.String("user_id", userID.String()))
			continue
		}
		if !added {
			continue
		}
		created++

		if rule.AutoResolve {
			if err := s.repo.User.SetBanned(ctx, userID, true); err != nil {
				s.log.Error("Failed to ban user", zap.Error(err), zap.String("user_id", userID.String()))
				continue
			}
			s.log.Warn("User banned for frequent cancellations",
				zap.String("user_id", userID.String()),
				zap.Int("cancellations", count),
			)
		}
	}
	return created, nil
}

// record appends a ledger entry unless one with the same user, type,
// reservation and calendar day already exists.
func (s *detectorService) record(ctx context.Context, now time.Time, userID uuid.UUID, reservationID *uuid.UUID, vType entity.ViolationType, description string) (bool, error) {
	existing, err := s.repo.Violation.FindDuplicate(ctx, userID, vType, reservationID, now)
	if err != nil {
		return false, fmt.Errorf("check duplicate violation: %w", err)
	}
	if existing != nil {
		return false, nil
	}

	violation := &entity.Violation{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:        userID,
		ReservationID: reservationID,
		Type:          vType,
		Description:   description,
		Penalty:       penaltyTexts[vType],
	}

	if err := s.repo.Violation.Create(ctx, violation); err != nil {
		return false, fmt.Errorf("create violation: %w", err)
	}
	if err := s.repo.User.IncrementViolationCount(ctx, userID); err != nil {
		s.log.Error("Failed to increment violation count", zap.Error(err),
			zap.String("user_id", userID.String()))
	}

	s.log.Info("Violation recorded",
		zap.String("violation_id", violation.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("type", string(vType)),
	)
	return true, nil
}

// forfeitReservation cancels a no-show slot and frees the seat. The status is
// re-read first; the owner may have checked in between detection and now.
func (s *detectorService) forfeitReservation(ctx context.Context, now time.Time, stale *entity.Reservation) {
	reservation, err := s.repo.Reservation.FindByID(ctx, stale.ID)
	if err != nil || reservation == nil {
		return
	}
	if reservation.Status != entity.ReservationStatusPending {
		return
	}

	reservation.Status = entity.ReservationStatusCancelled
	reservation.UpdatedAt = now
	if err := s.repo.Reservation.Update(ctx, reservation); err != nil {
		s.log.Error("Failed to forfeit no-show reservation", zap.Error(err),
			zap.String("reservation_id", reservation.ID.String()))
		return
	}
	if err := s.repo.Seat.UpdateStatus(ctx, reservation.SeatID, entity.SeatStatusAvailable); err != nil {
		s.log.Error("Failed to free seat after forfeit", zap.Error(err),
			zap.String("seat_id", reservation.SeatID.String()))
	}

	s.log.Info("No-show reservation forfeited",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("user_id", reservation.UserID.String()),
	)
}

// forceCheckOut closes an overdue session on the owner's behalf.
func (s *detectorService) forceCheckOut(ctx context.Context, now time.Time, stale *entity.Reservation) {
	reservation, err := s.repo.Reservation.FindByID(ctx, stale.ID)
	if err != nil || reservation == nil {
		return
	}
	if reservation.Status != entity.ReservationStatusConfirmed {
		return
	}

	reservation.Status = entity.ReservationStatusCompleted
	reservation.CheckOutTime = &now
	reservation.UpdatedAt = now
	if err := s.repo.Reservation.Update(ctx, reservation); err != nil {
		s.log.Error("Failed to force check-out", zap.Error(err),
			zap.String("reservation_id", reservation.ID.String()))
		return
	}
	if err := s.repo.Seat.UpdateStatus(ctx, reservation.SeatID, entity.SeatStatusAvailable); err != nil {
		s.log.Error("Failed to free seat after forced check-out", zap.Error(err),
			zap.String("seat_id", reservation.SeatID.String()))
	}

	s.log.Info("Forced check-out",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("user_id", reservation.UserID.String()),
	)
}

func (s *detectorService) GetRules(ctx context.Context) ([]response.RuleResponse, error) {
	rules, err := s.repo.ViolationRule.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load violation rules: %w", err)
	}

	items := make([]response.RuleResponse, len(rules))
	for i, rule := range rules {
		items[i] = response.RuleToResponse(rule)
	}
	return items, nil
}

func (s *detectorService) UpdateRule(ctx context.Context, ruleID string, req *request.UpdateRuleRequest) (*response.RuleResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	rule, err := s.repo.ViolationRule.FindByID(ctx, ruleID)
	if err != nil {
		return nil, fmt.Errorf("find violation rule: %w", err)
	}
	if rule == nil {
		return nil, fmt.Errorf("violation rule %s not found", ruleID)
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Description != nil {
		rule.Description = *req.Description
	}
	if req.Enabled != nil {
		rule.Enabled = *req.Enabled
	}
	if req.Severity != nil {
		rule.Severity = entity.RuleSeverity(*req.Severity)
	}
	if req.AutoResolve != nil {
		rule.AutoResolve = *req.AutoResolve
	}
	rule.UpdatedAt = s.now()

	if err := s.repo.ViolationRule.Update(ctx, rule); err != nil {
		return nil, fmt.Errorf("update violation rule: %w", err)
	}

	s.log.Info("Violation rule updated",
		zap.String("rule_id", ruleID),
		zap.Bool("enabled", rule.Enabled),
		zap.Bool("auto_resolve", rule.AutoResolve),
	)

	resp := response.RuleToResponse(rule)
	return &resp, nil
}
