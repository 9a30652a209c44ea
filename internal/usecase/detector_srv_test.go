package usecase

import (
	"context"
	"testing"
	"time"

	"library-seating/internal/data/entity"
	"library-seating/internal/dto/request"
	"library-seating/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDetectorEnv(t *testing.T) (*lifecycleEnv, *detectorService) {
	t.Helper()

	env := newLifecycleEnv(t)
	config := &utils.Config{Detector: utils.DetectorConfig{Interval: time.Minute}}

	det := NewDetectorService(env.repo, env.svc, config, zap.NewNop()).(*detectorService)
	det.now = func() time.Time { return env.clock }
	return env, det
}

func userViolations(t *testing.T, env *lifecycleEnv, userID uuid.UUID) []*entity.Violation {
	t.Helper()

	violations, err := env.repo.Violation.FindByUser(context.Background(), userID)
	require.NoError(t, err)
	return violations
}

func TestDetectNoShow(t *testing.T) {
	env, det := newDetectorEnv(t)
	user := env.seedUser(t)
	seat := env.seedSeat(t)
	id := env.seedReservation(t, user, seat)

	// 16 minutes past start, never checked in.
	env.advance(time.Hour + 16*time.Minute)

	created, err := det.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	violations := userViolations(t, env, user.ID)
	require.Len(t, violations, 1)
	assert.Equal(t, entity.ViolationNoShow, violations[0].Type)
	require.NotNil(t, violations[0].ReservationID)
	assert.Equal(t, id, violations[0].ReservationID.String())
	assert.NotEmpty(t, violations[0].Penalty)

	fresh, err := env.repo.User.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.ViolationCount)

	// Default no-show rule only records; the reservation is untouched.
	assert.Equal(t, entity.ReservationStatusPending, env.reservation(t, id).Status)

	// A second sweep on the same day is deduplicated.
	env.advance(5 * time.Minute)
	created, err = det.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Len(t, userViolations(t, env, user.ID), 1)
}

func TestNoShowAutoResolveForfeits(t *testing.T) {
	env, det := newDetectorEnv(t)
	user := env.seedUser(t)
	seat := env.seedSeat(t)
	id := env.seedReservation(t, user, seat)

	env.rules.setRule(entity.RuleNoShow, true, true)
	env.advance(time.Hour + 16*time.Minute)

	created, err := det.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	assert.Equal(t, entity.ReservationStatusCancelled, env.reservation(t, id).Status)
	assert.Equal(t, entity.SeatStatusAvailable, env.seatStatus(t, seat.ID))
}

func TestDetectLateCheckIn(t *testing.T) {
	env, det := newDetectorEnv(t)
	user := env.seedUser(t)
	seat := env.seedSeat(t)
	id := env.seedReservation(t, user, seat)

	// Check in 12 minutes late, still inside the window.
	env.advance(time.Hour + 12*time.Minute)
	_, err := env.svc.CheckIn(context.Background(), user.ID.String(), id, &request.CheckInRequest{Latitude: 39.9, Longitude: 116.4})
	require.NoError(t, err)

	env.advance(15 * time.Minute)
	created, err := det.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	violations := userViolations(t, env, user.ID)
	require.Len(t, violations, 1)
	assert.Equal(t, entity.ViolationLateCheckIn, violations[0].Type)

	// Recording only, the session keeps running.
	assert.Equal(t, entity.ReservationStatusConfirmed, env.reservation(t, id).Status)
}

func TestDetectOverstayForcesCheckOut(t *testing.T) {
	env, det := newDetectorEnv(t)
	user := env.seedUser(t)
	seat := env.seedSeat(t)
	id := env.seedReservation(t, user, seat)

	// On-time check-in, then the slot ends without a check-out.
	env.advance(time.Hour)
	_, err := env.svc.CheckIn(context.Background(), user.ID.String(), id, &request.CheckInRequest{Latitude: 39.9, Longitude: 116.4})
	require.NoError(t, err)

	// 31 minutes past end.
	env.advance(2*time.Hour + 31*time.Minute)
	created, err := det.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	violations := userViolations(t, env, user.ID)
	require.Len(t, violations, 1)
	assert.Equal(t, entity.ViolationOverstay, violations[0].Type)

	reservation := env.reservation(t, id)
	assert.Equal(t, entity.ReservationStatusCompleted, reservation.Status)
	require.NotNil(t, reservation.CheckOutTime)
	assert.True(t, reservation.CheckOutTime.Equal(env.clock))
	assert.Equal(t, entity.SeatStatusAvailable, env.seatStatus(t, seat.ID))
}

func TestDetectUnauthorizedExtension(t *testing.T) {
	env, det := newDetectorEnv(t)
	user := env.seedUser(t)
	seat := env.seedSeat(t)
	id := env.seedReservation(t, user, seat)

	// With the overstay rule off, the one-hour threshold still closes the
	// session.
	env.rules.setRule(entity.RuleOverstay, false, true)

	env.advance(time.Hour)
	_, err := env.svc.CheckIn(context.Background(), user.ID.String(), id, &request.CheckInRequest{Latitude: 39.9, Longitude: 116.4})
	require.NoError(t, err)

	env.advance(3*time.Hour + time.Minute)
	created, err := det.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	violations := userViolations(t, env, user.ID)
	require.Len(t, violations, 1)
	assert.Equal(t, entity.ViolationUnauthorizedExtension, violations[0].Type)
	assert.Equal(t, entity.ReservationStatusCompleted, env.reservation(t, id).Status)
}

func TestDetectFrequentCancellationsBansUser(t *testing.T) {
	env, det := newDetectorEnv(t)
	user := env.seedUser(t)
	env.rules.setRule(entity.RuleFrequentCancellation, true, true)

	for i := 0; i < 3; i++ {
		seat := env.seedSeat(t)
		id := env.seedReservation(t, user, seat)
		require.NoError(t, env.svc.Cancel(context.Background(), user.ID.String(), id))
	}

	created, err := det.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	violations := userViolations(t, env, user.ID)
	require.Len(t, violations, 1)
	assert.Equal(t, entity.ViolationFrequentCancellation, violations[0].Type)
	assert.Nil(t, violations[0].ReservationID)

	fresh, err := env.repo.User.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, fresh.IsBanned)

	// Same day, same user: one ledger entry only.
	created, err = det.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestTwoCancellationsStayClean(t *testing.T) {
	env, det := newDetectorEnv(t)
	user := env.seedUser(t)

	for i := 0; i < 2; i++ {
		seat := env.seedSeat(t)
		id := env.seedReservation(t, user, seat)
		require.NoError(t, env.svc.Cancel(context.Background(), user.ID.String(), id))
	}

	created, err := det.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Empty(t, userViolations(t, env, user.ID))
}

func TestDisabledRuleSkipped(t *testing.T) {
	env, det := newDetectorEnv(t)
	user := env.seedUser(t)
	seat := env.seedSeat(t)
	env.seedReservation(t, user, seat)

	env.rules.setRule(entity.RuleNoShow, false, false)
	env.advance(time.Hour + 16*time.Minute)

	created, err := det.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Empty(t, userViolations(t, env, user.ID))
}

func TestDetectorStartStop(t *testing.T) {
	_, det := newDetectorEnv(t)
	ctx := context.Background()

	require.NoError(t, det.Start(ctx, time.Minute))
	assert.ErrorIs(t, det.Start(ctx, time.Minute), ErrDetectorAlreadyRunning)

	status, err := det.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.IsRunning)
	assert.Equal(t, time.Minute.Milliseconds(), status.IntervalMs)
	assert.Equal(t, 5, status.RulesCount)
	assert.Equal(t, 5, status.EnabledRulesCount)

	require.NoError(t, det.Stop(ctx))
	assert.ErrorIs(t, det.Stop(ctx), ErrDetectorNotRunning)

	status, err = det.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.IsRunning)
}

func TestUpdateRule(t *testing.T) {
	_, det := newDetectorEnv(t)

	enabled := false
	severity := "low"
	rule, err := det.UpdateRule(context.Background(), entity.RuleOverstay, &request.UpdateRuleRequest{
		Enabled:  &enabled,
		Severity: &severity,
	})
	require.NoError(t, err)
	assert.False(t, rule.Enabled)
	assert.Equal(t, "low", rule.Severity)

	_, err = det.UpdateRule(context.Background(), "does-not-exist", &request.UpdateRuleRequest{Enabled: &enabled})
	assert.ErrorContains(t, err, "not found")
}
