package usecase

import (
	"context"
	"testing"
	"time"

	"library-seating/internal/data/entity"
	"library-seating/internal/data/repository"
	"library-seating/internal/dto/request"
	"library-seating/internal/location"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubVerifier struct {
	allowed bool
	err     error
}

func (v *stubVerifier) Verify(ctx context.Context, lat, lng float64) (location.Result, error) {
	if v.err != nil {
		return location.Result{}, v.err
	}
	return location.Result{Allowed: v.allowed, Zone: "main-library", DistanceM: 42}, nil
}

type lifecycleEnv struct {
	repo     *repository.Repository
	rules    *fakeRuleRepo
	svc      *reservationService
	verifier *stubVerifier
	clock    time.Time
}

func newLifecycleEnv(t *testing.T) *lifecycleEnv {
	t.Helper()

	repo, rules := newFakeRepository()
	env := &lifecycleEnv{
		repo:     repo,
		rules:    rules,
		verifier: &stubVerifier{allowed: true},
		clock:    time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC),
	}

	env.svc = NewReservationService(repo, env.verifier, zap.NewNop()).(*reservationService)
	env.svc.now = func() time.Time { return env.clock }
	return env
}

func (env *lifecycleEnv) advance(d time.Duration) {
	env.clock = env.clock.Add(d)
}

func (env *lifecycleEnv) seedUser(t *testing.T) *entity.User {
	t.Helper()

	user := &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: env.clock, UpdatedAt: env.clock},
		Username: "reader-" + uuid.NewString()[:8],
		Email:    uuid.NewString()[:8] + "@campus.edu",
		Name:     "Reader",
		Role:     entity.RoleStudent,
		IsActive: true,
	}
	require.NoError(t, env.repo.User.Create(context.Background(), user))
	return user
}

func (env *lifecycleEnv) seedSeat(t *testing.T) *entity.Seat {
	t.Helper()

	seat := &entity.Seat{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: env.clock, UpdatedAt: env.clock},
		AreaID:       uuid.New(),
		SeatNumber:   "A-001",
		Floor:        1,
		SeatRow:      1,
		SeatColumn:   1,
		Status:       entity.SeatStatusAvailable,
		IsReservable: true,
	}
	require.NoError(t, env.repo.Seat.Create(context.Background(), seat))
	return seat
}

// seedReservation books a slot starting one hour from the current clock.
func (env *lifecycleEnv) seedReservation(t *testing.T, user *entity.User, seat *entity.Seat) string {
	t.Helper()

	resp, err := env.svc.Create(context.Background(), user.ID.String(), &request.CreateReservationRequest{
		SeatID:    seat.ID.String(),
		StartTime: env.clock.Add(time.Hour),
		EndTime:   env.clock.Add(3 * time.Hour),
	})
	require.NoError(t, err)
	return resp.ID
}

func (env *lifecycleEnv) seatStatus(t *testing.T, seatID uuid.UUID) entity.SeatStatus {
	t.Helper()

	seat, err := env.repo.Seat.FindByID(context.Background(), seatID)
	require.NoError(t, err)
	require.NotNil(t, seat)
	return seat.Status
}

func (env *lifecycleEnv) reservation(t *testing.T, id string) *entity.Reservation {
	t.Helper()

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	reservation, err := env.repo.Reservation.FindByID(context.Background(), parsed)
	require.NoError(t, err)
	require.NotNil(t, reservation)
	return reservation
}

func TestCreateReservation(t *testing.T) {
	env := newLifecycleEnv(t)
	user := env.seedUser(t)
	seat := env.seedSeat(t)

	resp, err := env.svc.Create(context.Background(), user.ID.String(), &request.CreateReservationRequest{
		SeatID:    seat.ID.String(),
		StartTime: env.clock.Add(time.Hour),
		EndTime:   env.clock.Add(3 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "upcoming", resp.DisplayStatus)
	assert.Equal(t, "A-001", resp.SeatName)
	assert.Equal(t, entity.SeatStatusReserved, env.seatStatus(t, seat.ID))
}

func TestCreateReservationOverlapRejected(t *testing.T) {
	env := newLifecycleEnv(t)
	user := env.seedUser(t)
	seat := env.seedSeat(t)
	env.seedReservation(t, user, seat)

	other := env.seedUser(t)
	_, err := env.svc.Create(context.Background(), other.ID.String(), &request.CreateReservationRequest{
		SeatID:    seat.ID.String(),
		StartTime: env.clock.Add(2 * time.Hour),
		EndTime:   env.clock.Add(4 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrSeatConflict)
}

func TestCreateReservationBannedUser(t *testing.T) {
	env := newLifecycleEnv(t)
	user := env.seedUser(t)
	seat := env.seedSeat(t)
	require.NoError(t, env.repo.User.SetBanned(context.Background(), user.ID, true))

	_, err := env.svc.Create(context.Background(), user.ID.String(), &request.CreateReservationRequest{
		SeatID:    seat.ID.String(),
		StartTime: env.clock.Add(time.Hour),
		EndTime:   env.clock.Add(3 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrUserBanned)
}

func TestCheckInBeforeWindowOpens(t *testing.T) {
	env := newLifecycleEnv(t)
	user := env.seedUser(t)
	seat := env.seedSeat(t)
	id := env.seedReservation(t, user, seat)

	// 20 minutes early, window opens at start-15m.
	env.advance(40 * time.Minute)

	_, err := env.svc.CheckIn(context.Background(), user.ID.String(), id, &request.CheckInRequest{Latitude: 39.9, Longitude: 116.4})
	assert.ErrorIs(t, err, ErrCheckInWindowNotOpen)
	assert.Equal(t, entity.ReservationStatusPending, env.reservation(t, id).Status)
}

func TestCheckInAfterWindowCloses(t *testing.T) {
	env := newLifecycleEnv(t)
	user := env.seedUser(t)
	seat := env.seedSeat(t)
	id := env.seedReservation(t, user, seat)

	// The window stays open through the whole slot and closes 15 minutes
	// after the end.
	env.advance(3*time.Hour + 16*time.Minute)

	_, err := env.svc.CheckIn(context.Background(), user.ID.String(), id, &request.CheckInRequest{Latitude: 39.9, Longitude: 116.4})
	assert.ErrorIs(t, err, ErrCheckInWindowClosed)
}

func TestCheckInLateButInsideWindow(t *testing.T) {
	env := newLifecycleEnv(t)
	user := env.seedUser(t)
	seat := env.seedSeat(t)
	id := env.seedReservation(t, user, seat)

	// 30 minutes past start: displayed as a no-show, still checkable.
	env.advance(time.Hour + 30*time.Minute)
	assert.Equal(t, "no_show", DeriveDisplayStatus(env.reservation(t, id), env.clock))

	resp, err := env.svc.CheckIn(context.Background(), user.ID.String(), id, &request.CheckInRequest{Latitude: 39.9, Longitude: 116.4})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
}

func TestCheckIn(t *testing.T) {
	env := newLifecycleEnv(t)
	user := env.seedUser(t)
	seat := env.seedSeat(t)
	id := env.seedReservation(t, user, seat)

	env.advance(55 * time.Minute)

	resp, err := env.svc.CheckIn(context.Background(), user.ID.String(), id, &request.CheckInRequest{Latitude: 39.9, Longitude: 116.4})
	require.NoError(t, err)

	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "checked_in", resp.DisplayStatus)
	require.NotNil(t, resp.CheckInTime)
	assert.True(t, resp.CheckInTime.Equal(env.clock))
	assert.Equal(t, entity.SeatStatusOccupied, env.seatStatus(t, seat.ID))
}

func TestCheckInOutsideZoneLeavesStateUntouched(t *testing.T) {
	env := newLifecycleEnv(t)
	user := env.seedUser(t)
	seat := env.seedSeat(t)
	id := env.seedReservation(t, user, seat)

	env.advance(55 * time.Minute)
	env.verifier.allowed = false

	_, err := env.svc.CheckIn(context.Background(), user.ID.String(), id, &request.CheckInRequest{Latitude: 1, Longitude: 1})
	assert.ErrorIs(t, err, ErrOutsideLibraryZone)

	reservation := env.reservation(t, id)
	assert.Equal(t, entity.ReservationStatusPending, reservation.Status)
	assert.Nil(t, reservation.CheckInTime)
	assert.Equal(t, entity.SeatStatusReserved, env.seatStatus(t, seat.ID))
}

func TestCheckInTwice(t *testing.T) {
	env := newLifecycleEnv(t)
	user := env.seedUser(t)
	seat := env.seedSeat(t)
	id := env.seedReservation(t, user, seat)

	env.advance(55 * time.Minute)
	_, err := env.svc.CheckIn(context.Background(), user.ID.String(), id, &request.CheckInRequest{Latitude: 39.9, Longitude: 116.4})
	require.NoError(t, err)

	_, err = env.svc.CheckIn(context.Background(), user.ID.String(), id, &request.CheckInRequest{Latitude: 39.9, Longitude: 116.4})
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
}

func TestCheckOut(t *testing.T) {
	env := newLifecycleEnv(t)
	user := env.seedUser(t)
	seat := env.seedSeat(t)
	id := env.seedReservation(t, user, seat)

	env.advance(55 * time.Minute)
	_, err := env.svc.CheckIn(context.Background(), user.ID.String(), id, &request.CheckInRequest{Latitude: 39.9, Longitude: 116.4})
	require.NoError(t, err)

	env.advance(time.Hour)
	resp, err := env.svc.CheckOut(context.Background(), user.ID.String(), id)
	require.NoError(t, err)

	assert.Equal(t, "completed", resp.Status)
	require.NotNil(t, resp.CheckOutTime)
	assert.Equal(t, entity.SeatStatusAvailable, env.seatStatus(t, seat.ID))
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	env := newLifecycleEnv(t)
	user := env.seedUser(t)
	seat := env.seedSeat(t)
	id := env.seedReservation(t, user, seat)

	_, err := env.svc.CheckOut(context.Background(), user.ID.String(), id)
	assert.ErrorIs(t, err, ErrNotCheckedIn)
}

func TestTempReleaseAndResume(t *testing.T) {
	env := newLifecycleEnv(t)
	user := env.seedUser(t)
	seat := env.seedSeat(t)
	id := env.seedReservation(t, user, seat)

	env.advance(55 * time.Minute)
	_, err := env.svc.CheckIn(context.Background(), user.ID.String(), id, &request.CheckInRequest{Latitude: 39.9, Longitude: 116.4})
	require.NoError(t, err)

	env.advance(30 * time.Minute)
	resp, err := env.svc.TempRelease(context.Background(), user.ID.String(), id, &request.TempReleaseRequest{
		DurationMinutes: 30,
		Reason:          "lunch",
	})
	require.NoError(t, err)

	// All four temp fields move together.
	assert.Equal(t, "temporarily_released", resp.Status)
	require.NotNil(t, resp.TempReleaseTime)
	require.NotNil(t, resp.TempReleaseDuration)
	require.NotNil(t, resp.TempReleaseReason)
	require.NotNil(t, resp.TempReleaseExpiryTime)
	assert.Equal(t, 30, *resp.TempReleaseDuration)
	assert.True(t, resp.TempReleaseExpiryTime.Equal(env.clock.Add(30*time.Minute)))
	assert.Equal(t, entity.SeatStatusTempReleased, env.seatStatus(t, seat.ID))

	// Checking out while released is refused.
	_, err = env.svc.CheckOut(context.Background(), user.ID.String(), id)
	assert.ErrorIs(t, err, ErrSeatOnHold)

	env.advance(10 * time.Minute)
	resumed, err := env.svc.Resume(context.Background(), user.ID.String(), id)
	require.NoError(t, err)

	assert.Equal(t, "confirmed", resumed.Status)
	assert.Nil(t, resumed.TempReleaseTime)
	assert.Nil(t, resumed.TempReleaseDuration)
	assert.Nil(t, resumed.TempReleaseReason)
	assert.Nil(t, resumed.TempReleaseExpiryTime)
	assert.NotNil(t, resumed.CheckInTime)
	assert.Equal(t, entity.SeatStatusOccupied, env.seatStatus(t, seat.ID))
}

func TestTempReleaseRequiresCheckIn(t *testing.T) {
	env := newLifecycleEnv(t)
	user := env.seedUser(t)
	seat := env.seedSeat(t)
	id := env.seedReservation(t, user, seat)

	_, err := env.svc.TempRelease(context.Background(), user.ID.String(), id, &request.TempReleaseRequest{
		DurationMinutes: 30,
		Reason:          "lunch",
	})
	assert.ErrorIs(t, err, ErrNotCheckedIn)
}

func TestCancelNotOwner(t *testing.T) {
	env := newLifecycleEnv(t)
	user := env.seedUser(t)
	other := env.seedUser(t)
	seat := env.seedSeat(t)
	id := env.seedReservation(t, user, seat)

	err := env.svc.Cancel(context.Background(), other.ID.String(), id)
	assert.ErrorIs(t, err, ErrNotReservationOwner)
}

func TestCancelFreesSeat(t *testing.T) {
	env := newLifecycleEnv(t)
	user := env.seedUser(t)
	seat := env.seedSeat(t)
	id := env.seedReservation(t, user, seat)

	require.NoError(t, env.svc.Cancel(context.Background(), user.ID.String(), id))
	assert.Equal(t, entity.ReservationStatusCancelled, env.reservation(t, id).Status)
	assert.Equal(t, entity.SeatStatusAvailable, env.seatStatus(t, seat.ID))

	err := env.svc.Cancel(context.Background(), user.ID.String(), id)
	assert.ErrorIs(t, err, ErrReservationTerminal)
}

func TestSweepClosesExpiredTempRelease(t *testing.T) {
	env := newLifecycleEnv(t)
	user := env.seedUser(t)
	seat := env.seedSeat(t)
	id := env.seedReservation(t, user, seat)

	env.advance(55 * time.Minute)
	_, err := env.svc.CheckIn(context.Background(), user.ID.String(), id, &request.CheckInRequest{Latitude: 39.9, Longitude: 116.4})
	require.NoError(t, err)

	_, err = env.svc.TempRelease(context.Background(), user.ID.String(), id, &request.TempReleaseRequest{
		DurationMinutes: 15,
		Reason:          "coffee",
	})
	require.NoError(t, err)

	// Before the hold expires the sweep leaves it alone.
	env.advance(10 * time.Minute)
	changed, err := env.svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, changed)

	env.advance(10 * time.Minute)
	changed, err = env.svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	assert.Equal(t, entity.ReservationStatusCancelled, env.reservation(t, id).Status)
	assert.Equal(t, entity.SeatStatusAvailable, env.seatStatus(t, seat.ID))
}

func TestSweepExpiresUnusedReservation(t *testing.T) {
	env := newLifecycleEnv(t)
	user := env.seedUser(t)
	seat := env.seedSeat(t)
	id := env.seedReservation(t, user, seat)

	// Past the slot end and the trailing check-in grace without any check-in.
	env.advance(3*time.Hour + 16*time.Minute)
	changed, err := env.svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	assert.Equal(t, entity.ReservationStatusExpired, env.reservation(t, id).Status)
	assert.Equal(t, entity.SeatStatusAvailable, env.seatStatus(t, seat.ID))
}

func TestDeriveDisplayStatus(t *testing.T) {
	start := time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	expiry := start.Add(30 * time.Minute)

	base := entity.Reservation{StartTime: start, EndTime: end}

	pending := base
	pending.Status = entity.ReservationStatusPending

	confirmed := base
	confirmed.Status = entity.ReservationStatusConfirmed

	released := base
	released.Status = entity.ReservationStatusTempReleased
	released.TempReleaseExpiryTime = &expiry

	done := base
	done.Status = entity.ReservationStatusCompleted

	tests := []struct {
		name        string
		reservation entity.Reservation
		now         time.Time
		want        string
	}{
		{"pending long before start", pending, start.Add(-time.Hour), "upcoming"},
		{"pending inside pre-window", pending, start.Add(-10 * time.Minute), "can_check_in"},
		{"pending past start grace", pending, start.Add(16 * time.Minute), "no_show"},
		{"confirmed mid slot", confirmed, start.Add(time.Hour), "checked_in"},
		{"confirmed past end", confirmed, end.Add(time.Minute), "overdue"},
		{"released before expiry", released, start.Add(10 * time.Minute), "temp_released"},
		{"released past expiry", released, expiry.Add(time.Minute), "temp_expired"},
		{"terminal passthrough", done, end.Add(time.Hour), "completed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reservation := tc.reservation
			assert.Equal(t, tc.want, DeriveDisplayStatus(&reservation, tc.now))
		})
	}
}
