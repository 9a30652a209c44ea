package usecase

import (
	"context"
	"sync"
	"time"

	"library-seating/internal/data/entity"
	"library-seating/internal/data/repository"

	"github.com/google/uuid"
)

// In-memory repository fakes. Everything is stored by value so tests see
// only what Update persisted.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]entity.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[id]; ok {
		u := user
		return &u, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) IncrementViolationCount(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user := f.users[userID]
	user.ViolationCount++
	f.users[userID] = user
	return nil
}

func (f *fakeUserRepo) SetBanned(ctx context.Context, userID uuid.UUID, banned bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user := f.users[userID]
	user.IsBanned = banned
	f.users[userID] = user
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]entity.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]entity.Session)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.ID] = *session
	return nil
}

func (f *fakeSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, session := range f.sessions {
		if session.Token.String() == token && session.RevokedAt == nil && session.ExpiresAt.After(time.Now()) {
			s := session
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) Revoke(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for id, session := range f.sessions {
		if session.Token.String() == token {
			session.RevokedAt = &now
			f.sessions[id] = session
		}
	}
	return nil
}

func (f *fakeSessionRepo) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for id, session := range f.sessions {
		if session.UserID == userID {
			session.RevokedAt = &now
			f.sessions[id] = session
		}
	}
	return nil
}

type fakeAreaRepo struct {
	mu    sync.Mutex
	areas map[uuid.UUID]entity.Area
}

func newFakeAreaRepo() *fakeAreaRepo {
	return &fakeAreaRepo{areas: make(map[uuid.UUID]entity.Area)}
}

func (f *fakeAreaRepo) Create(ctx context.Context, area *entity.Area) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.areas[area.ID] = *area
	return nil
}

func (f *fakeAreaRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Area, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if area, ok := f.areas[id]; ok {
		a := area
		return &a, nil
	}
	return nil, nil
}

func (f *fakeAreaRepo) FindAllActive(ctx context.Context) ([]*entity.Area, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Area
	for _, area := range f.areas {
		if area.IsActive {
			a := area
			out = append(out, &a)
		}
	}
	return out, nil
}

type fakeSeatRepo struct {
	mu    sync.Mutex
	seats map[uuid.UUID]entity.Seat
}

func newFakeSeatRepo() *fakeSeatRepo {
	return &fakeSeatRepo{seats: make(map[uuid.UUID]entity.Seat)}
}

func (f *fakeSeatRepo) Create(ctx context.Context, seat *entity.Seat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seats[seat.ID] = *seat
	return nil
}

func (f *fakeSeatRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if seat, ok := f.seats[id]; ok {
		s := seat
		return &s, nil
	}
	return nil, nil
}

func (f *fakeSeatRepo) FindByArea(ctx context.Context, areaID uuid.UUID) ([]*entity.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Seat
	for _, seat := range f.seats {
		if seat.AreaID == areaID {
			s := seat
			out = append(out, &s)
		}
	}
	return out, nil
}

func (f *fakeSeatRepo) FindByStatus(ctx context.Context, status entity.SeatStatus) ([]*entity.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Seat
	for _, seat := range f.seats {
		if seat.Status == status {
			s := seat
			out = append(out, &s)
		}
	}
	return out, nil
}

func (f *fakeSeatRepo) UpdateStatus(ctx context.Context, seatID uuid.UUID, status entity.SeatStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	seat := f.seats[seatID]
	seat.Status = status
	f.seats[seatID] = seat
	return nil
}

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]entity.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: make(map[uuid.UUID]entity.Reservation)}
}

func (f *fakeReservationRepo) Create(ctx context.Context, reservation *entity.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reservations[reservation.ID] = *reservation
	return nil
}

func (f *fakeReservationRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if reservation, ok := f.reservations[id]; ok {
		r := reservation
		return &r, nil
	}
	return nil, nil
}

func (f *fakeReservationRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Reservation
	for _, reservation := range f.reservations {
		if reservation.UserID == userID {
			r := reservation
			out = append(out, &r)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, reservation := range f.reservations {
		if reservation.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeReservationRepo) Update(ctx context.Context, reservation *entity.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reservations[reservation.ID] = *reservation
	return nil
}

func (f *fakeReservationRepo) FindActiveAt(ctx context.Context, now time.Time, grace time.Duration) ([]*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Reservation
	for _, reservation := range f.reservations {
		if reservation.Status != entity.ReservationStatusConfirmed {
			continue
		}
		if reservation.StartTime.After(now.Add(grace)) || reservation.EndTime.Before(now.Add(-grace)) {
			continue
		}
		r := reservation
		out = append(out, &r)
	}
	return out, nil
}

func (f *fakeReservationRepo) FindPendingStarted(ctx context.Context, before time.Time) ([]*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Reservation
	for _, reservation := range f.reservations {
		if reservation.Status == entity.ReservationStatusPending && !reservation.StartTime.After(before) {
			r := reservation
			out = append(out, &r)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) FindConfirmedEnded(ctx context.Context, before time.Time) ([]*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Reservation
	for _, reservation := range f.reservations {
		if reservation.Status == entity.ReservationStatusConfirmed && !reservation.EndTime.After(before) {
			r := reservation
			out = append(out, &r)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) FindCancelledSince(ctx context.Context, since time.Time) ([]*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Reservation
	for _, reservation := range f.reservations {
		if reservation.Status == entity.ReservationStatusCancelled && reservation.UpdatedAt.After(since) {
			r := reservation
			out = append(out, &r)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) FindTempReleased(ctx context.Context) ([]*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Reservation
	for _, reservation := range f.reservations {
		if reservation.Status == entity.ReservationStatusTempReleased {
			r := reservation
			out = append(out, &r)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) FindOverlapping(ctx context.Context, seatID uuid.UUID, start, end time.Time) ([]*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Reservation
	for _, reservation := range f.reservations {
		if reservation.SeatID != seatID {
			continue
		}
		switch reservation.Status {
		case entity.ReservationStatusPending, entity.ReservationStatusConfirmed, entity.ReservationStatusTempReleased:
		default:
			continue
		}
		if reservation.StartTime.Before(end) && reservation.EndTime.After(start) {
			r := reservation
			out = append(out, &r)
		}
	}
	return out, nil
}

type fakeViolationRepo struct {
	mu         sync.Mutex
	violations map[uuid.UUID]entity.Violation
}

func newFakeViolationRepo() *fakeViolationRepo {
	return &fakeViolationRepo{violations: make(map[uuid.UUID]entity.Violation)}
}

func (f *fakeViolationRepo) Create(ctx context.Context, violation *entity.Violation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.violations[violation.ID] = *violation
	return nil
}

func (f *fakeViolationRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Violation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if violation, ok := f.violations[id]; ok {
		v := violation
		return &v, nil
	}
	return nil, nil
}

func (f *fakeViolationRepo) FindAll(ctx context.Context) ([]*entity.Violation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Violation
	for _, violation := range f.violations {
		v := violation
		out = append(out, &v)
	}
	return out, nil
}

func (f *fakeViolationRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Violation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Violation
	for _, violation := range f.violations {
		if violation.UserID == userID {
			v := violation
			out = append(out, &v)
		}
	}
	return out, nil
}

func (f *fakeViolationRepo) FindUnresolved(ctx context.Context) ([]*entity.Violation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Violation
	for _, violation := range f.violations {
		if !violation.IsResolved {
			v := violation
			out = append(out, &v)
		}
	}
	return out, nil
}

func (f *fakeViolationRepo) FindDuplicate(ctx context.Context, userID uuid.UUID, vType entity.ViolationType, reservationID *uuid.UUID, day time.Time) (*entity.Violation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, violation := range f.violations {
		if violation.UserID != userID || violation.Type != vType {
			continue
		}
		if (violation.ReservationID == nil) != (reservationID == nil) {
			continue
		}
		if reservationID != nil && *violation.ReservationID != *reservationID {
			continue
		}
		vy, vm, vd := violation.CreatedAt.Date()
		dy, dm, dd := day.Date()
		if vy == dy && vm == dm && vd == dd {
			v := violation
			return &v, nil
		}
	}
	return nil, nil
}

func (f *fakeViolationRepo) Resolve(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	violation := f.violations[id]
	violation.IsResolved = true
	violation.ResolvedAt = &at
	violation.ResolvedBy = &resolvedBy
	f.violations[id] = violation
	return nil
}

type fakeRuleRepo struct {
	mu    sync.Mutex
	rules map[string]entity.ViolationRule
}

func newFakeRuleRepo() *fakeRuleRepo {
	f := &fakeRuleRepo{rules: make(map[string]entity.ViolationRule)}

	for i, seed := range []struct {
		id          string
		severity    entity.RuleSeverity
		autoResolve bool
	}{
		{entity.RuleNoShow, entity.SeverityMedium, false},
		{entity.RuleOverstay, entity.SeverityHigh, true},
		{entity.RuleLateCheckIn, entity.SeverityLow, false},
		{entity.RuleFrequentCancellation, entity.SeverityMedium, false},
		{entity.RuleUnauthorizedExtension, entity.SeverityHigh, true},
	} {
		f.rules[seed.id] = entity.ViolationRule{
			ID:          seed.id,
			Name:        seed.id,
			Enabled:     true,
			Severity:    seed.severity,
			AutoResolve: seed.autoResolve,
			SortOrder:   i + 1,
		}
	}
	return f
}

func (f *fakeRuleRepo) EnsureDefaults(ctx context.Context) error { return nil }

func (f *fakeRuleRepo) FindAll(ctx context.Context) ([]*entity.ViolationRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.ViolationRule
	for _, rule := range f.rules {
		r := rule
		out = append(out, &r)
	}
	return out, nil
}

func (f *fakeRuleRepo) FindByID(ctx context.Context, id string) (*entity.ViolationRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rule, ok := f.rules[id]; ok {
		r := rule
		return &r, nil
	}
	return nil, nil
}

func (f *fakeRuleRepo) Update(ctx context.Context, rule *entity.ViolationRule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[rule.ID] = *rule
	return nil
}

func (f *fakeRuleRepo) setRule(id string, enabled, autoResolve bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rule := f.rules[id]
	rule.Enabled = enabled
	rule.AutoResolve = autoResolve
	f.rules[id] = rule
}

func newFakeRepository() (*repository.Repository, *fakeRuleRepo) {
	rules := newFakeRuleRepo()
	return &repository.Repository{
		User:          newFakeUserRepo(),
		Session:       newFakeSessionRepo(),
		Area:          newFakeAreaRepo(),
		Seat:          newFakeSeatRepo(),
		Reservation:   newFakeReservationRepo(),
		Violation:     newFakeViolationRepo(),
		ViolationRule: rules,
	}, rules
}
