//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"meeting-room-booking/internal/domain/booking"
	"meeting-room-booking/internal/domain/employee"
	"meeting-room-booking/internal/domain/room"
	"meeting-room-booking/internal/infra/memstore"
	"meeting-room-booking/internal/pkg/clock"
	"meeting-room-booking/internal/pkg/secret"
	"meeting-room-booking/internal/usecase/commands"
	"meeting-room-booking/internal/usecase/shared"
	sharedmock "meeting-room-booking/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var baseTime = time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	store     *memstore.Store
	clock     *clock.MockClock
	publisher *sharedmock.MockEventPublisher

	bookings commands.BookingCommands
	access   commands.AccessCommands
	locks    commands.LockCommands

	standardRoomID uuid.UUID
	vipRoomID      uuid.UUID
	disabledRoomID uuid.UUID
	aliceID        uuid.UUID
	bobID          uuid.UUID

	mu     sync.Mutex
	events []shared.Event
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	uow     func(*memstore.Store) shared.UnitOfWork
	secrets secret.Generator
}

func withUoW(wrap func(*memstore.Store) shared.UnitOfWork) fixtureOption {
	return func(c *fixtureConfig) { c.uow = wrap }
}

func withSecrets(g secret.Generator) fixtureOption {
	return func(c *fixtureConfig) { c.secrets = g }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	cfg := fixtureConfig{
		uow:     memstore.NewUoW,
		secrets: secret.NewRandomGenerator(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctrl := gomock.NewController(t)
	f := &fixture{
		store:          memstore.New(),
		clock:          clock.NewMockClock(baseTime),
		publisher:      sharedmock.NewMockEventPublisher(ctrl),
		standardRoomID: uuid.New(),
		vipRoomID:      uuid.New(),
		disabledRoomID: uuid.New(),
		aliceID:        uuid.New(),
		bobID:          uuid.New(),
	}
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, ev shared.Event) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.events = append(f.events, ev)
		return nil
	}).AnyTimes()

	f.store.PutRoom(room.ReconstructRoom(f.standardRoomID, "Huddle", 4, room.CategoryStandard, false, baseTime, baseTime))
	f.store.PutRoom(room.ReconstructRoom(f.vipRoomID, "Board", 12, room.CategoryVIP, false, baseTime, baseTime))
	f.store.PutRoom(room.ReconstructRoom(f.disabledRoomID, "Closet", 2, room.CategoryStandard, true, baseTime, baseTime))
	f.store.PutEmployee(employee.NewEmployee(f.aliceID, "Alice", baseTime))
	f.store.PutEmployee(employee.NewEmployee(f.bobID, "Bob", baseTime))

	uow := cfg.uow(f.store)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.bookings = commands.NewBookingCommands(uow, room.VIPApprovalPolicy{}, cfg.secrets, f.publisher, f.clock, logger)
	f.access = commands.NewAccessCommands(uow, f.publisher, f.clock, logger)
	f.locks = commands.NewLockCommands(uow, f.publisher, f.clock, logger)
	return f
}

func (f *fixture) publishedTypes() []shared.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]shared.EventType, len(f.events))
	for i, ev := range f.events {
		types[i] = ev.Type
	}
	return types
}

func (f *fixture) params(roomID uuid.UUID, start time.Time, d time.Duration) commands.CreateBookingParams {
	return commands.CreateBookingParams{RoomID: roomID, StartTime: start, EndTime: start.Add(d)}
}

// putApproved stores an approved booking directly, bypassing the use cases.
func (f *fixture) putApproved(t *testing.T, employeeID, roomID uuid.UUID, start time.Time) *booking.Booking {
	t.Helper()
	slot, err := booking.NewTimeSlot(start, start.Add(time.Hour))
	require.NoError(t, err)
	sec, err := booking.NewSecret("A1B2C3D4")
	require.NoError(t, err)
	b := booking.ReconstructBooking(uuid.New(), employeeID, roomID, slot, booking.StatusApproved, sec, nil, start, start)
	f.store.PutBooking(b)
	return b
}

func (f *fixture) read(t *testing.T, fn func(ctx context.Context, tx shared.Tx) error) {
	t.Helper()
	require.NoError(t, f.store.WithinReadOnly(context.Background(), fn))
}

func (f *fixture) employee(t *testing.T, id uuid.UUID) *employee.Employee {
	t.Helper()
	var e *employee.Employee
	f.read(t, func(ctx context.Context, tx shared.Tx) error {
		var err error
		e, err = tx.Employees().FindByID(ctx, id)
		return err
	})
	return e
}
