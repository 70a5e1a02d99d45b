// Package memstore is an in-process implementation of the persistence ports.
// Every unit of work holds one store-wide lock and runs against a private
// copy of the data that replaces the live copy only on success, which makes
// transactions serializable and rollback free.
package memstore

import (
	"context"
	"maps"
	"sync"

	"meeting-room-booking/internal/domain/booking"
	"meeting-room-booking/internal/domain/employee"
	"meeting-room-booking/internal/domain/room"
	"meeting-room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type Store struct {
	mu   sync.Mutex
	data *state
}

type state struct {
	rooms          map[uuid.UUID]room.Room
	employees      map[uuid.UUID]employee.Employee
	bookings       map[uuid.UUID]booking.Booking
	approvals      map[uuid.UUID]booking.ApprovalRecord // keyed by booking id
	accessEvents   map[uuid.UUID]booking.AccessEvent
	unlockRequests map[uuid.UUID]employee.UnlockRequest
	idempotency    map[idempotencyKey]shared.IdempotencyRecord
}

type idempotencyKey struct {
	key        uuid.UUID
	employeeID uuid.UUID
}

func newState() *state {
	return &state{
		rooms:          make(map[uuid.UUID]room.Room),
		employees:      make(map[uuid.UUID]employee.Employee),
		bookings:       make(map[uuid.UUID]booking.Booking),
		approvals:      make(map[uuid.UUID]booking.ApprovalRecord),
		accessEvents:   make(map[uuid.UUID]booking.AccessEvent),
		unlockRequests: make(map[uuid.UUID]employee.UnlockRequest),
		idempotency:    make(map[idempotencyKey]shared.IdempotencyRecord),
	}
}

// clone copies every table. Entities are stored by value so a copy never
// aliases the live data.
func (s *state) clone() *state {
	return &state{
		rooms:          maps.Clone(s.rooms),
		employees:      maps.Clone(s.employees),
		bookings:       maps.Clone(s.bookings),
		approvals:      maps.Clone(s.approvals),
		accessEvents:   maps.Clone(s.accessEvents),
		unlockRequests: maps.Clone(s.unlockRequests),
		idempotency:    maps.Clone(s.idempotency),
	}
}

func New() *Store {
	return &Store{data: newState()}
}

func NewUoW(store *Store) shared.UnitOfWork {
	return store
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.data.clone()
	if err := fn(ctx, &memTx{st: snapshot}); err != nil {
		return err
	}
	s.data = snapshot
	return nil
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, &memTx{st: s.data.clone()})
}

// PutRoom and the other Put methods load reference data that this service
// does not own, such as rooms and employees managed elsewhere.
func (s *Store) PutRoom(r *room.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.rooms[r.ID()] = *r
}

func (s *Store) PutEmployee(e *employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.employees[e.ID()] = *e
}

func (s *Store) PutBooking(b *booking.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.bookings[b.ID()] = *b
}

func (s *Store) PutAccessEvent(ev *booking.AccessEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.accessEvents[ev.ID()] = *ev
}

type memTx struct {
	st *state
}

func (t *memTx) Bookings() shared.BookingRepository             { return &bookingRepo{st: t.st} }
func (t *memTx) Approvals() shared.ApprovalRepository           { return &approvalRepo{st: t.st} }
func (t *memTx) AccessEvents() shared.AccessEventRepository     { return &accessEventRepo{st: t.st} }
func (t *memTx) Rooms() shared.RoomRepository                   { return &roomRepo{st: t.st} }
func (t *memTx) Employees() shared.EmployeeRepository           { return &employeeRepo{st: t.st} }
func (t *memTx) UnlockRequests() shared.UnlockRequestRepository { return &unlockRequestRepo{st: t.st} }
func (t *memTx) IdempotencyKeys() shared.IdempotencyRepository  { return &idempotencyRepo{st: t.st} }
