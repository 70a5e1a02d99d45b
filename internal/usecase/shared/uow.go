package shared

import (
	"context"
	"time"

	"meeting-room-booking/internal/domain/booking"
	"meeting-room-booking/internal/domain/employee"
	"meeting-room-booking/internal/domain/room"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: one all-or-nothing transaction for a mutating operation
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: consistent multi-table reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx hands out repositories bound to the same transaction handle.
type Tx interface {
	Bookings() BookingRepository
	Approvals() ApprovalRepository
	AccessEvents() AccessEventRepository
	Rooms() RoomRepository
	Employees() EmployeeRepository
	UnlockRequests() UnlockRequestRepository
	IdempotencyKeys() IdempotencyRepository
}

type BookingRepository interface {
	booking.ApprovedBookingFinder

	Create(ctx context.Context, b *booking.Booking) error
	// UpdateStatus persists status, cancellation reason and updated_at.
	UpdateStatus(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// FindByIDForUpdate locks the booking row until the transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*booking.Booking, error)
	// ListUnused returns approved bookings ended before the given instant
	// that have no access event.
	ListUnused(ctx context.Context, endedBefore time.Time) ([]*booking.Booking, error)
	// CountNoShows counts unused approved bookings per employee whose end
	// falls in [from, to). Only counts at or above minCount are returned,
	// ordered by employee id.
	CountNoShows(ctx context.Context, from, to time.Time, minCount int) ([]NoShowCount, error)
}

type NoShowCount struct {
	EmployeeID uuid.UUID
	Count      int
}

type ApprovalRepository interface {
	Create(ctx context.Context, rec *booking.ApprovalRecord) error
	Update(ctx context.Context, rec *booking.ApprovalRecord) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*booking.ApprovalRecord, error)
}

type AccessEventRepository interface {
	Create(ctx context.Context, ev *booking.AccessEvent) error
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*booking.AccessEvent, error)
}

type RoomRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*room.Room, error)
	// FindByIDForUpdate serializes booking creation per room.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*room.Room, error)
}

type EmployeeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*employee.Employee, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*employee.Employee, error)
	UpdateLocked(ctx context.Context, e *employee.Employee) error
}

type UnlockRequestRepository interface {
	Create(ctx context.Context, req *employee.UnlockRequest) error
	Resolve(ctx context.Context, req *employee.UnlockRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*employee.UnlockRequest, error)
	FindPendingByEmployee(ctx context.Context, employeeID uuid.UUID) (*employee.UnlockRequest, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*employee.UnlockRequest, error)
	ListPending(ctx context.Context) ([]*employee.UnlockRequest, error)
}

// IdempotencyRecord ties a client-supplied key to the booking its first
// request created.
type IdempotencyRecord struct {
	Key         uuid.UUID
	EmployeeID  uuid.UUID
	RequestHash string
	BookingID   uuid.UUID
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

type IdempotencyRepository interface {
	// Find returns KindNotFound unless a record for the key is still live at now.
	Find(ctx context.Context, key, employeeID uuid.UUID, now time.Time) (*IdempotencyRecord, error)
	// Save inserts rec, taking over an expired record with the same key. It
	// fails with KindConflict while a live record holds the key.
	Save(ctx context.Context, rec *IdempotencyRecord) error
}
