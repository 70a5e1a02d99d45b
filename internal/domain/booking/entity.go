package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition          = errors.New("invalid booking status transition")
	ErrCancellationReasonRequired = errors.New("cancellation reason is required")
)

type Booking struct {
	id                 uuid.UUID
	employeeID         uuid.UUID
	roomID             uuid.UUID
	timeSlot           TimeSlot
	status             Status
	secret             Secret
	cancellationReason *string
	createdAt          time.Time
	updatedAt          time.Time
}

// NewBooking creates a pending booking; the secret is fixed for its lifetime.
func NewBooking(employeeID, roomID uuid.UUID, slot TimeSlot, secret Secret, now time.Time) *Booking {
	return &Booking{
		id:         uuid.New(),
		employeeID: employeeID,
		roomID:     roomID,
		timeSlot:   slot,
		status:     StatusPending,
		secret:     secret,
		createdAt:  now,
		updatedAt:  now,
	}
}

func ReconstructBooking(
	id, employeeID, roomID uuid.UUID,
	timeSlot TimeSlot,
	status Status,
	secret Secret,
	cancellationReason *string,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                 id,
		employeeID:         employeeID,
		roomID:             roomID,
		timeSlot:           timeSlot,
		status:             status,
		secret:             secret,
		cancellationReason: cancellationReason,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

func (b *Booking) Approve(now time.Time) error {
	return b.transition(StatusApproved, now)
}

func (b *Booking) Reject(now time.Time) error {
	return b.transition(StatusRejected, now)
}

func (b *Booking) Cancel(reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrCancellationReasonRequired
	}
	if err := b.transition(StatusCancelled, now); err != nil {
		return err
	}
	b.cancellationReason = &reason
	return nil
}

func (b *Booking) transition(target Status, now time.Time) error {
	if !b.status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.status, target)
	}
	b.status = target
	b.updatedAt = now
	return nil
}

func (b *Booking) IsApproved() bool {
	return b.status == StatusApproved
}

func (b *Booking) IsPending() bool {
	return b.status == StatusPending
}

// ConflictsWith applies the allocation rule: only approved bookings of the
// same room hold their slot.
func (b *Booking) ConflictsWith(roomID uuid.UUID, slot TimeSlot) bool {
	return b.IsApproved() && b.roomID == roomID && b.timeSlot.Overlaps(slot)
}

func (b *Booking) ID() uuid.UUID               { return b.id }
func (b *Booking) EmployeeID() uuid.UUID       { return b.employeeID }
func (b *Booking) RoomID() uuid.UUID           { return b.roomID }
func (b *Booking) TimeSlot() TimeSlot          { return b.timeSlot }
func (b *Booking) Status() Status              { return b.status }
func (b *Booking) Secret() Secret              { return b.secret }
func (b *Booking) CancellationReason() *string { return b.cancellationReason }
func (b *Booking) CreatedAt() time.Time        { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time        { return b.updatedAt }
