package memstore

import (
	"context"
	"slices"
	"strings"
	"time"

	"meeting-room-booking/internal/domain/booking"
	"meeting-room-booking/internal/infra"
	"meeting-room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type bookingRepo struct {
	st *state
}

func (r *bookingRepo) Create(_ context.Context, b *booking.Booking) error {
	if _, ok := r.st.bookings[b.ID()]; ok {
		return infra.WrapRepoErr("booking already exists", nil, infra.KindDuplicateKey)
	}
	if _, ok := r.st.rooms[b.RoomID()]; !ok {
		return infra.WrapRepoErr("booking references unknown room", nil, infra.KindForeignKeyViolated)
	}
	if _, ok := r.st.employees[b.EmployeeID()]; !ok {
		return infra.WrapRepoErr("booking references unknown employee", nil, infra.KindForeignKeyViolated)
	}
	if err := r.checkExclusion(b); err != nil {
		return err
	}
	r.st.bookings[b.ID()] = *b
	return nil
}

func (r *bookingRepo) UpdateStatus(_ context.Context, b *booking.Booking) error {
	if _, ok := r.st.bookings[b.ID()]; !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	if err := r.checkExclusion(b); err != nil {
		return err
	}
	r.st.bookings[b.ID()] = *b
	return nil
}

// checkExclusion mirrors the database constraint that approved bookings of
// one room never overlap.
func (r *bookingRepo) checkExclusion(b *booking.Booking) error {
	if !b.IsApproved() {
		return nil
	}
	for id, existing := range r.st.bookings {
		if id != b.ID() && existing.ConflictsWith(b.RoomID(), b.TimeSlot()) {
			return infra.WrapRepoErr("approved bookings overlap", nil, infra.KindConflict)
		}
	}
	return nil
}

func (r *bookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.st.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return &b, nil
}

// FindByIDForUpdate needs no row lock; the store lock is already held.
func (r *bookingRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.FindByID(ctx, id)
}

func (r *bookingRepo) FindApprovedOverlapping(_ context.Context, roomID uuid.UUID, slot booking.TimeSlot) ([]*booking.Booking, error) {
	var out []*booking.Booking
	for _, b := range r.st.bookings {
		if b.ConflictsWith(roomID, slot) {
			out = append(out, &b)
		}
	}
	return out, nil
}

func (r *bookingRepo) ListByEmployee(_ context.Context, employeeID uuid.UUID) ([]*booking.Booking, error) {
	var out []*booking.Booking
	for _, b := range r.st.bookings {
		if b.EmployeeID() == employeeID {
			out = append(out, &b)
		}
	}
	slices.SortFunc(out, func(a, b *booking.Booking) int {
		return b.TimeSlot().Start().Compare(a.TimeSlot().Start())
	})
	return out, nil
}

func (r *bookingRepo) ListUnused(_ context.Context, endedBefore time.Time) ([]*booking.Booking, error) {
	used := r.usedBookings()
	var out []*booking.Booking
	for _, b := range r.st.bookings {
		if b.IsApproved() && b.TimeSlot().EndedBefore(endedBefore) && !used[b.ID()] {
			out = append(out, &b)
		}
	}
	slices.SortFunc(out, func(a, b *booking.Booking) int {
		return a.TimeSlot().End().Compare(b.TimeSlot().End())
	})
	return out, nil
}

func (r *bookingRepo) CountNoShows(_ context.Context, from, to time.Time, minCount int) ([]shared.NoShowCount, error) {
	used := r.usedBookings()
	counts := make(map[uuid.UUID]int)
	for _, b := range r.st.bookings {
		end := b.TimeSlot().End()
		if !b.IsApproved() || used[b.ID()] || end.Before(from) || !end.Before(to) {
			continue
		}
		counts[b.EmployeeID()]++
	}

	var out []shared.NoShowCount
	for id, n := range counts {
		if n >= minCount {
			out = append(out, shared.NoShowCount{EmployeeID: id, Count: n})
		}
	}
	slices.SortFunc(out, func(a, b shared.NoShowCount) int {
		return strings.Compare(a.EmployeeID.String(), b.EmployeeID.String())
	})
	return out, nil
}

func (r *bookingRepo) usedBookings() map[uuid.UUID]bool {
	used := make(map[uuid.UUID]bool, len(r.st.accessEvents))
	for _, ev := range r.st.accessEvents {
		used[ev.BookingID()] = true
	}
	return used
}

type approvalRepo struct {
	st *state
}

func (r *approvalRepo) Create(_ context.Context, rec *booking.ApprovalRecord) error {
	if _, ok := r.st.bookings[rec.BookingID()]; !ok {
		return infra.WrapRepoErr("approval references unknown booking", nil, infra.KindForeignKeyViolated)
	}
	if _, ok := r.st.approvals[rec.BookingID()]; ok {
		return infra.WrapRepoErr("approval already exists", nil, infra.KindDuplicateKey)
	}
	r.st.approvals[rec.BookingID()] = *rec
	return nil
}

func (r *approvalRepo) Update(_ context.Context, rec *booking.ApprovalRecord) error {
	if _, ok := r.st.approvals[rec.BookingID()]; !ok {
		return infra.WrapRepoErr("approval not found", nil, infra.KindNotFound)
	}
	r.st.approvals[rec.BookingID()] = *rec
	return nil
}

func (r *approvalRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*booking.ApprovalRecord, error) {
	rec, ok := r.st.approvals[bookingID]
	if !ok {
		return nil, infra.WrapRepoErr("approval not found", nil, infra.KindNotFound)
	}
	return &rec, nil
}

type accessEventRepo struct {
	st *state
}

func (r *accessEventRepo) Create(_ context.Context, ev *booking.AccessEvent) error {
	if _, ok := r.st.bookings[ev.BookingID()]; !ok {
		return infra.WrapRepoErr("access event references unknown booking", nil, infra.KindForeignKeyViolated)
	}
	r.st.accessEvents[ev.ID()] = *ev
	return nil
}

func (r *accessEventRepo) ListByBooking(_ context.Context, bookingID uuid.UUID) ([]*booking.AccessEvent, error) {
	var out []*booking.AccessEvent
	for _, ev := range r.st.accessEvents {
		if ev.BookingID() == bookingID {
			out = append(out, &ev)
		}
	}
	slices.SortFunc(out, func(a, b *booking.AccessEvent) int {
		return a.AccessTime().Compare(b.AccessTime())
	})
	return out, nil
}
