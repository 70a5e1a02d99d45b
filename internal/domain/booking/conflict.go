package booking

import (
	"context"

	"github.com/google/uuid"
)

// ApprovedBookingFinder returns approved bookings of a room whose slot may
// overlap the given one. A superset is acceptable.
type ApprovedBookingFinder interface {
	FindApprovedOverlapping(ctx context.Context, roomID uuid.UUID, slot TimeSlot) ([]*Booking, error)
}

type ConflictDetector struct {
	finder ApprovedBookingFinder
}

func NewConflictDetector(finder ApprovedBookingFinder) *ConflictDetector {
	return &ConflictDetector{finder: finder}
}

// HasConflict reports whether an approved booking other than excludeID holds
// any part of slot in roomID. It has no side effects.
func (d *ConflictDetector) HasConflict(ctx context.Context, roomID uuid.UUID, slot TimeSlot, excludeID *uuid.UUID) (bool, error) {
	candidates, err := d.finder.FindApprovedOverlapping(ctx, roomID, slot)
	if err != nil {
		return false, err
	}
	for _, existing := range candidates {
		if excludeID != nil && existing.ID() == *excludeID {
			continue
		}
		if existing.ConflictsWith(roomID, slot) {
			return true, nil
		}
	}
	return false, nil
}
