package booking

import (
	"time"

	"github.com/google/uuid"
)

// AccessEvent records that a booking's credential opened the room.
type AccessEvent struct {
	id         uuid.UUID
	bookingID  uuid.UUID
	accessTime time.Time
}

func NewAccessEvent(bookingID uuid.UUID, at time.Time) *AccessEvent {
	return &AccessEvent{
		id:         uuid.New(),
		bookingID:  bookingID,
		accessTime: at,
	}
}

func ReconstructAccessEvent(id, bookingID uuid.UUID, accessTime time.Time) *AccessEvent {
	return &AccessEvent{id: id, bookingID: bookingID, accessTime: accessTime}
}

func (e *AccessEvent) ID() uuid.UUID         { return e.id }
func (e *AccessEvent) BookingID() uuid.UUID  { return e.bookingID }
func (e *AccessEvent) AccessTime() time.Time { return e.accessTime }
