//go:build unit || e2e

package builder

import (
	"time"

	"meeting-room-booking/internal/domain/booking"
	reqdto "meeting-room-booking/internal/handler/dto/request"
	"meeting-room-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	id         uuid.UUID
	employeeID uuid.UUID
	roomID     uuid.UUID
	start      time.Time
	end        time.Time
	status     booking.Status
	secret     string
	createdAt  time.Time
}

func NewBookingBuilder() *BookingBuilder {
	start := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		id:         uuid.New(),
		employeeID: uuid.New(),
		roomID:     uuid.New(),
		start:      start,
		end:        start.Add(time.Hour),
		status:     booking.StatusPending,
		secret:     "A1B2C3D4",
		createdAt:  start.Add(-24 * time.Hour),
	}
}

func (b *BookingBuilder) WithID(id uuid.UUID) *BookingBuilder {
	b.id = id
	return b
}

func (b *BookingBuilder) WithEmployeeID(id uuid.UUID) *BookingBuilder {
	b.employeeID = id
	return b
}

func (b *BookingBuilder) WithRoomID(id uuid.UUID) *BookingBuilder {
	b.roomID = id
	return b
}

func (b *BookingBuilder) WithSlot(start, end time.Time) *BookingBuilder {
	b.start = start
	b.end = end
	return b
}

func (b *BookingBuilder) WithStatus(status booking.Status) *BookingBuilder {
	b.status = status
	return b
}

func (b *BookingBuilder) WithSecret(secret string) *BookingBuilder {
	b.secret = secret
	return b
}

// Build panics on invalid input; builders are only fed test constants.
func (b *BookingBuilder) Build() *booking.Booking {
	slot, err := booking.NewTimeSlot(b.start, b.end)
	if err != nil {
		panic(err)
	}
	sec, err := booking.NewSecret(b.secret)
	if err != nil {
		panic(err)
	}
	return booking.ReconstructBooking(b.id, b.employeeID, b.roomID, slot, b.status, sec, nil, b.createdAt, b.createdAt)
}

func (b *BookingBuilder) BuildView(withSecret bool) *queries.BookingView {
	return queries.NewBookingView(b.Build(), nil, withSecret)
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		RoomID:    b.roomID,
		StartTime: b.start,
		EndTime:   b.end,
	}
}
