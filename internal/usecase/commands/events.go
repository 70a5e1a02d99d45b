package commands

import (
	"context"
	"log/slog"

	"meeting-room-booking/internal/domain/booking"
	"meeting-room-booking/internal/pkg/errs"
	"meeting-room-booking/internal/usecase/shared"
)

// publish runs after commit. A broker outage must not undo a committed
// booking, so failures are only logged.
func publish(ctx context.Context, publisher shared.EventPublisher, logger *slog.Logger, events ...shared.Event) {
	for _, ev := range events {
		if err := publisher.Publish(ctx, ev); err != nil {
			logger.Warn("failed to publish event",
				slog.String("type", string(ev.Type)),
				slog.String("aggregate_id", ev.AggregateID.String()),
				slog.String("error", err.Error()))
		}
	}
}

// reportTransition logs an illegal state change loudly. Callers gate every
// transition, so reaching this means a bug.
func reportTransition(logger *slog.Logger, err error, b *booking.Booking) error {
	if errs.Is(err, booking.ErrInvalidTransition) {
		err = errs.Wrap(err, "booking state machine")
		logger.Error("illegal booking transition",
			slog.String("booking_id", b.ID().String()),
			slog.String("status", b.Status().String()),
			slog.String("error", err.Error()),
			slog.Any("stack", errs.ExtractStackLines(err, 12)))
	}
	return err
}

func bookingEvent(t shared.EventType, b *booking.Booking) shared.Event {
	return shared.Event{
		Type:        t,
		AggregateID: b.ID(),
		OccurredAt:  b.UpdatedAt(),
		Attributes: map[string]string{
			"employee_id": b.EmployeeID().String(),
			"room_id":     b.RoomID().String(),
			"status":      b.Status().String(),
		},
	}
}
