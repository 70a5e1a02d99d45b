package commands

import (
	"context"
	"log/slog"
	"time"

	"meeting-room-booking/internal/domain/booking"
	"meeting-room-booking/internal/pkg/clock"
	"meeting-room-booking/internal/pkg/errs"
	"meeting-room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=access.go -destination=../../../tests/mock/commands/access_mock.go -package=commandsmock

type AccessCommands interface {
	// VerifyAccess returns false without error for a wrong secret.
	VerifyAccess(ctx context.Context, bookingID uuid.UUID, presentedSecret string, now time.Time) (bool, error)
	RecordAccess(ctx context.Context, bookingID uuid.UUID) (*booking.AccessEvent, error)
	// VerifyAndRecord verifies at the current time and records the entry
	// when granted, in one unit of work.
	VerifyAndRecord(ctx context.Context, bookingID uuid.UUID, presentedSecret string) (bool, error)
	CheckUnusedBookings(ctx context.Context) ([]*booking.Booking, error)
}

type accessCommandsImpl struct {
	uow       shared.UnitOfWork
	publisher shared.EventPublisher
	clock     clock.Clock
	logger    *slog.Logger
}

func NewAccessCommands(uow shared.UnitOfWork, publisher shared.EventPublisher, clk clock.Clock, logger *slog.Logger) AccessCommands {
	return &accessCommandsImpl{
		uow:       uow,
		publisher: publisher,
		clock:     clk,
		logger:    logger,
	}
}

func (uc *accessCommandsImpl) VerifyAccess(ctx context.Context, bookingID uuid.UUID, presentedSecret string, now time.Time) (bool, error) {
	var granted bool
	err := uc.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByID(ctx, bookingID)
		if err != nil {
			return shared.StoreErr(err, errs.ErrBookingNotFound)
		}
		granted, err = verify(b, presentedSecret, now)
		return err
	})
	if err != nil {
		return false, err
	}
	return granted, nil
}

// verify separates a wrong secret (false) from a right secret that is not
// currently valid (error), so a door panel can tell "try again" from "not now".
func verify(b *booking.Booking, presentedSecret string, now time.Time) (bool, error) {
	if !b.Secret().Matches(presentedSecret) {
		return false, nil
	}
	if !b.IsApproved() {
		return false, errs.ErrBookingNotApproved
	}
	if !b.TimeSlot().Admits(now) {
		return false, errs.ErrOutsideBookingWindow
	}
	return true, nil
}

func (uc *accessCommandsImpl) RecordAccess(ctx context.Context, bookingID uuid.UUID) (*booking.AccessEvent, error) {
	var event *booking.AccessEvent
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByID(ctx, bookingID)
		if err != nil {
			return shared.StoreErr(err, errs.ErrBookingNotFound)
		}
		event = booking.NewAccessEvent(b.ID(), uc.clock.Now())
		return shared.StoreErr(tx.AccessEvents().Create(ctx, event), nil)
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, uc.publisher, uc.logger, accessEvent(event))
	return event, nil
}

func (uc *accessCommandsImpl) VerifyAndRecord(ctx context.Context, bookingID uuid.UUID, presentedSecret string) (bool, error) {
	var event *booking.AccessEvent
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByID(ctx, bookingID)
		if err != nil {
			return shared.StoreErr(err, errs.ErrBookingNotFound)
		}
		now := uc.clock.Now()
		granted, err := verify(b, presentedSecret, now)
		if err != nil || !granted {
			return err
		}
		event = booking.NewAccessEvent(b.ID(), now)
		return shared.StoreErr(tx.AccessEvents().Create(ctx, event), nil)
	})
	if err != nil {
		return false, err
	}
	if event == nil {
		uc.logger.Info("access denied", slog.String("booking_id", bookingID.String()))
		return false, nil
	}

	uc.logger.Info("access granted", slog.String("booking_id", bookingID.String()))
	publish(ctx, uc.publisher, uc.logger, accessEvent(event))
	return true, nil
}

func (uc *accessCommandsImpl) CheckUnusedBookings(ctx context.Context) ([]*booking.Booking, error) {
	var unused []*booking.Booking
	err := uc.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		unused, err = tx.Bookings().ListUnused(ctx, uc.clock.Now())
		return shared.StoreErr(err, nil)
	})
	if err != nil {
		return nil, err
	}
	return unused, nil
}

func accessEvent(ev *booking.AccessEvent) shared.Event {
	return shared.Event{
		Type:        shared.EventAccessGranted,
		AggregateID: ev.BookingID(),
		OccurredAt:  ev.AccessTime(),
		Attributes:  map[string]string{"access_event_id": ev.ID().String()},
	}
}
