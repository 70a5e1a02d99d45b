package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"meeting-room-booking/internal/domain/auth"
	"meeting-room-booking/internal/domain/booking"
	"meeting-room-booking/internal/domain/room"
	"meeting-room-booking/internal/infra"
	"meeting-room-booking/internal/pkg/clock"
	"meeting-room-booking/internal/pkg/errs"
	"meeting-room-booking/internal/pkg/secret"
	"meeting-room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/commands/booking_mock.go -package=commandsmock

type CreateBookingParams struct {
	RoomID    uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	// IdempotencyKey is optional. A retry with the same key and payload gets
	// the booking the first request created.
	IdempotencyKey uuid.UUID
}

const idempotencyTTL = 24 * time.Hour

// requestHash fingerprints what the caller asked for, not what was created.
func (p CreateBookingParams) requestHash() string {
	h := sha256.New()
	h.Write(p.RoomID[:])
	h.Write([]byte(p.StartTime.UTC().Format(time.RFC3339Nano)))
	h.Write([]byte{0})
	h.Write([]byte(p.EndTime.UTC().Format(time.RFC3339Nano)))
	return hex.EncodeToString(h.Sum(nil))
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, actor auth.Actor, params CreateBookingParams) (*booking.Booking, error)
	CancelBooking(ctx context.Context, actor auth.Actor, bookingID uuid.UUID, reason string) (*booking.Booking, error)
	ApproveBooking(ctx context.Context, actor auth.Actor, bookingID uuid.UUID, isApproved bool, reason string) (*booking.Booking, error)
}

type bookingCommandsImpl struct {
	uow       shared.UnitOfWork
	policy    room.ApprovalPolicy
	secrets   secret.Generator
	publisher shared.EventPublisher
	clock     clock.Clock
	logger    *slog.Logger
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	policy room.ApprovalPolicy,
	secrets secret.Generator,
	publisher shared.EventPublisher,
	clk clock.Clock,
	logger *slog.Logger,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:       uow,
		policy:    policy,
		secrets:   secrets,
		publisher: publisher,
		clock:     clk,
		logger:    logger,
	}
}

// CreateBooking checks for conflicts and inserts under the room row lock, so
// two racing requests for overlapping slots cannot both see a free room.
func (uc *bookingCommandsImpl) CreateBooking(ctx context.Context, actor auth.Actor, params CreateBookingParams) (*booking.Booking, error) {
	if actor.EmployeeID() == uuid.Nil {
		return nil, errs.ErrUnauthorized
	}
	slot, err := booking.NewTimeSlot(params.StartTime, params.EndTime)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidTimeSlot)
	}

	var (
		created  *booking.Booking
		replayed bool
	)
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rm, err := tx.Rooms().FindByIDForUpdate(ctx, params.RoomID)
		if err != nil {
			return shared.StoreErr(err, errs.ErrRoomNotFound)
		}

		// after the room lock, so a same-room twin has committed its key
		if params.IdempotencyKey != uuid.Nil {
			prior, err := uc.findReplay(ctx, tx, actor, params)
			if err != nil {
				return err
			}
			if prior != nil {
				created, replayed = prior, true
				return nil
			}
		}

		conflict, err := booking.NewConflictDetector(tx.Bookings()).HasConflict(ctx, rm.ID(), slot, nil)
		if err != nil {
			return shared.StoreErr(err, nil)
		}
		if conflict {
			return errs.ErrSlotUnavailable
		}
		if !rm.IsBookable() {
			return errs.ErrRoomUnavailable
		}

		code, err := uc.secrets.Generate()
		if err != nil {
			return err
		}
		sec, err := booking.NewSecret(code)
		if err != nil {
			return errs.Wrap(err, "generated secret rejected")
		}

		now := uc.clock.Now()
		b := booking.NewBooking(actor.EmployeeID(), rm.ID(), slot, sec, now)
		if err := tx.Bookings().Create(ctx, b); err != nil {
			return shared.StoreErr(err, nil)
		}

		if uc.policy.RequiresApproval(rm) {
			if err := tx.Approvals().Create(ctx, booking.NewApprovalRecord(b.ID(), now)); err != nil {
				return shared.StoreErr(err, nil)
			}
		} else {
			if err := b.Approve(now); err != nil {
				return reportTransition(uc.logger, err, b)
			}
			if err := tx.Bookings().UpdateStatus(ctx, b); err != nil {
				return statusWriteErr(err)
			}
		}

		if params.IdempotencyKey != uuid.Nil {
			err := tx.IdempotencyKeys().Save(ctx, &shared.IdempotencyRecord{
				Key:         params.IdempotencyKey,
				EmployeeID:  actor.EmployeeID(),
				RequestHash: params.requestHash(),
				BookingID:   b.ID(),
				CreatedAt:   now,
				ExpiresAt:   now.Add(idempotencyTTL),
			})
			if infra.IsKind(err, infra.KindConflict) {
				return errs.ErrIdempotencyInProgress
			}
			if err != nil {
				return shared.StoreErr(err, nil)
			}
		}

		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if replayed {
		uc.logger.Info("booking create replayed",
			slog.String("booking_id", created.ID().String()),
			slog.String("idempotency_key", params.IdempotencyKey.String()))
		return created, nil
	}

	uc.logger.Info("booking created",
		slog.String("booking_id", created.ID().String()),
		slog.String("room_id", created.RoomID().String()),
		slog.String("employee_id", created.EmployeeID().String()),
		slog.String("status", created.Status().String()))

	events := []shared.Event{bookingEvent(shared.EventBookingCreated, created)}
	if created.IsApproved() {
		events = append(events, bookingEvent(shared.EventBookingApproved, created))
	}
	publish(ctx, uc.publisher, uc.logger, events...)

	return created, nil
}

// findReplay returns the booking an earlier request with the same key
// created, or nil when the key is new or expired.
func (uc *bookingCommandsImpl) findReplay(ctx context.Context, tx shared.Tx, actor auth.Actor, params CreateBookingParams) (*booking.Booking, error) {
	rec, err := tx.IdempotencyKeys().Find(ctx, params.IdempotencyKey, actor.EmployeeID(), uc.clock.Now())
	if infra.IsKind(err, infra.KindNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, shared.StoreErr(err, nil)
	}
	if rec.RequestHash != params.requestHash() {
		return nil, errs.ErrIdempotencyKeyReused
	}
	b, err := tx.Bookings().FindByID(ctx, rec.BookingID)
	if err != nil {
		return nil, shared.StoreErr(err, nil)
	}
	return b, nil
}

func (uc *bookingCommandsImpl) CancelBooking(ctx context.Context, actor auth.Actor, bookingID uuid.UUID, reason string) (*booking.Booking, error) {
	var cancelled *booking.Booking
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return shared.StoreErr(err, errs.ErrBookingNotFound)
		}
		if !actor.Owns(b.EmployeeID()) && !actor.Has(auth.CapManageBookings) {
			return errs.ErrUnauthorized
		}
		if !b.Status().IsCancellable() {
			return errs.ErrInvalidStatus
		}

		wasPending := b.IsPending()
		now := uc.clock.Now()
		if err := b.Cancel(reason, now); err != nil {
			return reportTransition(uc.logger, err, b)
		}
		if err := tx.Bookings().UpdateStatus(ctx, b); err != nil {
			return statusWriteErr(err)
		}

		if wasPending {
			if err := closeWaitingApproval(ctx, tx, b.ID(), reason, now); err != nil {
				return err
			}
		}

		cancelled = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("booking cancelled",
		slog.String("booking_id", cancelled.ID().String()),
		slog.String("actor_id", actor.EmployeeID().String()))
	publish(ctx, uc.publisher, uc.logger, bookingEvent(shared.EventBookingCancelled, cancelled))

	return cancelled, nil
}

// closeWaitingApproval rejects the review of a booking cancelled while it was
// still waiting, so no approver acts on a dead request.
func closeWaitingApproval(ctx context.Context, tx shared.Tx, bookingID uuid.UUID, reason string, now time.Time) error {
	rec, err := tx.Approvals().FindByBookingID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil
		}
		return shared.StoreErr(err, nil)
	}
	if !rec.IsWaiting() {
		return nil
	}
	if err := rec.Decide(nil, false, reason, now); err != nil {
		return err
	}
	return shared.StoreErr(tx.Approvals().Update(ctx, rec), nil)
}

func (uc *bookingCommandsImpl) ApproveBooking(ctx context.Context, actor auth.Actor, bookingID uuid.UUID, isApproved bool, reason string) (*booking.Booking, error) {
	if !actor.Has(auth.CapApproveBookings) {
		return nil, errs.ErrUnauthorized
	}

	var decided *booking.Booking
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return shared.StoreErr(err, errs.ErrBookingNotFound)
		}
		if !b.IsPending() {
			return errs.ErrNotPending
		}
		rec, err := tx.Approvals().FindByBookingID(ctx, b.ID())
		if err != nil {
			return shared.StoreErr(err, errs.ErrNotPending)
		}
		if !rec.IsWaiting() {
			return errs.ErrNotPending
		}

		now := uc.clock.Now()
		if isApproved {
			// Same room lock as CreateBooking; an approved booking may have
			// taken the slot while this one waited.
			if _, err := tx.Rooms().FindByIDForUpdate(ctx, b.RoomID()); err != nil {
				return shared.StoreErr(err, errs.ErrRoomNotFound)
			}
			excludeID := b.ID()
			conflict, err := booking.NewConflictDetector(tx.Bookings()).HasConflict(ctx, b.RoomID(), b.TimeSlot(), &excludeID)
			if err != nil {
				return shared.StoreErr(err, nil)
			}
			if conflict {
				return errs.ErrSlotUnavailable
			}
			err = b.Approve(now)
			if err != nil {
				return reportTransition(uc.logger, err, b)
			}
		} else {
			if err := b.Reject(now); err != nil {
				return reportTransition(uc.logger, err, b)
			}
		}

		if err := rec.Decide(approverOf(actor), isApproved, reason, now); err != nil {
			return errs.Mark(err, errs.ErrNotPending)
		}
		if err := tx.Bookings().UpdateStatus(ctx, b); err != nil {
			return statusWriteErr(err)
		}
		if err := tx.Approvals().Update(ctx, rec); err != nil {
			return shared.StoreErr(err, nil)
		}

		decided = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("booking decided",
		slog.String("booking_id", decided.ID().String()),
		slog.String("approver_id", actor.EmployeeID().String()),
		slog.String("status", decided.Status().String()))

	eventType := shared.EventBookingRejected
	if decided.IsApproved() {
		eventType = shared.EventBookingApproved
	}
	publish(ctx, uc.publisher, uc.logger, bookingEvent(eventType, decided))

	return decided, nil
}

func approverOf(actor auth.Actor) *uuid.UUID {
	if actor.EmployeeID() == uuid.Nil {
		return nil
	}
	id := actor.EmployeeID()
	return &id
}

// statusWriteErr maps the exclusion constraint on approved ranges to the
// same kind the in-process conflict check returns.
func statusWriteErr(err error) error {
	if infra.IsKind(err, infra.KindConflict) {
		return errs.ErrSlotUnavailable
	}
	return shared.StoreErr(err, nil)
}
