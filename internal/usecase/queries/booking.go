package queries

import (
	"context"

	"meeting-room-booking/internal/domain/auth"
	"meeting-room-booking/internal/domain/booking"
	"meeting-room-booking/internal/infra"
	"meeting-room-booking/internal/pkg/errs"
	"meeting-room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/queries/booking_mock.go -package=queriesmock

type BookingQueries interface {
	GetByID(ctx context.Context, actor auth.Actor, id uuid.UUID) (*BookingView, error)
	ListByEmployee(ctx context.Context, actor auth.Actor, employeeID uuid.UUID) ([]*BookingView, error)
}

type bookingQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewBookingQueries(uow shared.UnitOfWork) BookingQueries {
	return &bookingQueriesImpl{uow: uow}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor auth.Actor, id uuid.UUID) (*BookingView, error) {
	var view *BookingView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByID(ctx, id)
		if err != nil {
			return shared.StoreErr(err, errs.ErrBookingNotFound)
		}
		owner := actor.Owns(b.EmployeeID())
		if !owner && !actor.Has(auth.CapViewAllBookings) {
			// Hide existence from unrelated callers
			return errs.ErrBookingNotFound
		}

		var rec *booking.ApprovalRecord
		rec, err = tx.Approvals().FindByBookingID(ctx, b.ID())
		if err != nil && !infra.IsKind(err, infra.KindNotFound) {
			return shared.StoreErr(err, nil)
		}

		view = NewBookingView(b, rec, owner)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByEmployee(ctx context.Context, actor auth.Actor, employeeID uuid.UUID) ([]*BookingView, error) {
	owner := actor.Owns(employeeID)
	if !owner && !actor.Has(auth.CapViewAllBookings) {
		return nil, errs.ErrUnauthorized
	}

	var views []*BookingView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		bookings, err := tx.Bookings().ListByEmployee(ctx, employeeID)
		if err != nil {
			return shared.StoreErr(err, nil)
		}
		views = make([]*BookingView, 0, len(bookings))
		for _, b := range bookings {
			views = append(views, NewBookingView(b, nil, owner))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}
