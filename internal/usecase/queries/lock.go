package queries

import (
	"context"

	"meeting-room-booking/internal/domain/auth"
	"meeting-room-booking/internal/pkg/errs"
	"meeting-room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=lock.go -destination=../../../tests/mock/queries/lock_mock.go -package=queriesmock

type LockQueries interface {
	// GetLockHistory lists every unlock request of the employee, newest first.
	GetLockHistory(ctx context.Context, actor auth.Actor, employeeID uuid.UUID) ([]*UnlockRequestView, error)
	GetPendingUnlockRequests(ctx context.Context, actor auth.Actor) ([]*UnlockRequestView, error)
}

type lockQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewLockQueries(uow shared.UnitOfWork) LockQueries {
	return &lockQueriesImpl{uow: uow}
}

func (q *lockQueriesImpl) GetLockHistory(ctx context.Context, actor auth.Actor, employeeID uuid.UUID) ([]*UnlockRequestView, error) {
	if !actor.Owns(employeeID) && !actor.Has(auth.CapManageLocks) {
		return nil, errs.ErrUnauthorized
	}

	var views []*UnlockRequestView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Employees().FindByID(ctx, employeeID); err != nil {
			return shared.StoreErr(err, errs.ErrEmployeeNotFound)
		}
		requests, err := tx.UnlockRequests().ListByEmployee(ctx, employeeID)
		if err != nil {
			return shared.StoreErr(err, nil)
		}
		views = make([]*UnlockRequestView, 0, len(requests))
		for _, r := range requests {
			views = append(views, NewUnlockRequestView(r))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (q *lockQueriesImpl) GetPendingUnlockRequests(ctx context.Context, actor auth.Actor) ([]*UnlockRequestView, error) {
	if !actor.Has(auth.CapManageLocks) {
		return nil, errs.ErrUnauthorized
	}

	var views []*UnlockRequestView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		requests, err := tx.UnlockRequests().ListPending(ctx)
		if err != nil {
			return shared.StoreErr(err, nil)
		}
		views = make([]*UnlockRequestView, 0, len(requests))
		for _, r := range requests {
			views = append(views, NewUnlockRequestView(r))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}
