package usecase

import (
	"context"

	"meeting-room-booking/internal/pkg/errs"
	"meeting-room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// AccountGuard refuses locked employees at the request boundary.
type AccountGuard interface {
	EnsureActive(ctx context.Context, employeeID uuid.UUID) error
}

type accountGuardImpl struct {
	uow shared.UnitOfWork
}

func NewAccountGuard(uow shared.UnitOfWork) AccountGuard {
	return &accountGuardImpl{uow: uow}
}

func (g *accountGuardImpl) EnsureActive(ctx context.Context, employeeID uuid.UUID) error {
	return g.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		e, err := tx.Employees().FindByID(ctx, employeeID)
		if err != nil {
			return shared.StoreErr(err, errs.ErrEmployeeNotFound)
		}
		if e.IsLocked() {
			return errs.ErrEmployeeLocked
		}
		return nil
	})
}
