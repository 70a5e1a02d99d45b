package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"meeting-room-booking/internal/domain/auth"
	"meeting-room-booking/internal/domain/employee"
	"meeting-room-booking/internal/infra"
	"meeting-room-booking/internal/pkg/clock"
	"meeting-room-booking/internal/pkg/errs"
	"meeting-room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=lock.go -destination=../../../tests/mock/commands/lock_mock.go -package=commandsmock

const (
	DefaultLockPeriodDays = 30
	DefaultLockThreshold  = 3
)

type AutoLockParams struct {
	PeriodDays int
	Threshold  int
}

func (p AutoLockParams) withDefaults() AutoLockParams {
	if p.PeriodDays <= 0 {
		p.PeriodDays = DefaultLockPeriodDays
	}
	if p.Threshold <= 0 {
		p.Threshold = DefaultLockThreshold
	}
	return p
}

type LockCommands interface {
	AutoCheckAndLock(ctx context.Context, params AutoLockParams) ([]*employee.Employee, error)
	LockEmployee(ctx context.Context, actor auth.Actor, employeeID uuid.UUID, reason string) (*employee.UnlockRequest, error)
	UnlockEmployee(ctx context.Context, actor auth.Actor, employeeID uuid.UUID, reason string) (*employee.UnlockRequest, error)
	RejectUnlockRequest(ctx context.Context, actor auth.Actor, requestID uuid.UUID, reason string) (*employee.UnlockRequest, error)
}

type lockCommandsImpl struct {
	uow       shared.UnitOfWork
	publisher shared.EventPublisher
	clock     clock.Clock
	logger    *slog.Logger
}

func NewLockCommands(uow shared.UnitOfWork, publisher shared.EventPublisher, clk clock.Clock, logger *slog.Logger) LockCommands {
	return &lockCommandsImpl{
		uow:       uow,
		publisher: publisher,
		clock:     clk,
		logger:    logger,
	}
}

// AutoCheckAndLock locks every employee with at least Threshold no-shows in
// the trailing PeriodDays. The whole sweep is one transaction: an error
// leaves nobody locked.
func (uc *lockCommandsImpl) AutoCheckAndLock(ctx context.Context, params AutoLockParams) ([]*employee.Employee, error) {
	params = params.withDefaults()

	var locked []*employee.Employee
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		locked = nil
		now := uc.clock.Now()
		from := now.AddDate(0, 0, -params.PeriodDays)

		counts, err := tx.Bookings().CountNoShows(ctx, from, now, params.Threshold)
		if err != nil {
			return shared.StoreErr(err, nil)
		}

		for _, c := range counts {
			e, err := tx.Employees().FindByIDForUpdate(ctx, c.EmployeeID)
			if err != nil {
				return shared.StoreErr(err, errs.ErrEmployeeNotFound)
			}
			if e.IsLocked() {
				continue
			}
			reason := fmt.Sprintf("auto-locked: %d no-shows in the last %d days", c.Count, params.PeriodDays)
			if err := lock(ctx, tx, e, reason, now); err != nil {
				return err
			}
			locked = append(locked, e)
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("auto lock sweep failed", slog.String("error", err.Error()))
		return nil, err
	}

	uc.logger.Info("auto lock sweep finished",
		slog.Int("period_days", params.PeriodDays),
		slog.Int("threshold", params.Threshold),
		slog.Int("locked", len(locked)))
	for _, e := range locked {
		publish(ctx, uc.publisher, uc.logger, employeeEvent(shared.EventEmployeeLocked, e))
	}

	return locked, nil
}

func (uc *lockCommandsImpl) LockEmployee(ctx context.Context, actor auth.Actor, employeeID uuid.UUID, reason string) (*employee.UnlockRequest, error) {
	if !actor.Has(auth.CapManageLocks) {
		return nil, errs.ErrUnauthorized
	}

	var (
		target  *employee.Employee
		request *employee.UnlockRequest
	)
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		e, err := tx.Employees().FindByIDForUpdate(ctx, employeeID)
		if err != nil {
			return shared.StoreErr(err, errs.ErrEmployeeNotFound)
		}
		if e.IsLocked() {
			return errs.ErrAlreadyLocked
		}
		if err := lock(ctx, tx, e, reason, uc.clock.Now()); err != nil {
			return err
		}
		request, err = tx.UnlockRequests().FindPendingByEmployee(ctx, e.ID())
		if err != nil {
			return shared.StoreErr(err, nil)
		}
		target = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("employee locked",
		slog.String("employee_id", target.ID().String()),
		slog.String("actor_id", actor.EmployeeID().String()))
	publish(ctx, uc.publisher, uc.logger, employeeEvent(shared.EventEmployeeLocked, target))

	return request, nil
}

// lock flips the flag and opens the pending unlock request; an already open
// request is reused so an employee never has two.
func lock(ctx context.Context, tx shared.Tx, e *employee.Employee, reason string, now time.Time) error {
	if err := e.Lock(now); err != nil {
		return errs.Mark(err, errs.ErrAlreadyLocked)
	}
	if err := tx.Employees().UpdateLocked(ctx, e); err != nil {
		return shared.StoreErr(err, errs.ErrEmployeeNotFound)
	}

	_, err := tx.UnlockRequests().FindPendingByEmployee(ctx, e.ID())
	switch {
	case err == nil:
		return nil
	case !infra.IsKind(err, infra.KindNotFound):
		return shared.StoreErr(err, nil)
	}
	return shared.StoreErr(tx.UnlockRequests().Create(ctx, employee.NewUnlockRequest(e.ID(), reason, now)), nil)
}

// UnlockEmployee approves the employee's pending unlock request and clears
// the lock. A locked employee without a pending request (the last one was
// rejected) is still unlocked, and the returned request is nil: no resolved
// request is made up for it. An unlocked employee without a pending request
// is ErrNoPendingRequest.
func (uc *lockCommandsImpl) UnlockEmployee(ctx context.Context, actor auth.Actor, employeeID uuid.UUID, reason string) (*employee.UnlockRequest, error) {
	if !actor.Has(auth.CapManageLocks) {
		return nil, errs.ErrUnauthorized
	}

	var (
		target  *employee.Employee
		request *employee.UnlockRequest
	)
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		e, err := tx.Employees().FindByIDForUpdate(ctx, employeeID)
		if err != nil {
			return shared.StoreErr(err, errs.ErrEmployeeNotFound)
		}
		now := uc.clock.Now()

		req, err := tx.UnlockRequests().FindPendingByEmployee(ctx, e.ID())
		switch {
		case err == nil:
			if err := req.Approve(actor.EmployeeID(), reason, now); err != nil {
				return errs.Mark(err, errs.ErrNoPendingRequest)
			}
			if err := tx.UnlockRequests().Resolve(ctx, req); err != nil {
				return resolveErr(err)
			}
		case !infra.IsKind(err, infra.KindNotFound):
			return shared.StoreErr(err, nil)
		case !e.IsLocked():
			return errs.ErrNoPendingRequest
		}

		e.Unlock(now)
		if err := tx.Employees().UpdateLocked(ctx, e); err != nil {
			return shared.StoreErr(err, errs.ErrEmployeeNotFound)
		}

		target, request = e, req
		return nil
	})
	if err != nil {
		return nil, err
	}

	attrs := []any{
		slog.String("employee_id", target.ID().String()),
		slog.String("actor_id", actor.EmployeeID().String()),
	}
	if request != nil {
		attrs = append(attrs, slog.String("request_id", request.ID().String()))
	} else {
		attrs = append(attrs, slog.Bool("administrative", true))
	}
	uc.logger.Info("employee unlocked", attrs...)
	publish(ctx, uc.publisher, uc.logger, employeeEvent(shared.EventEmployeeUnlocked, target))

	return request, nil
}

// RejectUnlockRequest closes a pending request; the employee stays locked
// until an administrator unlocks them.
func (uc *lockCommandsImpl) RejectUnlockRequest(ctx context.Context, actor auth.Actor, requestID uuid.UUID, reason string) (*employee.UnlockRequest, error) {
	if !actor.Has(auth.CapManageLocks) {
		return nil, errs.ErrUnauthorized
	}

	var request *employee.UnlockRequest
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		req, err := tx.UnlockRequests().FindByID(ctx, requestID)
		if err != nil {
			return shared.StoreErr(err, errs.ErrUnlockRequestNotFound)
		}
		if err := req.Reject(actor.EmployeeID(), reason, uc.clock.Now()); err != nil {
			return errs.Mark(err, errs.ErrNoPendingRequest)
		}
		if err := tx.UnlockRequests().Resolve(ctx, req); err != nil {
			return resolveErr(err)
		}
		request = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("unlock request rejected",
		slog.String("request_id", request.ID().String()),
		slog.String("employee_id", request.EmployeeID().String()))
	return request, nil
}

// resolveErr reports a request resolved concurrently by someone else.
func resolveErr(err error) error {
	if infra.IsKind(err, infra.KindConflict) {
		return errs.ErrNoPendingRequest
	}
	return shared.StoreErr(err, errs.ErrUnlockRequestNotFound)
}

func employeeEvent(t shared.EventType, e *employee.Employee) shared.Event {
	return shared.Event{
		Type:        t,
		AggregateID: e.ID(),
		OccurredAt:  e.UpdatedAt(),
	}
}
