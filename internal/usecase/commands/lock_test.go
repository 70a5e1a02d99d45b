//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"meeting-room-booking/internal/domain/auth"
	"meeting-room-booking/internal/domain/employee"
	"meeting-room-booking/internal/infra/memstore"
	"meeting-room-booking/internal/pkg/errs"
	"meeting-room-booking/internal/usecase/commands"
	"meeting-room-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedNoShows stores n approved, never used bookings that ended in the past.
func (f *fixture) seedNoShows(t *testing.T, employeeID uuid.UUID, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		f.putApproved(t, employeeID, f.standardRoomID, baseTime.Add(-time.Duration(24*(i+1))*time.Hour))
	}
}

func (f *fixture) pendingRequests(t *testing.T, employeeID uuid.UUID) []*employee.UnlockRequest {
	t.Helper()
	var pending []*employee.UnlockRequest
	f.read(t, func(ctx context.Context, tx shared.Tx) error {
		all, err := tx.UnlockRequests().ListByEmployee(ctx, employeeID)
		if err != nil {
			return err
		}
		for _, r := range all {
			if r.IsPending() {
				pending = append(pending, r)
			}
		}
		return nil
	})
	return pending
}

func TestAutoCheckAndLock(t *testing.T) {
	ctx := context.Background()
	params := commands.AutoLockParams{PeriodDays: 30, Threshold: 3}

	t.Run("threshold no-shows lock, threshold-1 do not", func(t *testing.T) {
		f := newFixture(t)
		f.seedNoShows(t, f.aliceID, 3)
		f.seedNoShows(t, f.bobID, 2)

		locked, err := f.locks.AutoCheckAndLock(ctx, params)
		require.NoError(t, err)
		require.Len(t, locked, 1)
		assert.Equal(t, f.aliceID, locked[0].ID())

		assert.True(t, f.employee(t, f.aliceID).IsLocked())
		assert.False(t, f.employee(t, f.bobID).IsLocked())

		pending := f.pendingRequests(t, f.aliceID)
		require.Len(t, pending, 1)
		assert.Contains(t, pending[0].Reason(), "3 no-shows")
		assert.Empty(t, f.pendingRequests(t, f.bobID))
		assert.Equal(t, []shared.EventType{shared.EventEmployeeLocked}, f.publishedTypes())
	})

	t.Run("already locked employees are skipped", func(t *testing.T) {
		f := newFixture(t)
		f.seedNoShows(t, f.aliceID, 4)

		_, err := f.locks.AutoCheckAndLock(ctx, params)
		require.NoError(t, err)
		again, err := f.locks.AutoCheckAndLock(ctx, params)
		require.NoError(t, err)
		assert.Empty(t, again)
		assert.Len(t, f.pendingRequests(t, f.aliceID), 1)
	})

	t.Run("used bookings and old bookings are not no-shows", func(t *testing.T) {
		f := newFixture(t)
		f.seedNoShows(t, f.aliceID, 2)
		f.putApproved(t, f.aliceID, f.standardRoomID, baseTime.AddDate(0, 0, -45))
		used := f.putApproved(t, f.aliceID, f.standardRoomID, baseTime.Add(-6*time.Hour))
		_, err := f.access.RecordAccess(ctx, used.ID())
		require.NoError(t, err)

		locked, err := f.locks.AutoCheckAndLock(ctx, params)
		require.NoError(t, err)
		assert.Empty(t, locked)
	})

	t.Run("zero params fall back to defaults", func(t *testing.T) {
		f := newFixture(t)
		f.seedNoShows(t, f.aliceID, commands.DefaultLockThreshold)

		locked, err := f.locks.AutoCheckAndLock(ctx, commands.AutoLockParams{})
		require.NoError(t, err)
		assert.Len(t, locked, 1)
	})

	t.Run("a failure mid-sweep locks nobody", func(t *testing.T) {
		f := newFixture(t, withUoW(func(s *memstore.Store) shared.UnitOfWork {
			return failingSecondLockUoW{Store: s}
		}))
		f.seedNoShows(t, f.aliceID, 3)
		f.seedNoShows(t, f.bobID, 3)

		_, err := f.locks.AutoCheckAndLock(ctx, params)
		require.Error(t, err)

		assert.False(t, f.employee(t, f.aliceID).IsLocked())
		assert.False(t, f.employee(t, f.bobID).IsLocked())
		assert.Empty(t, f.pendingRequests(t, f.aliceID))
		assert.Empty(t, f.publishedTypes())
	})
}

func TestLockAndUnlock(t *testing.T) {
	ctx := context.Background()

	t.Run("manual lock then unlock resolves the request", func(t *testing.T) {
		f := newFixture(t)
		admin := auth.NewActor(f.bobID, auth.CapManageLocks)

		req, err := f.locks.LockEmployee(ctx, admin, f.aliceID, "badge misuse")
		require.NoError(t, err)
		assert.True(t, req.IsPending())
		assert.Equal(t, "badge misuse", req.Reason())
		assert.True(t, f.employee(t, f.aliceID).IsLocked())

		_, err = f.locks.LockEmployee(ctx, admin, f.aliceID, "again")
		assert.ErrorIs(t, err, errs.ErrAlreadyLocked)

		f.clock.Add(time.Hour)
		resolved, err := f.locks.UnlockEmployee(ctx, admin, f.aliceID, "resolved")
		require.NoError(t, err)
		assert.Equal(t, employee.RequestApproved, resolved.Status())
		require.NotNil(t, resolved.ApproverID())
		assert.Equal(t, f.bobID, *resolved.ApproverID())
		require.NotNil(t, resolved.DecisionTime())
		assert.Equal(t, baseTime.Add(time.Hour), *resolved.DecisionTime())
		assert.False(t, f.employee(t, f.aliceID).IsLocked())

		assert.Equal(t, []shared.EventType{shared.EventEmployeeLocked, shared.EventEmployeeUnlocked}, f.publishedTypes())
	})

	t.Run("unlocking an employee who is not locked is refused", func(t *testing.T) {
		f := newFixture(t)
		admin := auth.NewActor(f.bobID, auth.CapManageLocks)

		_, err := f.locks.UnlockEmployee(ctx, admin, f.aliceID, "")
		assert.ErrorIs(t, err, errs.ErrNoPendingRequest)
		assert.Empty(t, f.publishedTypes())
	})

	t.Run("rejecting keeps the employee locked", func(t *testing.T) {
		f := newFixture(t)
		admin := auth.NewActor(f.bobID, auth.CapManageLocks)
		req, err := f.locks.LockEmployee(ctx, admin, f.aliceID, "no-shows")
		require.NoError(t, err)

		rejected, err := f.locks.RejectUnlockRequest(ctx, admin, req.ID(), "not yet")
		require.NoError(t, err)
		assert.Equal(t, employee.RequestRejected, rejected.Status())
		assert.True(t, f.employee(t, f.aliceID).IsLocked())

		_, err = f.locks.RejectUnlockRequest(ctx, admin, req.ID(), "twice")
		assert.True(t, errs.Is(err, errs.ErrNoPendingRequest), "got %v", err)
	})

	t.Run("after a rejection an administrator can still unlock", func(t *testing.T) {
		f := newFixture(t)
		admin := auth.NewActor(f.bobID, auth.CapManageLocks)
		req, err := f.locks.LockEmployee(ctx, admin, f.aliceID, "no-shows")
		require.NoError(t, err)
		_, err = f.locks.RejectUnlockRequest(ctx, admin, req.ID(), "not yet")
		require.NoError(t, err)

		f.clock.Add(24 * time.Hour)
		resolved, err := f.locks.UnlockEmployee(ctx, admin, f.aliceID, "served the week")
		require.NoError(t, err)
		assert.Nil(t, resolved, "no request is resolved on the employee's behalf")
		assert.False(t, f.employee(t, f.aliceID).IsLocked())

		var history []*employee.UnlockRequest
		f.read(t, func(ctx context.Context, tx shared.Tx) error {
			history, err = tx.UnlockRequests().ListByEmployee(ctx, f.aliceID)
			return err
		})
		require.Len(t, history, 1)
		assert.Equal(t, employee.RequestRejected, history[0].Status())

		// the employee is back in the normal cycle
		again, err := f.locks.LockEmployee(ctx, admin, f.aliceID, "relapse")
		require.NoError(t, err)
		assert.True(t, again.IsPending())
		assert.Len(t, f.pendingRequests(t, f.aliceID), 1)

		assert.Equal(t, []shared.EventType{
			shared.EventEmployeeLocked, shared.EventEmployeeUnlocked, shared.EventEmployeeLocked,
		}, f.publishedTypes())
	})

	t.Run("auto-lock applies again after an administrative unlock", func(t *testing.T) {
		f := newFixture(t)
		admin := auth.NewActor(f.bobID, auth.CapManageLocks)
		f.seedNoShows(t, f.aliceID, 3)

		locked, err := f.locks.AutoCheckAndLock(ctx, commands.AutoLockParams{})
		require.NoError(t, err)
		require.Len(t, locked, 1)
		pending := f.pendingRequests(t, f.aliceID)
		require.Len(t, pending, 1)
		_, err = f.locks.RejectUnlockRequest(ctx, admin, pending[0].ID(), "no")
		require.NoError(t, err)

		_, err = f.locks.UnlockEmployee(ctx, admin, f.aliceID, "")
		require.NoError(t, err)

		locked, err = f.locks.AutoCheckAndLock(ctx, commands.AutoLockParams{})
		require.NoError(t, err)
		assert.Len(t, locked, 1, "the no-shows still count")
		assert.True(t, f.employee(t, f.aliceID).IsLocked())
	})

	t.Run("requires the lock capability", func(t *testing.T) {
		f := newFixture(t)
		plain := auth.NewActor(f.bobID)

		_, err := f.locks.LockEmployee(ctx, plain, f.aliceID, "x")
		assert.ErrorIs(t, err, errs.ErrUnauthorized)
		_, err = f.locks.UnlockEmployee(ctx, plain, f.aliceID, "x")
		assert.ErrorIs(t, err, errs.ErrUnauthorized)
		_, err = f.locks.RejectUnlockRequest(ctx, plain, uuid.New(), "x")
		assert.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("unknown targets", func(t *testing.T) {
		f := newFixture(t)
		admin := auth.NewActor(f.bobID, auth.CapManageLocks)

		_, err := f.locks.LockEmployee(ctx, admin, uuid.New(), "x")
		assert.ErrorIs(t, err, errs.ErrEmployeeNotFound)
		_, err = f.locks.RejectUnlockRequest(ctx, admin, uuid.New(), "x")
		assert.ErrorIs(t, err, errs.ErrUnlockRequestNotFound)
	})
}

// failingSecondLockUoW fails the second employee update of a unit of work.
type failingSecondLockUoW struct {
	*memstore.Store
}

func (u failingSecondLockUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.Store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return fn(ctx, &countingTx{Tx: tx})
	})
}

type countingTx struct {
	shared.Tx
	updates int
}

func (t *countingTx) Employees() shared.EmployeeRepository {
	return &failingEmployeeRepo{EmployeeRepository: t.Tx.Employees(), tx: t}
}

type failingEmployeeRepo struct {
	shared.EmployeeRepository
	tx *countingTx
}

func (r *failingEmployeeRepo) UpdateLocked(ctx context.Context, e *employee.Employee) error {
	r.tx.updates++
	if r.tx.updates > 1 {
		return errors.New("connection reset by peer")
	}
	return r.EmployeeRepository.UpdateLocked(ctx, e)
}
