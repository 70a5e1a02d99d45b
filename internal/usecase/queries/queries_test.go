//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"meeting-room-booking/internal/domain/auth"
	"meeting-room-booking/internal/domain/booking"
	"meeting-room-booking/internal/domain/employee"
	"meeting-room-booking/internal/domain/room"
	"meeting-room-booking/internal/infra/memstore"
	"meeting-room-booking/internal/pkg/errs"
	"meeting-room-booking/internal/usecase/queries"
	"meeting-room-booking/internal/usecase/shared"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)

type seed struct {
	store    *memstore.Store
	roomID   uuid.UUID
	ownerID  uuid.UUID
	otherID  uuid.UUID
	pending  *booking.Booking
	approved *booking.Booking
}

func newSeed(t *testing.T) *seed {
	t.Helper()
	s := &seed{store: memstore.New(), roomID: uuid.New(), ownerID: uuid.New(), otherID: uuid.New()}
	s.store.PutRoom(room.ReconstructRoom(s.roomID, "Board", 12, room.CategoryVIP, false, now, now))
	s.store.PutEmployee(employee.NewEmployee(s.ownerID, "Ada", now))
	s.store.PutEmployee(employee.NewEmployee(s.otherID, "Grace", now))

	sec, err := booking.NewSecret("0A0B0C0D")
	require.NoError(t, err)
	early, err := booking.NewTimeSlot(now.Add(time.Hour), now.Add(2*time.Hour))
	require.NoError(t, err)
	late, err := booking.NewTimeSlot(now.Add(3*time.Hour), now.Add(4*time.Hour))
	require.NoError(t, err)

	s.approved = booking.ReconstructBooking(uuid.New(), s.ownerID, s.roomID, early, booking.StatusApproved, sec, nil, now, now)
	s.store.PutBooking(s.approved)

	// Pending bookings are inserted through the use-case port so the
	// approval record is stored alongside.
	s.pending = booking.NewBooking(s.ownerID, s.roomID, late, sec, now)
	require.NoError(t, s.store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Bookings().Create(ctx, s.pending); err != nil {
			return err
		}
		return tx.Approvals().Create(ctx, booking.NewApprovalRecord(s.pending.ID(), now))
	}))
	return s
}

func TestBookingQueries_GetByID(t *testing.T) {
	ctx := context.Background()
	s := newSeed(t)
	q := queries.NewBookingQueries(s.store)

	t.Run("owner sees the secret and the approval", func(t *testing.T) {
		view, err := q.GetByID(ctx, auth.NewActor(s.ownerID), s.pending.ID())
		require.NoError(t, err)

		secret := "0A0B0C0D"
		want := &queries.BookingView{
			ID:         s.pending.ID(),
			EmployeeID: s.ownerID,
			RoomID:     s.roomID,
			StartTime:  now.Add(3 * time.Hour),
			EndTime:    now.Add(4 * time.Hour),
			Status:     "pending",
			Secret:     &secret,
			Approval:   &queries.ApprovalView{Decision: "waiting"},
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if diff := cmp.Diff(want, view); diff != "" {
			t.Errorf("GetByID() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("viewer never sees the secret", func(t *testing.T) {
		view, err := q.GetByID(ctx, auth.NewActor(s.otherID, auth.CapViewAllBookings), s.approved.ID())
		require.NoError(t, err)
		assert.Nil(t, view.Secret)
		assert.Nil(t, view.Approval)
		assert.Equal(t, "approved", view.Status)
	})

	t.Run("unrelated caller gets not found", func(t *testing.T) {
		_, err := q.GetByID(ctx, auth.NewActor(s.otherID), s.approved.ID())
		assert.ErrorIs(t, err, errs.ErrBookingNotFound)

		_, err = q.GetByID(ctx, auth.NewActor(s.ownerID), uuid.New())
		assert.ErrorIs(t, err, errs.ErrBookingNotFound)
	})
}

func TestBookingQueries_ListByEmployee(t *testing.T) {
	ctx := context.Background()
	s := newSeed(t)
	q := queries.NewBookingQueries(s.store)

	views, err := q.ListByEmployee(ctx, auth.NewActor(s.ownerID), s.ownerID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, s.pending.ID(), views[0].ID, "newest start first")
	assert.Equal(t, s.approved.ID(), views[1].ID)
	assert.NotNil(t, views[0].Secret)

	_, err = q.ListByEmployee(ctx, auth.NewActor(s.otherID), s.ownerID)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	views, err = q.ListByEmployee(ctx, auth.NewActor(s.otherID, auth.CapViewAllBookings), s.ownerID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Nil(t, views[0].Secret)
}

func TestLockQueries(t *testing.T) {
	ctx := context.Background()
	s := newSeed(t)
	q := queries.NewLockQueries(s.store)
	admin := auth.NewActor(s.otherID, auth.CapManageLocks)

	older := employee.NewUnlockRequest(s.ownerID, "manual", now.Add(-48*time.Hour))
	require.NoError(t, older.Reject(s.otherID, "no", now.Add(-24*time.Hour)))
	newer := employee.NewUnlockRequest(s.ownerID, "auto-locked: 3 no-shows in the last 30 days", now)
	require.NoError(t, s.store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.UnlockRequests().Create(ctx, older); err != nil {
			return err
		}
		return tx.UnlockRequests().Create(ctx, newer)
	}))

	history, err := q.GetLockHistory(ctx, auth.NewActor(s.ownerID), s.ownerID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, newer.ID(), history[0].ID)
	assert.Equal(t, "rejected", history[1].Status)

	_, err = q.GetLockHistory(ctx, auth.NewActor(s.otherID), s.ownerID)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	_, err = q.GetLockHistory(ctx, admin, uuid.New())
	assert.ErrorIs(t, err, errs.ErrEmployeeNotFound)

	pending, err := q.GetPendingUnlockRequests(ctx, admin)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, newer.ID(), pending[0].ID)

	_, err = q.GetPendingUnlockRequests(ctx, auth.NewActor(s.ownerID))
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}
