package repository

import (
	"context"
	"time"

	"meeting-room-booking/internal/domain/booking"
	"meeting-room-booking/internal/infra"
	"meeting-room-booking/internal/infra/db"
	"meeting-room-booking/internal/pkg/pgconv"
	"meeting-room-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookingColumns = `id, employee_id, room_id, start_time, end_time, status, secret, cancellation_reason, created_at, updated_at`

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID(), b.EmployeeID(), b.RoomID(),
		b.TimeSlot().Start(), b.TimeSlot().End(),
		b.Status().String(), b.Secret().String(),
		pgconv.StringPtrToPgtype(b.CancellationReason()),
		b.CreatedAt(), b.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

// UpdateStatus fails with KindConflict when approving would overlap another
// approved booking of the room.
func (r *BookingRepository) UpdateStatus(ctx context.Context, b *booking.Booking) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE bookings
		SET status = $2, cancellation_reason = $3, updated_at = $4
		WHERE id = $1`,
		b.ID(), b.Status().String(), pgconv.StringPtrToPgtype(b.CancellationReason()), b.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	b, err := scanBooking(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return b, nil
}

func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
	b, err := scanBooking(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock booking", err)
	}
	return b, nil
}

func (r *BookingRepository) FindApprovedOverlapping(ctx context.Context, roomID uuid.UUID, slot booking.TimeSlot) ([]*booking.Booking, error) {
	return r.list(ctx, "failed to find overlapping bookings", `
		SELECT `+bookingColumns+` FROM bookings
		WHERE room_id = $1 AND status = 'approved'
		  AND tstzrange(start_time, end_time, '[)') && $2
		ORDER BY start_time`,
		roomID, pgconv.SlotRange(slot.Start(), slot.End()),
	)
}

func (r *BookingRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*booking.Booking, error) {
	return r.list(ctx, "failed to list bookings by employee", `
		SELECT `+bookingColumns+` FROM bookings
		WHERE employee_id = $1
		ORDER BY start_time DESC`,
		employeeID,
	)
}

func (r *BookingRepository) ListUnused(ctx context.Context, endedBefore time.Time) ([]*booking.Booking, error) {
	return r.list(ctx, "failed to list unused bookings", `
		SELECT `+bookingColumns+` FROM bookings b
		WHERE b.status = 'approved' AND b.end_time < $1
		  AND NOT EXISTS (SELECT 1 FROM access_events a WHERE a.booking_id = b.id)
		ORDER BY b.end_time`,
		endedBefore,
	)
}

func (r *BookingRepository) CountNoShows(ctx context.Context, from, to time.Time, minCount int) ([]shared.NoShowCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT b.employee_id, COUNT(*)
		FROM bookings b
		WHERE b.status = 'approved' AND b.end_time >= $1 AND b.end_time < $2
		  AND NOT EXISTS (SELECT 1 FROM access_events a WHERE a.booking_id = b.id)
		GROUP BY b.employee_id
		HAVING COUNT(*) >= $3
		ORDER BY b.employee_id`,
		from, to, minCount,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to count no-shows", err)
	}

	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shared.NoShowCount, error) {
		var (
			id    pgtype.UUID
			count int64
		)
		if err := row.Scan(&id, &count); err != nil {
			return shared.NoShowCount{}, err
		}
		return shared.NoShowCount{EmployeeID: uuid.UUID(id.Bytes), Count: int(count)}, nil
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan no-show counts", err)
	}
	return counts, nil
}

func (r *BookingRepository) list(ctx context.Context, msg, sql string, args ...any) ([]*booking.Booking, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(msg, err)
	}
	bookings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*booking.Booking, error) {
		return scanBooking(row)
	})
	if err != nil {
		return nil, infra.WrapRepoErr(msg, err)
	}
	return bookings, nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id, employeeID, roomID pgtype.UUID
		start, end             time.Time
		status, secret         string
		reason                 pgtype.Text
		createdAt, updatedAt   time.Time
	)
	if err := row.Scan(&id, &employeeID, &roomID, &start, &end, &status, &secret, &reason, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	slot, err := booking.NewTimeSlot(start, end)
	if err != nil {
		return nil, err
	}
	st, err := booking.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	sec, err := booking.NewSecret(secret)
	if err != nil {
		return nil, err
	}

	return booking.ReconstructBooking(
		uuid.UUID(id.Bytes), uuid.UUID(employeeID.Bytes), uuid.UUID(roomID.Bytes),
		slot, st, sec,
		pgconv.StringPtrFromPgtype(reason),
		createdAt, updatedAt,
	), nil
}
