package repository

import (
	"context"
	"time"

	"meeting-room-booking/internal/domain/booking"
	"meeting-room-booking/internal/infra"
	"meeting-room-booking/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type AccessEventRepository struct {
	db db.DBTX
}

func NewAccessEventRepository(dbtx db.DBTX) *AccessEventRepository {
	return &AccessEventRepository{db: dbtx}
}

func (r *AccessEventRepository) Create(ctx context.Context, ev *booking.AccessEvent) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO access_events (id, booking_id, access_time) VALUES ($1, $2, $3)`,
		ev.ID(), ev.BookingID(), ev.AccessTime(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to record access event", err)
	}
	return nil
}

func (r *AccessEventRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*booking.AccessEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, booking_id, access_time FROM access_events
		WHERE booking_id = $1
		ORDER BY access_time`,
		bookingID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list access events", err)
	}

	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*booking.AccessEvent, error) {
		var (
			id, bID pgtype.UUID
			at      time.Time
		)
		if err := row.Scan(&id, &bID, &at); err != nil {
			return nil, err
		}
		return booking.ReconstructAccessEvent(uuid.UUID(id.Bytes), uuid.UUID(bID.Bytes), at), nil
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan access events", err)
	}
	return events, nil
}
