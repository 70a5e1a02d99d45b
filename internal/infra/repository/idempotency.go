package repository

import (
	"context"
	"time"

	"meeting-room-booking/internal/infra"
	"meeting-room-booking/internal/infra/db"
	"meeting-room-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyRepository struct {
	db db.DBTX
}

func NewIdempotencyRepository(dbtx db.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{db: dbtx}
}

func (r *IdempotencyRepository) Find(ctx context.Context, key, employeeID uuid.UUID, now time.Time) (*shared.IdempotencyRecord, error) {
	var (
		bookingID            pgtype.UUID
		hash                 string
		createdAt, expiresAt time.Time
	)
	err := r.db.QueryRow(ctx, `
		SELECT request_hash, booking_id, created_at, expires_at
		FROM idempotency_keys
		WHERE key = $1 AND employee_id = $2 AND expires_at > $3`,
		key, employeeID, now,
	).Scan(&hash, &bookingID, &createdAt, &expiresAt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find idempotency key", err)
	}
	return &shared.IdempotencyRecord{
		Key:         key,
		EmployeeID:  employeeID,
		RequestHash: hash,
		BookingID:   uuid.UUID(bookingID.Bytes),
		CreatedAt:   createdAt,
		ExpiresAt:   expiresAt,
	}, nil
}

// Save upserts only over an expired row; a concurrent insert of the same key
// waits for the other transaction and then matches no row.
func (r *IdempotencyRepository) Save(ctx context.Context, rec *shared.IdempotencyRecord) error {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO idempotency_keys (key, employee_id, request_hash, booking_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key, employee_id) DO UPDATE
		SET request_hash = EXCLUDED.request_hash,
			booking_id = EXCLUDED.booking_id,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
		WHERE idempotency_keys.expires_at <= EXCLUDED.created_at`,
		rec.Key, rec.EmployeeID, rec.RequestHash, rec.BookingID, rec.CreatedAt, rec.ExpiresAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save idempotency key", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("idempotency key is held", nil, infra.KindConflict)
	}
	return nil
}
