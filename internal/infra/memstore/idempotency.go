package memstore

import (
	"context"
	"time"

	"meeting-room-booking/internal/infra"
	"meeting-room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type idempotencyRepo struct {
	st *state
}

func (r *idempotencyRepo) Find(_ context.Context, key, employeeID uuid.UUID, now time.Time) (*shared.IdempotencyRecord, error) {
	rec, ok := r.st.idempotency[idempotencyKey{key: key, employeeID: employeeID}]
	if !ok || !rec.ExpiresAt.After(now) {
		return nil, infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return &rec, nil
}

func (r *idempotencyRepo) Save(_ context.Context, rec *shared.IdempotencyRecord) error {
	if _, ok := r.st.bookings[rec.BookingID]; !ok {
		return infra.WrapRepoErr("idempotency key references unknown booking", nil, infra.KindForeignKeyViolated)
	}
	k := idempotencyKey{key: rec.Key, employeeID: rec.EmployeeID}
	if cur, ok := r.st.idempotency[k]; ok && cur.ExpiresAt.After(rec.CreatedAt) {
		return infra.WrapRepoErr("idempotency key is held", nil, infra.KindConflict)
	}
	r.st.idempotency[k] = *rec
	return nil
}
