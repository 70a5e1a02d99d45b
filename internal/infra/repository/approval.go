package repository

import (
	"context"

	"meeting-room-booking/internal/domain/booking"
	"meeting-room-booking/internal/infra"
	"meeting-room-booking/internal/infra/db"
	"meeting-room-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ApprovalRepository struct {
	db db.DBTX
}

func NewApprovalRepository(dbtx db.DBTX) *ApprovalRepository {
	return &ApprovalRepository{db: dbtx}
}

func (r *ApprovalRepository) Create(ctx context.Context, rec *booking.ApprovalRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO approval_records (booking_id, approver_id, decision, reason, decided_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.BookingID(), pgconv.UUIDPtrToPgtype(rec.ApproverID()), rec.Decision().String(),
		rec.Reason(), pgconv.TimePtrToPgtype(rec.DecidedAt()), rec.CreatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create approval record", err)
	}
	return nil
}

func (r *ApprovalRepository) Update(ctx context.Context, rec *booking.ApprovalRecord) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE approval_records
		SET approver_id = $2, decision = $3, reason = $4, decided_at = $5
		WHERE booking_id = $1`,
		rec.BookingID(), pgconv.UUIDPtrToPgtype(rec.ApproverID()), rec.Decision().String(),
		rec.Reason(), pgconv.TimePtrToPgtype(rec.DecidedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update approval record", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("approval record not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ApprovalRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*booking.ApprovalRecord, error) {
	var (
		id         pgtype.UUID
		approverID pgtype.UUID
		decision   string
		reason     string
		decidedAt  pgtype.Timestamptz
		createdAt  pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, `
		SELECT booking_id, approver_id, decision, reason, decided_at, created_at
		FROM approval_records WHERE booking_id = $1`,
		bookingID,
	).Scan(&id, &approverID, &decision, &reason, &decidedAt, &createdAt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find approval record", err)
	}

	d, err := booking.ParseDecision(decision)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt approval record", err)
	}
	return booking.ReconstructApprovalRecord(
		uuid.UUID(id.Bytes),
		pgconv.UUIDPtrFromPgtype(approverID),
		d, reason,
		pgconv.TimePtrFromPgtype(decidedAt),
		pgconv.TimeFromPgtype(createdAt),
	), nil
}
