package repository

import (
	"context"
	"time"

	"meeting-room-booking/internal/domain/employee"
	"meeting-room-booking/internal/infra"
	"meeting-room-booking/internal/infra/db"
	"meeting-room-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const unlockRequestColumns = `id, employee_id, request_time, status, reason, approver_id, decision_reason, decision_time`

type UnlockRequestRepository struct {
	db db.DBTX
}

func NewUnlockRequestRepository(dbtx db.DBTX) *UnlockRequestRepository {
	return &UnlockRequestRepository{db: dbtx}
}

// Create fails with KindDuplicateKey when the employee already has a pending
// request.
func (r *UnlockRequestRepository) Create(ctx context.Context, req *employee.UnlockRequest) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO unlock_requests (`+unlockRequestColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		req.ID(), req.EmployeeID(), req.RequestTime(), string(req.Status()), req.Reason(),
		pgconv.UUIDPtrToPgtype(req.ApproverID()),
		pgconv.StringPtrToPgtype(req.DecisionReason()),
		pgconv.TimePtrToPgtype(req.DecisionTime()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create unlock request", err)
	}
	return nil
}

// Resolve only succeeds while the stored request is still pending.
func (r *UnlockRequestRepository) Resolve(ctx context.Context, req *employee.UnlockRequest) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE unlock_requests
		SET status = $2, approver_id = $3, decision_reason = $4, decision_time = $5
		WHERE id = $1 AND status = 'pending'`,
		req.ID(), string(req.Status()),
		pgconv.UUIDPtrToPgtype(req.ApproverID()),
		pgconv.StringPtrToPgtype(req.DecisionReason()),
		pgconv.TimePtrToPgtype(req.DecisionTime()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to resolve unlock request", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("unlock request already resolved", nil, infra.KindConflict)
	}
	return nil
}

func (r *UnlockRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*employee.UnlockRequest, error) {
	req, err := scanUnlockRequest(r.db.QueryRow(ctx,
		`SELECT `+unlockRequestColumns+` FROM unlock_requests WHERE id = $1`, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find unlock request", err)
	}
	return req, nil
}

func (r *UnlockRequestRepository) FindPendingByEmployee(ctx context.Context, employeeID uuid.UUID) (*employee.UnlockRequest, error) {
	req, err := scanUnlockRequest(r.db.QueryRow(ctx,
		`SELECT `+unlockRequestColumns+` FROM unlock_requests WHERE employee_id = $1 AND status = 'pending'`, employeeID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find pending unlock request", err)
	}
	return req, nil
}

func (r *UnlockRequestRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*employee.UnlockRequest, error) {
	return r.list(ctx, "failed to list unlock requests", `
		SELECT `+unlockRequestColumns+` FROM unlock_requests
		WHERE employee_id = $1
		ORDER BY request_time DESC`,
		employeeID,
	)
}

func (r *UnlockRequestRepository) ListPending(ctx context.Context) ([]*employee.UnlockRequest, error) {
	return r.list(ctx, "failed to list pending unlock requests", `
		SELECT `+unlockRequestColumns+` FROM unlock_requests
		WHERE status = 'pending'
		ORDER BY request_time`,
	)
}

func (r *UnlockRequestRepository) list(ctx context.Context, msg, sql string, args ...any) ([]*employee.UnlockRequest, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(msg, err)
	}
	requests, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*employee.UnlockRequest, error) {
		return scanUnlockRequest(row)
	})
	if err != nil {
		return nil, infra.WrapRepoErr(msg, err)
	}
	return requests, nil
}

func scanUnlockRequest(row pgx.Row) (*employee.UnlockRequest, error) {
	var (
		id, employeeID pgtype.UUID
		requestTime    time.Time
		status, reason string
		approverID     pgtype.UUID
		decisionReason pgtype.Text
		decisionTime   pgtype.Timestamptz
	)
	if err := row.Scan(&id, &employeeID, &requestTime, &status, &reason, &approverID, &decisionReason, &decisionTime); err != nil {
		return nil, err
	}
	st, err := employee.ParseRequestStatus(status)
	if err != nil {
		return nil, err
	}
	return employee.ReconstructUnlockRequest(
		uuid.UUID(id.Bytes), uuid.UUID(employeeID.Bytes),
		requestTime, st, reason,
		pgconv.UUIDPtrFromPgtype(approverID),
		pgconv.StringPtrFromPgtype(decisionReason),
		pgconv.TimePtrFromPgtype(decisionTime),
	), nil
}
