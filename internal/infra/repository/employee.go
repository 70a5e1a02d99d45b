package repository

import (
	"context"
	"time"

	"meeting-room-booking/internal/domain/employee"
	"meeting-room-booking/internal/infra"
	"meeting-room-booking/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type EmployeeRepository struct {
	db db.DBTX
}

func NewEmployeeRepository(dbtx db.DBTX) *EmployeeRepository {
	return &EmployeeRepository{db: dbtx}
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	e, err := scanEmployee(r.db.QueryRow(ctx,
		`SELECT id, name, is_locked, created_at, updated_at FROM employees WHERE id = $1`, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find employee", err)
	}
	return e, nil
}

func (r *EmployeeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	e, err := scanEmployee(r.db.QueryRow(ctx,
		`SELECT id, name, is_locked, created_at, updated_at FROM employees WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock employee", err)
	}
	return e, nil
}

func (r *EmployeeRepository) UpdateLocked(ctx context.Context, e *employee.Employee) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE employees SET is_locked = $2, updated_at = $3 WHERE id = $1`,
		e.ID(), e.IsLocked(), e.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update employee lock state", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("employee not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		id                   pgtype.UUID
		name                 string
		isLocked             bool
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &name, &isLocked, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return employee.ReconstructEmployee(uuid.UUID(id.Bytes), name, isLocked, createdAt, updatedAt), nil
}
