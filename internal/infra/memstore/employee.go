package memstore

import (
	"context"
	"slices"

	"meeting-room-booking/internal/domain/employee"
	"meeting-room-booking/internal/domain/room"
	"meeting-room-booking/internal/infra"

	"github.com/google/uuid"
)

type roomRepo struct {
	st *state
}

func (r *roomRepo) FindByID(_ context.Context, id uuid.UUID) (*room.Room, error) {
	rm, ok := r.st.rooms[id]
	if !ok {
		return nil, infra.WrapRepoErr("room not found", nil, infra.KindNotFound)
	}
	return &rm, nil
}

func (r *roomRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*room.Room, error) {
	return r.FindByID(ctx, id)
}

type employeeRepo struct {
	st *state
}

func (r *employeeRepo) FindByID(_ context.Context, id uuid.UUID) (*employee.Employee, error) {
	e, ok := r.st.employees[id]
	if !ok {
		return nil, infra.WrapRepoErr("employee not found", nil, infra.KindNotFound)
	}
	return &e, nil
}

func (r *employeeRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	return r.FindByID(ctx, id)
}

func (r *employeeRepo) UpdateLocked(_ context.Context, e *employee.Employee) error {
	if _, ok := r.st.employees[e.ID()]; !ok {
		return infra.WrapRepoErr("employee not found", nil, infra.KindNotFound)
	}
	r.st.employees[e.ID()] = *e
	return nil
}

type unlockRequestRepo struct {
	st *state
}

// Create enforces at most one pending request per employee, like the partial
// unique index in PostgreSQL.
func (r *unlockRequestRepo) Create(_ context.Context, req *employee.UnlockRequest) error {
	if _, ok := r.st.employees[req.EmployeeID()]; !ok {
		return infra.WrapRepoErr("unlock request references unknown employee", nil, infra.KindForeignKeyViolated)
	}
	if req.IsPending() {
		for _, existing := range r.st.unlockRequests {
			if existing.EmployeeID() == req.EmployeeID() && existing.IsPending() {
				return infra.WrapRepoErr("pending unlock request already exists", nil, infra.KindDuplicateKey)
			}
		}
	}
	r.st.unlockRequests[req.ID()] = *req
	return nil
}

func (r *unlockRequestRepo) Resolve(_ context.Context, req *employee.UnlockRequest) error {
	stored, ok := r.st.unlockRequests[req.ID()]
	if !ok {
		return infra.WrapRepoErr("unlock request not found", nil, infra.KindNotFound)
	}
	if !stored.IsPending() {
		return infra.WrapRepoErr("unlock request already resolved", nil, infra.KindConflict)
	}
	r.st.unlockRequests[req.ID()] = *req
	return nil
}

func (r *unlockRequestRepo) FindByID(_ context.Context, id uuid.UUID) (*employee.UnlockRequest, error) {
	req, ok := r.st.unlockRequests[id]
	if !ok {
		return nil, infra.WrapRepoErr("unlock request not found", nil, infra.KindNotFound)
	}
	return &req, nil
}

func (r *unlockRequestRepo) FindPendingByEmployee(_ context.Context, employeeID uuid.UUID) (*employee.UnlockRequest, error) {
	for _, req := range r.st.unlockRequests {
		if req.EmployeeID() == employeeID && req.IsPending() {
			return &req, nil
		}
	}
	return nil, infra.WrapRepoErr("pending unlock request not found", nil, infra.KindNotFound)
}

func (r *unlockRequestRepo) ListByEmployee(_ context.Context, employeeID uuid.UUID) ([]*employee.UnlockRequest, error) {
	var out []*employee.UnlockRequest
	for _, req := range r.st.unlockRequests {
		if req.EmployeeID() == employeeID {
			out = append(out, &req)
		}
	}
	slices.SortFunc(out, func(a, b *employee.UnlockRequest) int {
		return b.RequestTime().Compare(a.RequestTime())
	})
	return out, nil
}

func (r *unlockRequestRepo) ListPending(_ context.Context) ([]*employee.UnlockRequest, error) {
	var out []*employee.UnlockRequest
	for _, req := range r.st.unlockRequests {
		if req.IsPending() {
			out = append(out, &req)
		}
	}
	slices.SortFunc(out, func(a, b *employee.UnlockRequest) int {
		return a.RequestTime().Compare(b.RequestTime())
	})
	return out, nil
}
