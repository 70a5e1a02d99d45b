package employee

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyLocked = errors.New("employee is already locked")
	ErrNotLocked     = errors.New("employee is not locked")
)

// Employee carries only the account lock state; profile data is managed
// elsewhere.
type Employee struct {
	id        uuid.UUID
	name      string
	isLocked  bool
	createdAt time.Time
	updatedAt time.Time
}

func NewEmployee(id uuid.UUID, name string, now time.Time) *Employee {
	return &Employee{
		id:        id,
		name:      name,
		createdAt: now,
		updatedAt: now,
	}
}

func ReconstructEmployee(id uuid.UUID, name string, isLocked bool, createdAt, updatedAt time.Time) *Employee {
	return &Employee{
		id:        id,
		name:      name,
		isLocked:  isLocked,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (e *Employee) Lock(now time.Time) error {
	if e.isLocked {
		return ErrAlreadyLocked
	}
	e.isLocked = true
	e.updatedAt = now
	return nil
}

// Unlock is idempotent; an administrator may clear a lock that has no
// outstanding request.
func (e *Employee) Unlock(now time.Time) {
	if !e.isLocked {
		return
	}
	e.isLocked = false
	e.updatedAt = now
}

func (e *Employee) ID() uuid.UUID        { return e.id }
func (e *Employee) Name() string         { return e.name }
func (e *Employee) IsLocked() bool       { return e.isLocked }
func (e *Employee) CreatedAt() time.Time { return e.createdAt }
func (e *Employee) UpdatedAt() time.Time { return e.updatedAt }
