// Package auth models what an already-authenticated caller is allowed to do.
// Role names are mapped to capabilities once, at the access-control boundary.
package auth

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrUnknownCapability = errors.New("unknown capability")

type Capability uint8

const (
	// CapManageBookings allows cancelling bookings owned by other employees.
	CapManageBookings Capability = 1 << iota
	// CapApproveBookings allows deciding on bookings waiting for approval.
	CapApproveBookings
	// CapViewAllBookings allows reading bookings owned by other employees.
	CapViewAllBookings
	// CapManageLocks allows manual lock/unlock and the auto-lock sweep.
	CapManageLocks
)

var orderedNames = []string{"bookings:manage", "bookings:approve", "bookings:view", "locks:manage"}

var capabilityNames = map[string]Capability{
	"bookings:manage":  CapManageBookings,
	"bookings:approve": CapApproveBookings,
	"bookings:view":    CapViewAllBookings,
	"locks:manage":     CapManageLocks,
}

func ParseCapability(name string) (Capability, error) {
	c, ok := capabilityNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, ErrUnknownCapability
	}
	return c, nil
}

func (c Capability) Names() []string {
	names := make([]string, 0, len(orderedNames))
	for _, name := range orderedNames {
		if c&capabilityNames[name] != 0 {
			names = append(names, name)
		}
	}
	return names
}

// Actor is the capability token handed to the core for every operation.
type Actor struct {
	employeeID   uuid.UUID
	capabilities Capability
}

func NewActor(employeeID uuid.UUID, caps ...Capability) Actor {
	var all Capability
	for _, c := range caps {
		all |= c
	}
	return Actor{employeeID: employeeID, capabilities: all}
}

// SystemActor is used by the scheduled auto-lock sweep.
func SystemActor() Actor {
	return NewActor(uuid.Nil, CapManageBookings, CapApproveBookings, CapViewAllBookings, CapManageLocks)
}

func (a Actor) EmployeeID() uuid.UUID       { return a.employeeID }
func (a Actor) Capabilities() Capability    { return a.capabilities }
func (a Actor) Has(c Capability) bool       { return a.capabilities&c == c }
func (a Actor) Owns(ownerID uuid.UUID) bool { return a.employeeID != uuid.Nil && a.employeeID == ownerID }
