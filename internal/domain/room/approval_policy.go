package room

import "fmt"

const (
	PolicyVIP      = "vip"
	PolicyCapacity = "capacity"
)

// ApprovalPolicy decides whether a new booking on a room starts a manual
// review or is approved on creation. Implementations must be pure.
type ApprovalPolicy interface {
	RequiresApproval(r *Room) bool
}

// VIPApprovalPolicy gates VIP rooms.
type VIPApprovalPolicy struct{}

func (VIPApprovalPolicy) RequiresApproval(r *Room) bool {
	return r.IsVIP()
}

// CapacityApprovalPolicy gates rooms at or above MinCapacity seats.
type CapacityApprovalPolicy struct {
	MinCapacity int
}

func (p CapacityApprovalPolicy) RequiresApproval(r *Room) bool {
	return r.Capacity() >= p.MinCapacity
}

func NewApprovalPolicy(name string, minCapacity int) (ApprovalPolicy, error) {
	switch name {
	case PolicyVIP:
		return VIPApprovalPolicy{}, nil
	case PolicyCapacity:
		if minCapacity <= 0 {
			return nil, ErrInvalidCapacity
		}
		return CapacityApprovalPolicy{MinCapacity: minCapacity}, nil
	default:
		return nil, fmt.Errorf("unknown approval policy: %q", name)
	}
}
