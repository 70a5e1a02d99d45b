package queries

import (
	"time"

	"meeting-room-booking/internal/domain/booking"
	"meeting-room-booking/internal/domain/employee"

	"github.com/google/uuid"
)

// BookingView is the read model of a booking. Secret is only filled in for
// the booking's owner.
type BookingView struct {
	ID                 uuid.UUID     `json:"id"`
	EmployeeID         uuid.UUID     `json:"employee_id"`
	RoomID             uuid.UUID     `json:"room_id"`
	StartTime          time.Time     `json:"start_time"`
	EndTime            time.Time     `json:"end_time"`
	Status             string        `json:"status"`
	Secret             *string       `json:"secret,omitempty"`
	CancellationReason *string       `json:"cancellation_reason,omitempty"`
	Approval           *ApprovalView `json:"approval,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

type ApprovalView struct {
	Decision   string     `json:"decision"`
	ApproverID *uuid.UUID `json:"approver_id,omitempty"`
	Reason     string     `json:"reason,omitempty"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
}

type UnlockRequestView struct {
	ID             uuid.UUID  `json:"id"`
	EmployeeID     uuid.UUID  `json:"employee_id"`
	RequestTime    time.Time  `json:"request_time"`
	Status         string     `json:"status"`
	Reason         string     `json:"reason"`
	ApproverID     *uuid.UUID `json:"approver_id,omitempty"`
	DecisionReason *string    `json:"decision_reason,omitempty"`
	DecisionTime   *time.Time `json:"decision_time,omitempty"`
}

func NewBookingView(b *booking.Booking, rec *booking.ApprovalRecord, withSecret bool) *BookingView {
	v := &BookingView{
		ID:                 b.ID(),
		EmployeeID:         b.EmployeeID(),
		RoomID:             b.RoomID(),
		StartTime:          b.TimeSlot().Start(),
		EndTime:            b.TimeSlot().End(),
		Status:             b.Status().String(),
		CancellationReason: b.CancellationReason(),
		CreatedAt:          b.CreatedAt(),
		UpdatedAt:          b.UpdatedAt(),
	}
	if withSecret {
		s := b.Secret().String()
		v.Secret = &s
	}
	if rec != nil {
		v.Approval = &ApprovalView{
			Decision:   rec.Decision().String(),
			ApproverID: rec.ApproverID(),
			Reason:     rec.Reason(),
			DecidedAt:  rec.DecidedAt(),
		}
	}
	return v
}

func NewUnlockRequestView(r *employee.UnlockRequest) *UnlockRequestView {
	return &UnlockRequestView{
		ID:             r.ID(),
		EmployeeID:     r.EmployeeID(),
		RequestTime:    r.RequestTime(),
		Status:         string(r.Status()),
		Reason:         r.Reason(),
		ApproverID:     r.ApproverID(),
		DecisionReason: r.DecisionReason(),
		DecisionTime:   r.DecisionTime(),
	}
}
