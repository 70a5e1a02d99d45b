package employee

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrRequestAlreadyResolved = errors.New("unlock request already resolved")

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

func ParseRequestStatus(s string) (RequestStatus, error) {
	switch st := RequestStatus(s); st {
	case RequestPending, RequestApproved, RequestRejected:
		return st, nil
	default:
		return "", fmt.Errorf("invalid unlock request status: %q", s)
	}
}

// UnlockRequest is opened whenever an employee gets locked and waits for a
// human decision.
type UnlockRequest struct {
	id             uuid.UUID
	employeeID     uuid.UUID
	requestTime    time.Time
	status         RequestStatus
	reason         string
	approverID     *uuid.UUID
	decisionReason *string
	decisionTime   *time.Time
}

func NewUnlockRequest(employeeID uuid.UUID, reason string, now time.Time) *UnlockRequest {
	return &UnlockRequest{
		id:          uuid.New(),
		employeeID:  employeeID,
		requestTime: now,
		status:      RequestPending,
		reason:      reason,
	}
}

func ReconstructUnlockRequest(
	id, employeeID uuid.UUID,
	requestTime time.Time,
	status RequestStatus,
	reason string,
	approverID *uuid.UUID,
	decisionReason *string,
	decisionTime *time.Time,
) *UnlockRequest {
	return &UnlockRequest{
		id:             id,
		employeeID:     employeeID,
		requestTime:    requestTime,
		status:         status,
		reason:         reason,
		approverID:     approverID,
		decisionReason: decisionReason,
		decisionTime:   decisionTime,
	}
}

func (r *UnlockRequest) Approve(approverID uuid.UUID, reason string, now time.Time) error {
	return r.resolve(RequestApproved, approverID, reason, now)
}

func (r *UnlockRequest) Reject(approverID uuid.UUID, reason string, now time.Time) error {
	return r.resolve(RequestRejected, approverID, reason, now)
}

func (r *UnlockRequest) resolve(status RequestStatus, approverID uuid.UUID, reason string, now time.Time) error {
	if r.status != RequestPending {
		return ErrRequestAlreadyResolved
	}
	r.status = status
	r.approverID = &approverID
	r.decisionReason = &reason
	r.decisionTime = &now
	return nil
}

func (r *UnlockRequest) IsPending() bool {
	return r.status == RequestPending
}

func (r *UnlockRequest) ID() uuid.UUID            { return r.id }
func (r *UnlockRequest) EmployeeID() uuid.UUID    { return r.employeeID }
func (r *UnlockRequest) RequestTime() time.Time   { return r.requestTime }
func (r *UnlockRequest) Status() RequestStatus    { return r.status }
func (r *UnlockRequest) Reason() string           { return r.reason }
func (r *UnlockRequest) ApproverID() *uuid.UUID   { return r.approverID }
func (r *UnlockRequest) DecisionReason() *string  { return r.decisionReason }
func (r *UnlockRequest) DecisionTime() *time.Time { return r.decisionTime }
