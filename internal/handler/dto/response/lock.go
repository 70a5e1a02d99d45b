package response

import (
	"meeting-room-booking/internal/domain/employee"
	"meeting-room-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type UnlockRequestResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	RequestTime    int64   `json:"request_time"`
	Status         string  `json:"status"`
	Reason         string  `json:"reason"`
	ApproverID     *string `json:"approver_id,omitempty"`
	DecisionReason *string `json:"decision_reason,omitempty"`
	DecisionTime   *int64  `json:"decision_time,omitempty"`
}

func FromUnlockRequestView(v *queries.UnlockRequestView) *UnlockRequestResponse {
	res := &UnlockRequestResponse{
		ID:             v.ID.String(),
		EmployeeID:     v.EmployeeID.String(),
		RequestTime:    v.RequestTime.Unix(),
		Status:         v.Status,
		Reason:         v.Reason,
		DecisionReason: v.DecisionReason,
	}
	if v.ApproverID != nil {
		id := v.ApproverID.String()
		res.ApproverID = &id
	}
	if v.DecisionTime != nil {
		ts := v.DecisionTime.Unix()
		res.DecisionTime = &ts
	}
	return res
}

func FromUnlockRequestViews(views []*queries.UnlockRequestView) []*UnlockRequestResponse {
	res := make([]*UnlockRequestResponse, len(views))
	for i, v := range views {
		res[i] = FromUnlockRequestView(v)
	}
	return res
}

// UnlockResponse.Request is null when an administrator cleared a lock that
// had no pending request.
type UnlockResponse struct {
	EmployeeID string                 `json:"employee_id"`
	IsLocked   bool                   `json:"is_locked"`
	Request    *UnlockRequestResponse `json:"request"`
}

func NewUnlockResponse(employeeID uuid.UUID, resolved *employee.UnlockRequest) *UnlockResponse {
	res := &UnlockResponse{EmployeeID: employeeID.String()}
	if resolved != nil {
		res.Request = FromUnlockRequestView(queries.NewUnlockRequestView(resolved))
	}
	return res
}

type LockedEmployeeResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsLocked bool   `json:"is_locked"`
}

type AutoCheckResponse struct {
	Locked []*LockedEmployeeResponse `json:"locked"`
}

func FromLockedEmployees(employees []*employee.Employee) *AutoCheckResponse {
	res := &AutoCheckResponse{Locked: make([]*LockedEmployeeResponse, len(employees))}
	for i, e := range employees {
		res.Locked[i] = &LockedEmployeeResponse{ID: e.ID().String(), Name: e.Name(), IsLocked: e.IsLocked()}
	}
	return res
}
