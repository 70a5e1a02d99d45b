package response

import (
	"time"

	"meeting-room-booking/internal/usecase/queries"
)

type BookingResponse struct {
	ID                 string            `json:"id"`
	EmployeeID         string            `json:"employee_id"`
	RoomID             string            `json:"room_id"`
	StartTime          string            `json:"start_time"`
	EndTime            string            `json:"end_time"`
	Status             string            `json:"status"`
	Secret             *string           `json:"secret,omitempty"`
	CancellationReason *string           `json:"cancellation_reason,omitempty"`
	Approval           *ApprovalResponse `json:"approval,omitempty"`
	CreatedAt          int64             `json:"created_at"`
	UpdatedAt          int64             `json:"updated_at"`
}

type ApprovalResponse struct {
	Decision   string  `json:"decision"`
	ApproverID *string `json:"approver_id,omitempty"`
	Reason     string  `json:"reason,omitempty"`
	DecidedAt  *int64  `json:"decided_at,omitempty"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	res := &BookingResponse{
		ID:                 v.ID.String(),
		EmployeeID:         v.EmployeeID.String(),
		RoomID:             v.RoomID.String(),
		StartTime:          v.StartTime.UTC().Format(time.RFC3339),
		EndTime:            v.EndTime.UTC().Format(time.RFC3339),
		Status:             v.Status,
		Secret:             v.Secret,
		CancellationReason: v.CancellationReason,
		CreatedAt:          v.CreatedAt.Unix(),
		UpdatedAt:          v.UpdatedAt.Unix(),
	}
	if a := v.Approval; a != nil {
		res.Approval = &ApprovalResponse{Decision: a.Decision, Reason: a.Reason}
		if a.ApproverID != nil {
			id := a.ApproverID.String()
			res.Approval.ApproverID = &id
		}
		if a.DecidedAt != nil {
			ts := a.DecidedAt.Unix()
			res.Approval.DecidedAt = &ts
		}
	}
	return res
}

func FromBookingViews(views []*queries.BookingView) []*BookingResponse {
	res := make([]*BookingResponse, len(views))
	for i, v := range views {
		res[i] = FromBookingView(v)
	}
	return res
}
