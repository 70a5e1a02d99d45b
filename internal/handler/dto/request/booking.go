package request

import (
	"time"

	"meeting-room-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	RoomID    uuid.UUID `json:"room_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

func (r *CreateBookingRequest) ToParams() commands.CreateBookingParams {
	return commands.CreateBookingParams{
		RoomID:    r.RoomID,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// Approved is a pointer so that an explicit false is distinguishable from a
// missing field.
type DecisionRequest struct {
	Approved *bool  `json:"approved" binding:"required"`
	Reason   string `json:"reason" binding:"max=500"`
}

type ListBookingsQuery struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
}
