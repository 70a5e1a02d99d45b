package request

import "meeting-room-booking/internal/usecase/commands"

type LockEmployeeRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type ResolveUnlockRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// Zero values fall back to the configured defaults.
type AutoCheckRequest struct {
	PeriodDays int `json:"period_days" binding:"omitempty,min=1,max=365"`
	Threshold  int `json:"threshold" binding:"omitempty,min=1"`
}

func (r *AutoCheckRequest) ToParams(defaults commands.AutoLockParams) commands.AutoLockParams {
	params := defaults
	if r.PeriodDays > 0 {
		params.PeriodDays = r.PeriodDays
	}
	if r.Threshold > 0 {
		params.Threshold = r.Threshold
	}
	return params
}
