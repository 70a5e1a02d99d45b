package request

import "github.com/google/uuid"

type VerifyAccessRequest struct {
	BookingID uuid.UUID `json:"booking_id" binding:"required"`
	Secret    string    `json:"secret" binding:"required,max=64"`
}
