package httperr

import (
	"net/http"

	"meeting-room-booking/internal/domain/booking"
	"meeting-room-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

type mapping struct {
	kind    error
	status  int
	message string
}

// Checked in order; marks added by the use cases are honoured by errs.Is.
var mappings = []mapping{
	{errs.ErrBookingNotFound, http.StatusNotFound, "Booking not found"},
	{errs.ErrRoomNotFound, http.StatusNotFound, "Room not found"},
	{errs.ErrEmployeeNotFound, http.StatusNotFound, "Employee not found"},
	{errs.ErrUnlockRequestNotFound, http.StatusNotFound, "Unlock request not found"},

	{errs.ErrSlotUnavailable, http.StatusConflict, "Time slot is not available"},
	{errs.ErrInvalidStatus, http.StatusConflict, "Booking cannot be changed in its current status"},
	{errs.ErrNotPending, http.StatusConflict, "Booking is not waiting for approval"},
	{errs.ErrAlreadyLocked, http.StatusConflict, "Employee is already locked"},
	{errs.ErrNoPendingRequest, http.StatusConflict, "No pending unlock request"},
	{errs.ErrIdempotencyInProgress, http.StatusConflict, "A request with this Idempotency-Key is in progress"},
	{booking.ErrInvalidTransition, http.StatusConflict, "Invalid booking status transition"},

	{errs.ErrUnauthorized, http.StatusForbidden, "Insufficient permissions"},
	{errs.ErrEmployeeLocked, http.StatusForbidden, "Employee account is locked"},
	{errs.ErrBookingNotApproved, http.StatusForbidden, "Booking is not approved"},
	{errs.ErrOutsideBookingWindow, http.StatusForbidden, "Outside the booking window"},

	{errs.ErrRoomUnavailable, http.StatusUnprocessableEntity, "Room is not available for booking"},
	{errs.ErrInvalidTimeSlot, http.StatusUnprocessableEntity, "Invalid time slot"},
	{errs.ErrIdempotencyKeyReused, http.StatusUnprocessableEntity, "Idempotency-Key was used for a different request"},

	{booking.ErrCancellationReasonRequired, http.StatusBadRequest, "Cancellation reason is required"},
}

// StatusOf returns the HTTP status and public message for a use-case error.
func StatusOf(err error) (int, string) {
	for _, m := range mappings {
		if errs.Is(err, m.kind) {
			return m.status, m.message
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}

func AbortWithDomainError(c *gin.Context, err error) {
	status, msg := StatusOf(err)
	AbortWithError(c, status, err, msg, nil)
}
