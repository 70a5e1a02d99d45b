package errs

import "errors"

// Domain-specific sentinel errors surfaced by the booking core
var (
	// Booking creation
	ErrSlotUnavailable = errors.New("slot unavailable")
	ErrRoomUnavailable = errors.New("room is disabled")
	ErrRoomNotFound    = errors.New("room not found")
	ErrInvalidTimeSlot = errors.New("invalid time slot")

	// Idempotent creation
	ErrIdempotencyInProgress = errors.New("request with this idempotency key is in progress")
	ErrIdempotencyKeyReused  = errors.New("idempotency key reused with a different request")

	// Booking lifecycle
	ErrBookingNotFound = errors.New("booking not found")
	ErrInvalidStatus   = errors.New("invalid booking status for requested operation")
	ErrNotPending      = errors.New("approval already decided")
	ErrUnauthorized    = errors.New("caller is not allowed to perform this operation")

	// Access verification
	ErrBookingNotApproved   = errors.New("booking is not approved")
	ErrOutsideBookingWindow = errors.New("outside booking window")

	// Account locking
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrAlreadyLocked         = errors.New("employee is already locked")
	ErrEmployeeLocked        = errors.New("employee account is locked")
	ErrNoPendingRequest      = errors.New("no pending unlock request")
	ErrUnlockRequestNotFound = errors.New("unlock request not found")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
