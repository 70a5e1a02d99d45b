package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrAlreadyDecided = errors.New("approval already decided")

// ApprovalRecord exists only for bookings whose room needs manual review.
type ApprovalRecord struct {
	bookingID  uuid.UUID
	approverID *uuid.UUID
	decision   Decision
	reason     string
	decidedAt  *time.Time
	createdAt  time.Time
}

func NewApprovalRecord(bookingID uuid.UUID, now time.Time) *ApprovalRecord {
	return &ApprovalRecord{
		bookingID: bookingID,
		decision:  DecisionWaiting,
		createdAt: now,
	}
}

func ReconstructApprovalRecord(
	bookingID uuid.UUID,
	approverID *uuid.UUID,
	decision Decision,
	reason string,
	decidedAt *time.Time,
	createdAt time.Time,
) *ApprovalRecord {
	return &ApprovalRecord{
		bookingID:  bookingID,
		approverID: approverID,
		decision:   decision,
		reason:     reason,
		decidedAt:  decidedAt,
		createdAt:  createdAt,
	}
}

// Decide moves a waiting record to its final decision exactly once.
// approverID is nil when the record is closed by a cancellation.
func (a *ApprovalRecord) Decide(approverID *uuid.UUID, approved bool, reason string, now time.Time) error {
	if a.decision != DecisionWaiting {
		return ErrAlreadyDecided
	}
	a.decision = DecisionRejected
	if approved {
		a.decision = DecisionApproved
	}
	a.approverID = approverID
	a.reason = reason
	a.decidedAt = &now
	return nil
}

func (a *ApprovalRecord) IsWaiting() bool {
	return a.decision == DecisionWaiting
}

func (a *ApprovalRecord) BookingID() uuid.UUID   { return a.bookingID }
func (a *ApprovalRecord) ApproverID() *uuid.UUID { return a.approverID }
func (a *ApprovalRecord) Decision() Decision     { return a.decision }
func (a *ApprovalRecord) Reason() string         { return a.reason }
func (a *ApprovalRecord) DecidedAt() *time.Time  { return a.decidedAt }
func (a *ApprovalRecord) CreatedAt() time.Time   { return a.createdAt }
