package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=events.go -destination=../../../tests/mock/shared/events_mock.go -package=sharedmock

type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingApproved  EventType = "booking.approved"
	EventBookingRejected  EventType = "booking.rejected"
	EventBookingCancelled EventType = "booking.cancelled"
	EventAccessGranted    EventType = "access.granted"
	EventEmployeeLocked   EventType = "employee.locked"
	EventEmployeeUnlocked EventType = "employee.unlocked"
)

// Event is published after the transaction that produced it commits.
type Event struct {
	Type        EventType         `json:"type"`
	AggregateID uuid.UUID         `json:"aggregate_id"`
	OccurredAt  time.Time         `json:"occurred_at"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
