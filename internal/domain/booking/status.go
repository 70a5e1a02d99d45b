package booking

import "fmt"

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// validTransitions is the only authority on legal status changes.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:  {StatusCancelled},
	StatusRejected:  {},
	StatusCancelled: {},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

func (s Status) IsCancellable() bool {
	return s.CanTransitionTo(StatusCancelled)
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %q", s)
	}
	return status, nil
}

// Decision is the state of a manual approval review.
type Decision string

const (
	DecisionWaiting  Decision = "waiting"
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

func (d Decision) String() string {
	return string(d)
}

func ParseDecision(s string) (Decision, error) {
	switch d := Decision(s); d {
	case DecisionWaiting, DecisionApproved, DecisionRejected:
		return d, nil
	default:
		return "", fmt.Errorf("invalid approval decision: %q", s)
	}
}
