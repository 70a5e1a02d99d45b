package booking

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

const SecretLength = 8

var (
	ErrInvalidTimeSlot = errors.New("start time must be before end time")
	ErrInvalidSecret   = errors.New("secret must be 8 hexadecimal characters")
)

// TimeSlot is the half-open interval [start, end).
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if !start.Before(end) {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	return TimeSlot{start: start, end: end}, nil
}

func (ts TimeSlot) Start() time.Time {
	return ts.start
}

func (ts TimeSlot) End() time.Time {
	return ts.end
}

func (ts TimeSlot) Duration() time.Duration {
	return ts.end.Sub(ts.start)
}

// Overlaps reports whether two slots share any instant. Touching endpoints
// do not overlap.
func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	return !(!ts.end.After(other.start) || !ts.start.Before(other.end))
}

// Admits reports whether t falls inside the access window, which includes
// both endpoints.
func (ts TimeSlot) Admits(t time.Time) bool {
	return !t.Before(ts.start) && !t.After(ts.end)
}

func (ts TimeSlot) EndedBefore(t time.Time) bool {
	return ts.end.Before(t)
}

// Secret is the door credential of a booking, stored upper-case.
type Secret struct {
	value string
}

func NewSecret(value string) (Secret, error) {
	v := strings.ToUpper(strings.TrimSpace(value))
	if len(v) != SecretLength {
		return Secret{}, ErrInvalidSecret
	}
	if _, err := hex.DecodeString(v); err != nil {
		return Secret{}, ErrInvalidSecret
	}
	return Secret{value: v}, nil
}

// Matches compares case-insensitively in constant time.
func (s Secret) Matches(presented string) bool {
	p := strings.ToUpper(strings.TrimSpace(presented))
	return subtle.ConstantTimeCompare([]byte(s.value), []byte(p)) == 1
}

func (s Secret) String() string {
	return s.value
}
