package room

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyRoomName   = errors.New("room name cannot be empty")
	ErrRoomNameTooLong = errors.New("room name is too long (max 255 characters)")
	ErrInvalidCapacity = errors.New("room capacity must be positive")
)

const (
	MaxRoomNameLength = 255
)

type Category string

const (
	CategoryStandard Category = "standard"
	CategoryVIP      Category = "vip"
)

func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(s)); c {
	case CategoryStandard, CategoryVIP:
		return c, nil
	default:
		return "", fmt.Errorf("invalid room category: %q", s)
	}
}

type Room struct {
	id        uuid.UUID
	name      string
	capacity  int
	category  Category
	disabled  bool
	createdAt time.Time
	updatedAt time.Time
}

func NewRoom(id uuid.UUID, name string, capacity int, category Category) (*Room, error) {
	if err := validateRoomName(name); err != nil {
		return nil, err
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	return &Room{
		id:       id,
		name:     strings.TrimSpace(name),
		capacity: capacity,
		category: category,
	}, nil
}

func ReconstructRoom(id uuid.UUID, name string, capacity int, category Category, disabled bool, createdAt, updatedAt time.Time) *Room {
	return &Room{
		id:        id,
		name:      name,
		capacity:  capacity,
		category:  category,
		disabled:  disabled,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// IsBookable is false for rooms taken out of service.
func (r *Room) IsBookable() bool {
	return !r.disabled
}

func (r *Room) IsVIP() bool {
	return r.category == CategoryVIP
}

func (r *Room) Disable(now time.Time) {
	r.disabled = true
	r.updatedAt = now
}

func validateRoomName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyRoomName
	}
	if len(name) > MaxRoomNameLength {
		return ErrRoomNameTooLong
	}
	return nil
}

func (r *Room) ID() uuid.UUID        { return r.id }
func (r *Room) Name() string         { return r.name }
func (r *Room) Capacity() int        { return r.capacity }
func (r *Room) Category() Category   { return r.category }
func (r *Room) Disabled() bool       { return r.disabled }
func (r *Room) CreatedAt() time.Time { return r.createdAt }
func (r *Room) UpdatedAt() time.Time { return r.updatedAt }
