package memstore

import (
	"time"

	"meeting-room-booking/internal/domain/employee"
	"meeting-room-booking/internal/domain/room"

	"github.com/google/uuid"
)

// Fixed identifiers of the demo data loaded when the service runs without
// a database.
var (
	DemoHuddleRoomID = uuid.MustParse("5b0e7f0c-2b6a-4c1e-9d7e-1f0a3c9b2e01")
	DemoBoardRoomID  = uuid.MustParse("5b0e7f0c-2b6a-4c1e-9d7e-1f0a3c9b2e02")
	DemoHallRoomID   = uuid.MustParse("5b0e7f0c-2b6a-4c1e-9d7e-1f0a3c9b2e03")

	DemoEmployeeIDs = []uuid.UUID{
		uuid.MustParse("8c3f4a9e-6d21-4b7a-a0c2-0e5d7b1f4a01"),
		uuid.MustParse("8c3f4a9e-6d21-4b7a-a0c2-0e5d7b1f4a02"),
		uuid.MustParse("8c3f4a9e-6d21-4b7a-a0c2-0e5d7b1f4a03"),
	}
)

func SeedDemo(s *Store, now time.Time) {
	s.PutRoom(room.ReconstructRoom(DemoHuddleRoomID, "Huddle", 4, room.CategoryStandard, false, now, now))
	s.PutRoom(room.ReconstructRoom(DemoBoardRoomID, "Board", 12, room.CategoryVIP, false, now, now))
	s.PutRoom(room.ReconstructRoom(DemoHallRoomID, "Hall", 40, room.CategoryStandard, false, now, now))

	for i, id := range DemoEmployeeIDs {
		s.PutEmployee(employee.NewEmployee(id, []string{"Ada", "Grace", "Linus"}[i], now))
	}
}
