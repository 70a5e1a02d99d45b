package repository

import (
	"context"
	"time"

	"meeting-room-booking/internal/domain/room"
	"meeting-room-booking/internal/infra"
	"meeting-room-booking/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const roomColumns = `id, name, capacity, category, disabled, created_at, updated_at`

type RoomRepository struct {
	db db.DBTX
}

func NewRoomRepository(dbtx db.DBTX) *RoomRepository {
	return &RoomRepository{db: dbtx}
}

func (r *RoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*room.Room, error) {
	rm, err := scanRoom(r.db.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find room", err)
	}
	return rm, nil
}

// FindByIDForUpdate holds the room row lock for the rest of the transaction;
// booking creation and approval on the same room queue behind it.
func (r *RoomRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*room.Room, error) {
	rm, err := scanRoom(r.db.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock room", err)
	}
	return rm, nil
}

func scanRoom(row pgx.Row) (*room.Room, error) {
	var (
		id                   pgtype.UUID
		name, category       string
		capacity             int32
		disabled             bool
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &name, &capacity, &category, &disabled, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c, err := room.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	return room.ReconstructRoom(uuid.UUID(id.Bytes), name, int(capacity), c, disabled, createdAt, updatedAt), nil
}
