//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestRoom(t *testing.T, db DBLike, name string, capacity int, category string) uuid.UUID {
	t.Helper()

	roomID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO rooms (id, name, capacity, category) VALUES ($1, $2, $3, $4)",
		roomID, name, capacity, category)
	require.NoError(t, err)
	return roomID
}

func CreateTestEmployee(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	employeeID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO employees (id, name) VALUES ($1, $2)",
		employeeID, name)
	require.NoError(t, err)
	return employeeID
}

// CreateTestBooking inserts a booking directly, bypassing the conflict
// check, for setting up history such as past no-shows.
func CreateTestBooking(t *testing.T, db DBLike, employeeID, roomID uuid.UUID, start, end time.Time, status, secret string) uuid.UUID {
	t.Helper()

	bookingID := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO bookings (id, employee_id, room_id, start_time, end_time, status, secret, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		bookingID, employeeID, roomID, start, end, status, secret, start.Add(-time.Hour))
	require.NoError(t, err)
	return bookingID
}

func IsEmployeeLocked(t *testing.T, db DBLike, employeeID uuid.UUID) bool {
	t.Helper()

	var locked bool
	err := db.QueryRow(context.Background(), "SELECT is_locked FROM employees WHERE id = $1", employeeID).Scan(&locked)
	require.NoError(t, err)
	return locked
}

func CountApprovedOverlapping(t *testing.T, db DBLike, roomID uuid.UUID, start, end time.Time) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), `
		SELECT COUNT(*) FROM bookings
		WHERE room_id = $1 AND status = 'approved' AND start_time < $3 AND end_time > $2`,
		roomID, start, end).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
