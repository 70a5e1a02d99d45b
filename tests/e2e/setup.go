//go:build e2e

// Package e2e runs the HTTP API against a real PostgreSQL started with
// testcontainers. One container serves the whole test binary; every suite
// gets its own database.
package e2e

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"meeting-room-booking/cmd/bootstrap"
	"meeting-room-booking/cmd/bootstrap/components"
	"meeting-room-booking/internal/infra/db"
	"meeting-room-booking/internal/pkg/config"
	"meeting-room-booking/tests/common/authtest"
	"meeting-room-booking/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	pgUser     = "booking"
	pgPassword = "booking"
	pgPort     = nat.Port("5432/tcp")
)

// pgServer is the address of the shared PostgreSQL container.
type pgServer struct {
	host string
	port nat.Port
}

func (s pgServer) dsn(database string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		pgUser, pgPassword, s.host, s.port.Port(), database)
}

func (s pgServer) dbConfig(database string) config.DBConfig {
	return config.DBConfig{
		Driver:   "postgres",
		Host:     s.host,
		Port:     s.port.Port(),
		User:     pgUser,
		Password: pgPassword,
		DBName:   database,
		SSLMode:  "disable",
		TimeZone: "UTC",
		MaxConns: 30,
	}
}

var (
	serverOnce sync.Once
	server     pgServer
	serverErr  error
)

// sharedServer starts the container on first use. It is left for the
// testcontainers reaper to remove when the test binary exits.
func sharedServer(t *testing.T) pgServer {
	serverOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		var c testcontainers.Container
		c, serverErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "postgres:17",
				ExposedPorts: []string{string(pgPort)},
				Env: map[string]string{
					"POSTGRES_USER":     pgUser,
					"POSTGRES_PASSWORD": pgPassword,
					"POSTGRES_DB":       "postgres",
				},
				Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=512m"},
				// durability off, connections up for the concurrency tests
				Cmd: []string{"postgres",
					"-c", "fsync=off",
					"-c", "synchronous_commit=off",
					"-c", "full_page_writes=off",
					"-c", "max_connections=200",
				},
				WaitingFor: wait.ForSQL(pgPort, "pgx", func(host string, port nat.Port) string {
					return pgServer{host: host, port: port}.dsn("postgres")
				}).WithStartupTimeout(time.Minute),
				Labels: map[string]string{"app": "meeting-room-booking", "purpose": "e2e"},
			},
			Started: true,
		})
		if serverErr != nil {
			return
		}

		server.port, serverErr = c.MappedPort(ctx, pgPort)
		if serverErr != nil {
			return
		}
		server.host, serverErr = c.Host(ctx)
	})
	require.NoError(t, serverErr, "PostgreSQL container unavailable")
	return server
}

// createDatabase makes a fresh migrated database and drops it on cleanup.
func createDatabase(t *testing.T, srv pgServer) (*pgxpool.Pool, config.DBConfig) {
	name := "booking_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, err := pgxpool.New(ctx, srv.dsn("postgres"))
	require.NoError(t, err, "admin connection failed")
	defer admin.Close()

	// CREATE DATABASE fails while another suite is copying template1
	for attempt := 1; ; attempt++ {
		_, err = admin.Exec(ctx, "CREATE DATABASE "+name)
		if err == nil || attempt == 5 {
			break
		}
		slog.Warn("retrying database creation", "attempt", attempt, "error", err.Error())
		time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
	}
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		admin, err := pgxpool.New(ctx, srv.dsn("postgres"))
		if err != nil {
			return
		}
		defer admin.Close()
		if _, err := admin.Exec(ctx, "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)"); err != nil {
			slog.Warn("failed to drop test database", "database", name, "error", err.Error())
		}
	})

	dbConfig := srv.dbConfig(name)
	pool, _, err := db.Connect(dbConfig)
	require.NoError(t, err, "database connection failed")
	t.Cleanup(pool.Close)
	require.NoError(t, db.Migrate(ctx, pool), "migration failed")

	return pool, dbConfig
}

// startApp wires the production fx graph around the test pool. The AMQP
// broker and Redis stay disabled, so events go to the no-op publisher and
// rate limiting is in-process.
func startApp(t *testing.T, pool *pgxpool.Pool, dbConfig config.DBConfig) (*gin.Engine, config.Config) {
	cfg := config.NewTestConfig()
	cfg.DB = dbConfig
	// the concurrency test fires many attempts from one client address
	cfg.RateLimit.Capacity = 1000
	cfg.Lock.SweepEnabled = false

	var router *gin.Engine
	app := fx.New(
		fx.Supply(cfg, pool),
		fx.Provide(
			func() *gin.Engine { return gin.New() },
			func() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) },
		),
		bootstrap.BrokerModule,
		bootstrap.RedisModule,
		bootstrap.JWTModule,
		components.PersistenceModule,
		components.UseCaseModule,
		components.HandlerModule,
		components.SchedulerModule,
		fx.Populate(&router),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "failed to start application")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("failed to stop application", "error", err.Error())
		}
	})

	return router, cfg
}

// SharedSuite is embedded by every e2e suite.
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Config config.Config
	JWT    *authtest.JWTHelper
}

func (s *SharedSuite) SetupSuite() {
	t := s.T()
	gin.SetMode(gin.TestMode)

	pool, dbConfig := createDatabase(t, sharedServer(t))
	s.DB = pool
	s.Router, s.Config = startApp(t, pool, dbConfig)
	s.JWT = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "failed to reset database state")
}
