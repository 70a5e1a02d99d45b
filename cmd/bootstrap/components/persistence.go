package components

import (
	"log/slog"

	"meeting-room-booking/internal/infra/memstore"
	"meeting-room-booking/internal/infra/uow"
	"meeting-room-booking/internal/pkg/clock"
	"meeting-room-booking/internal/pkg/config"
	"meeting-room-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewUnitOfWork,
	),
)

// NewUnitOfWork picks the store by DB_DRIVER. The in-memory store starts
// with the demo rooms and employees.
func NewUnitOfWork(pool *pgxpool.Pool, cfg config.Config, clk clock.Clock, logger *slog.Logger) shared.UnitOfWork {
	if cfg.DB.IsMemory() {
		store := memstore.New()
		memstore.SeedDemo(store, clk.Now())
		return memstore.NewUoW(store)
	}
	return uow.NewPostgresUoW(pool, cfg, logger)
}
