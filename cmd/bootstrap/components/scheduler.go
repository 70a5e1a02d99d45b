package components

import (
	"context"

	"meeting-room-booking/internal/pkg/config"
	"meeting-room-booking/internal/scheduler"

	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		scheduler.NewLockSweeper,
	),
	fx.Invoke(startLockSweeper),
)

func startLockSweeper(lc fx.Lifecycle, sweeper *scheduler.LockSweeper, cfg config.Config) {
	if !cfg.Lock.SweepEnabled {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			sweeper.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
}
