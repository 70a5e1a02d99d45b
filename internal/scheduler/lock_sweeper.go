// Package scheduler runs the periodic no-show sweep inside the API process.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"meeting-room-booking/internal/pkg/config"
	"meeting-room-booking/internal/usecase/commands"
)

type LockSweeper struct {
	cmds     commands.LockCommands
	params   commands.AutoLockParams
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewLockSweeper(cmds commands.LockCommands, cfg config.Config, logger *slog.Logger) *LockSweeper {
	return &LockSweeper{
		cmds: cmds,
		params: commands.AutoLockParams{
			PeriodDays: cfg.Lock.PeriodDays,
			Threshold:  cfg.Lock.Threshold,
		},
		interval: cfg.Lock.SweepInterval,
		logger:   logger,
	}
}

func (s *LockSweeper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()
	s.logger.Info("lock sweeper started", slog.Duration("interval", s.interval))
}

func (s *LockSweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.logger.Info("lock sweeper stopped")
}

// RunOnce never returns an error: a failed sweep is rolled back and retried
// on the next tick.
func (s *LockSweeper) RunOnce(ctx context.Context) {
	locked, err := s.cmds.AutoCheckAndLock(ctx, s.params)
	if err != nil {
		s.logger.Error("auto-lock sweep failed", slog.String("error", err.Error()))
		return
	}
	if len(locked) > 0 {
		s.logger.Info("auto-lock sweep completed", slog.Int("locked", len(locked)))
	}
}
