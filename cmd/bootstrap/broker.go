package bootstrap

import (
	"context"
	"log/slog"

	"meeting-room-booking/internal/infra/broker"
	"meeting-room-booking/internal/pkg/config"
	"meeting-room-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var BrokerModule = fx.Module("broker",
	fx.Provide(
		NewEventPublisher,
	),
)

func NewEventPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.EventPublisher, error) {
	if !cfg.Broker.Enabled {
		return broker.NewLogPublisher(logger), nil
	}

	publisher, err := broker.NewAMQPPublisher(cfg.Broker, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("event publisher connected", "queue", cfg.Broker.Queue)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}
