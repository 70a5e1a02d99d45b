package components

import (
	"meeting-room-booking/internal/domain/room"
	"meeting-room-booking/internal/pkg/clock"
	"meeting-room-booking/internal/pkg/config"
	"meeting-room-booking/internal/pkg/secret"
	"meeting-room-booking/internal/usecase"
	"meeting-room-booking/internal/usecase/commands"
	"meeting-room-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	secret.NewRandomGenerator,
	func(cfg config.Config) (room.ApprovalPolicy, error) {
		return room.NewApprovalPolicy(cfg.Approval.Policy, cfg.Approval.MinCapacity)
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingCommands,
		commands.NewAccessCommands,
		commands.NewLockCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		queries.NewLockQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
		usecase.NewAccountGuard,
	),
)
