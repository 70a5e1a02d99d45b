package components

import (
	"meeting-room-booking/internal/handler"
	"meeting-room-booking/internal/handler/api"
	"meeting-room-booking/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewAccessHandler,
		api.NewLockHandler,
		handler.NewHandlers,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
