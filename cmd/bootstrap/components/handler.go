package components

import (
	"studio-scheduler/internal/handler"
	"studio-scheduler/internal/handler/api"
	"studio-scheduler/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewScheduleHandler,
		api.NewDialogHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
