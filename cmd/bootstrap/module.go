package bootstrap

import (
	"studio-scheduler/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	ClockModule,
	JWTModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.SchedulerModule,
	components.HandlerModule,
)
