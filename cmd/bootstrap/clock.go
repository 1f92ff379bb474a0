package bootstrap

import (
	"studio-scheduler/internal/pkg/clock"

	"go.uber.org/fx"
)

// Every component that needs wall-clock time takes clock.Clock from here;
// nothing else in the tree calls time.Now for scheduling decisions.
var ClockModule = fx.Module("clock",
	fx.Provide(
		clock.NewRealClock,
	),
)
