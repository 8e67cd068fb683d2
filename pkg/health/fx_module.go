package health

import "go.uber.org/fx"

// FXModule provides the process-wide health state.
var FXModule = fx.Module("health",
	fx.Provide(NewState),
)
