package api

import "go.uber.org/fx"

// FXModule makes the API handler available to the fx dependency injection
// framework.
var FXModule = fx.Module(
	"api",
	fx.Provide(
		NewConfig,
		NewHandler,
	),
)
