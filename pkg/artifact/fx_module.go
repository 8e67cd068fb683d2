package artifact

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/embedding-server/pkg/logger"
)

// FXModule defines the Fx module for the artifact store.
//
// The provided *Store is nil when no artifact store is configured; consumers
// treat a nil store as "local model cache only".
var FXModule = fx.Module("artifact",
	fx.Provide(
		NewConfig,
		func(l *logger.Logger) Logger { return l },
		NewStore,
	),
)
