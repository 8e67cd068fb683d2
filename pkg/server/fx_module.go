package server

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/embedding-server/pkg/logger"
)

// FXModule wires the HTTP server into the fx application.
var FXModule = fx.Module("server",
	fx.Provide(
		NewConfig,
		NewServer,
	),
	fx.Invoke(RegisterServerLifecycle),
)

// RegisterServerLifecycle starts the listener on application start and drains
// it on stop. The listener runs in its own goroutine so OnStart returns
// immediately; liveness is served from the first moment the process is up
// even while the model is still loading.
func RegisterServerLifecycle(lc fx.Lifecycle, srv *Server, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting http server", nil, map[string]interface{}{
				"address": srv.cfg.Addr(),
			})

			go func() {
				if err := srv.Echo.Start(srv.cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server crashed", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down http server...", nil, nil)

			shutdownCtx, cancel := context.WithTimeout(ctx, srv.cfg.ShutdownTimeout)
			defer cancel()

			return srv.Echo.Shutdown(shutdownCtx)
		},
	})
}
