package metrics

import (
	"context"
	"net/http"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/embedding-server/pkg/logger"
)

// FXModule defines the Fx module for the metrics package.
// It provides the Metrics factory and manages startup and graceful shutdown
// of the Prometheus HTTP server on its dedicated port.
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewConfig,
		NewMetrics,
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// RegisterMetricsLifecycle manages the startup and shutdown lifecycle
// of the Prometheus metrics HTTP server.
//
//   - OnStart: launches the metrics server in a background goroutine.
//   - OnStop: gracefully shuts the server down.
//
// This ensures metrics are scrapable for the application's whole lifetime
// and that the server drains cleanly when the application stops.
func RegisterMetricsLifecycle(lc fx.Lifecycle, m *Metrics, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("starting Prometheus metrics server", nil, map[string]interface{}{
					"address": m.Server.Addr,
				})

				if err := m.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("error starting Prometheus metrics server", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down Prometheus metrics server", nil, nil)
			return m.Server.Shutdown(ctx)
		},
	})
}
