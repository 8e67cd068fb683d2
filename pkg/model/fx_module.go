package model

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/embedding-server/pkg/health"
	"github.com/Aleph-Alpha/embedding-server/pkg/logger"
	"github.com/Aleph-Alpha/embedding-server/pkg/metrics"
)

// FXModule wires the model holder into Fx.
//
// It provides:
//   - Config        (NewConfig, fails fast on bad env values)
//   - Provider      (the local hugot-backed provider)
//   - Observer      (backed by the metrics collector)
//   - *Client       (NewClient)
//   - Lifecycle     (RegisterModelLifecycle)
var FXModule = fx.Module("model",
	fx.Provide(
		NewConfig,
		NewLocalProvider,
		func(p *LocalProvider) Provider { return p },
		func(m *metrics.Metrics) Observer { return m },
		NewClient,
	),
	fx.Invoke(RegisterModelLifecycle),
)

// RegisterModelLifecycle starts the eager model load and ties its outcome to
// the health state machine.
//
// The load runs in a background goroutine so the HTTP servers come up first:
// liveness must succeed while the model is still loading. On success the
// state flips starting→ready; on failure it flips starting→failed and the
// instance stays alive but permanently not-ready, leaving the restart
// decision to the orchestrator. A load failure is never retried in-process,
// since retrying a corrupted artifact would only mask the misconfiguration.
func RegisterModelLifecycle(lc fx.Lifecycle, provider *LocalProvider, state *health.State, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := provider.Load(context.Background()); err != nil {
					state.SetFailed(err.Error())
					log.Error("model load failed, instance stays not-ready", err, map[string]interface{}{
						"model": provider.ModelVersion(),
					})
					return
				}
				state.SetReady()
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return provider.Close()
		},
	})
}
