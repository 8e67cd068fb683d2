package main

import (
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/embedding-server/pkg/api"
	"github.com/Aleph-Alpha/embedding-server/pkg/artifact"
	"github.com/Aleph-Alpha/embedding-server/pkg/health"
	"github.com/Aleph-Alpha/embedding-server/pkg/logger"
	"github.com/Aleph-Alpha/embedding-server/pkg/metrics"
	"github.com/Aleph-Alpha/embedding-server/pkg/model"
	"github.com/Aleph-Alpha/embedding-server/pkg/server"
	"github.com/Aleph-Alpha/embedding-server/pkg/tracer"
)

func main() {
	// A missing .env is fine; deployments configure through real
	// environment variables.
	_ = godotenv.Load()

	fx.New(
		logger.FXModule,
		tracer.FXModule,
		metrics.FXModule,
		health.FXModule,
		artifact.FXModule,
		model.FXModule,
		api.FXModule,
		server.FXModule,
	).Run()
}
