package server

import (
	"github.com/labstack/echo/v4"

	"github.com/Aleph-Alpha/embedding-server/pkg/api"
)

// RegisterRoutes binds the API handler to the route table. Probe routes stay
// on the application port so the orchestrator observes the same listener that
// serves traffic.
func RegisterRoutes(e *echo.Echo, h *api.Handler) {
	e.GET(api.RouteRoot, h.Root)

	e.POST(api.RoutePredict, h.Predict)
	e.POST(api.RoutePredictBatch, h.PredictBatch)
	e.POST(api.RouteSimilarity, h.Similarity)

	e.GET(api.RouteModelInfo, h.ModelInfo)

	e.GET(api.RouteHealthLive, h.Live)
	e.GET(api.RouteHealthReady, h.Ready)
}
