package api

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Aleph-Alpha/embedding-server/pkg/health"
	"github.com/Aleph-Alpha/embedding-server/pkg/logger"
	"github.com/Aleph-Alpha/embedding-server/pkg/metrics"
	"github.com/Aleph-Alpha/embedding-server/pkg/model"
)

// Route path constants double as the `route` label on serving metrics.
const (
	RouteRoot         = "/"
	RoutePredict      = "/predict"
	RoutePredictBatch = "/predict/batch"
	RouteSimilarity   = "/similarity"
	RouteModelInfo    = "/model/info"
	RouteHealthLive   = "/health/live"
	RouteHealthReady  = "/health/ready"
)

// Handler serves the embedding API. One instance handles all routes; it is
// safe for concurrent use because the model client serializes access to the
// inference runtime through its worker pool.
type Handler struct {
	cfg    Config
	client *model.Client
	state  *health.State
	mtr    *metrics.Metrics
	log    *logger.Logger
}

// NewHandler constructs the API handler.
func NewHandler(cfg Config, client *model.Client, state *health.State, mtr *metrics.Metrics, log *logger.Logger) *Handler {
	return &Handler{
		cfg:    cfg,
		client: client,
		state:  state,
		mtr:    mtr,
		log:    log,
	}
}

// Root serves the service banner. It is always available, independent of
// model state.
func (h *Handler) Root(c echo.Context) error {
	start := time.Now()

	status := "starting"
	switch h.state.Phase() {
	case health.PhaseReady:
		status = "ready"
	case health.PhaseFailed:
		status = "failed"
	}

	return h.respond(c, RouteRoot, start, http.StatusOK, RootResponse{
		Service:     h.cfg.AppName,
		Version:     h.cfg.AppVersion,
		Status:      status,
		ModelLoaded: h.client.Loaded(),
	})
}

// Live is the liveness probe. It reports only process health and answers 200
// even while the model is loading or has failed to load, so the orchestrator
// restarts the pod only when the process itself is wedged.
func (h *Handler) Live(c echo.Context) error {
	start := time.Now()
	return h.respond(c, RouteHealthLive, start, http.StatusOK, HealthResponse{
		Status:      "alive",
		ModelLoaded: h.client.Loaded(),
	})
}

// Ready is the readiness probe. It answers 200 only after the model loaded
// successfully; before that, and permanently after a failed load, it answers
// 503 so the orchestrator keeps traffic away.
func (h *Handler) Ready(c echo.Context) error {
	start := time.Now()

	if !h.state.Ready() {
		detail := h.state.Detail()
		if detail == "" {
			detail = "model is still loading"
		}
		return h.respond(c, RouteHealthReady, start, http.StatusServiceUnavailable, HealthResponse{
			Status:      "not_ready",
			ModelLoaded: false,
			Detail:      detail,
		})
	}

	return h.respond(c, RouteHealthReady, start, http.StatusOK, HealthResponse{
		Status:      "ready",
		ModelLoaded: true,
	})
}

// Predict embeds a single text.
func (h *Handler) Predict(c echo.Context) error {
	start := time.Now()

	if apiErr := h.requireReady(); apiErr != nil {
		return h.respondError(c, RoutePredict, start, apiErr)
	}

	var input TextInput
	if err := c.Bind(&input); err != nil {
		return h.respondError(c, RoutePredict, start, validationError("invalid request body"))
	}

	text, apiErr := validateText("text", input.Text, h.cfg.TextLengthMax)
	if apiErr != nil {
		return h.respondError(c, RoutePredict, start, apiErr)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.cfg.RequestTimeout)
	defer cancel()

	inferStart := time.Now()
	vectors, err := h.client.Embed(ctx, []string{text})
	if err != nil {
		h.log.Error("single prediction failed", err, map[string]interface{}{"route": RoutePredict})
		return h.respondError(c, RoutePredict, start, translateModelErr(err))
	}

	return h.respond(c, RoutePredict, start, http.StatusOK, EmbeddingResponse{
		Embedding:       vectors[0],
		Dimension:       len(vectors[0]),
		ModelVersion:    h.client.ModelVersion(),
		InferenceTimeMS: millis(time.Since(inferStart)),
	})
}

// PredictBatch embeds up to BatchSizeMax texts in one inference call,
// preserving input order in the response.
func (h *Handler) PredictBatch(c echo.Context) error {
	start := time.Now()

	if apiErr := h.requireReady(); apiErr != nil {
		return h.respondError(c, RoutePredictBatch, start, apiErr)
	}

	var input BatchTextInput
	if err := c.Bind(&input); err != nil {
		return h.respondError(c, RoutePredictBatch, start, validationError("invalid request body"))
	}

	texts, apiErr := validateBatch(input.Texts, h.cfg.BatchSizeMax, h.cfg.TextLengthMax)
	if apiErr != nil {
		return h.respondError(c, RoutePredictBatch, start, apiErr)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.cfg.RequestTimeout)
	defer cancel()

	inferStart := time.Now()
	vectors, err := h.client.Embed(ctx, texts)
	if err != nil {
		h.log.Error("batch prediction failed", err, map[string]interface{}{
			"route":      RoutePredictBatch,
			"batch_size": len(texts),
		})
		return h.respondError(c, RoutePredictBatch, start, translateModelErr(err))
	}

	elapsed := millis(time.Since(inferStart))

	return h.respond(c, RoutePredictBatch, start, http.StatusOK, BatchEmbeddingResponse{
		Embeddings:       vectors,
		BatchSize:        len(vectors),
		Dimension:        len(vectors[0]),
		ModelVersion:     h.client.ModelVersion(),
		InferenceTimeMS:  elapsed,
		AvgTimePerItemMS: round2(elapsed / float64(len(vectors))),
	})
}

// Similarity embeds both texts in a single batched call and returns their
// cosine similarity.
func (h *Handler) Similarity(c echo.Context) error {
	start := time.Now()

	if apiErr := h.requireReady(); apiErr != nil {
		return h.respondError(c, RouteSimilarity, start, apiErr)
	}

	var input SimilarityInput
	if err := c.Bind(&input); err != nil {
		return h.respondError(c, RouteSimilarity, start, validationError("invalid request body"))
	}

	text1, apiErr := validateText("text1", input.Text1, h.cfg.TextLengthMax)
	if apiErr != nil {
		return h.respondError(c, RouteSimilarity, start, apiErr)
	}
	text2, apiErr := validateText("text2", input.Text2, h.cfg.TextLengthMax)
	if apiErr != nil {
		return h.respondError(c, RouteSimilarity, start, apiErr)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.cfg.RequestTimeout)
	defer cancel()

	inferStart := time.Now()
	score, err := h.client.Similarity(ctx, text1, text2)
	if err != nil {
		h.log.Error("similarity computation failed", err, map[string]interface{}{"route": RouteSimilarity})
		return h.respondError(c, RouteSimilarity, start, translateModelErr(err))
	}

	return h.respond(c, RouteSimilarity, start, http.StatusOK, SimilarityResponse{
		Similarity:      round4(score),
		ModelVersion:    h.client.ModelVersion(),
		InferenceTimeMS: millis(time.Since(inferStart)),
	})
}

// ModelInfo describes the loaded model. Before the load finishes it reports
// loaded=false instead of failing, so operators can poll it during startup.
func (h *Handler) ModelInfo(c echo.Context) error {
	start := time.Now()

	if !h.client.Loaded() {
		return h.respond(c, RouteModelInfo, start, http.StatusOK, ModelInfoResponse{
			Loaded:    false,
			ModelName: h.client.ModelVersion(),
		})
	}

	return h.respond(c, RouteModelInfo, start, http.StatusOK, ModelInfoResponse{
		Loaded:             true,
		ModelName:          h.client.ModelVersion(),
		EmbeddingDimension: h.client.Dimension(),
		LoadTimeSeconds:    round2(h.client.LoadTime().Seconds()),
		MaxSequenceLength:  h.cfg.TextLengthMax,
	})
}

// requireReady gates inference routes on the readiness state. The failed
// phase maps to model_load_error so a crashed load is distinguishable from a
// load still in progress.
func (h *Handler) requireReady() *Error {
	switch h.state.Phase() {
	case health.PhaseReady:
		return nil
	case health.PhaseFailed:
		return &Error{Kind: KindModelLoad, Detail: "model failed to load"}
	default:
		return notReadyError("")
	}
}

func (h *Handler) respond(c echo.Context, route string, start time.Time, code int, body interface{}) error {
	h.mtr.RecordRequest(route, strconv.Itoa(code), time.Since(start))
	return c.JSON(code, body)
}

func (h *Handler) respondError(c echo.Context, route string, start time.Time, apiErr *Error) error {
	h.mtr.RecordError(route, apiErr.Kind)
	h.mtr.RecordRequest(route, strconv.Itoa(apiErr.Status()), time.Since(start))
	return c.JSON(apiErr.Status(), ErrorResponse{Error: apiErr.Kind, Detail: apiErr.Detail})
}

func millis(d time.Duration) float64 {
	return round2(float64(d.Microseconds()) / 1000.0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
