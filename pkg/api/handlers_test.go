package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Aleph-Alpha/embedding-server/pkg/health"
	"github.com/Aleph-Alpha/embedding-server/pkg/logger"
	"github.com/Aleph-Alpha/embedding-server/pkg/metrics"
	"github.com/Aleph-Alpha/embedding-server/pkg/model"
)

// fakeProvider encodes the batch index into the first vector component so
// response ordering is observable, and records every batch it receives so
// input normalization is checkable.
type fakeProvider struct {
	dimension int
	delay     time.Duration
	err       error
	fixed     [][]float32

	mu       sync.Mutex
	received [][]string
}

func (f *fakeProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	f.received = append(f.received, append([]string(nil), texts...))
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.fixed != nil {
		return f.fixed, nil
	}

	vectors := make([][]float32, len(texts))
	for i := range texts {
		v := make([]float32, f.dimension)
		v[0] = float32(i + 1)
		vectors[i] = v
	}
	return vectors, nil
}

func (f *fakeProvider) Dimension() int          { return f.dimension }
func (f *fakeProvider) ModelVersion() string    { return "all-MiniLM-L6-v2" }
func (f *fakeProvider) LoadTime() time.Duration { return 1500 * time.Millisecond }
func (f *fakeProvider) Loaded() bool            { return true }
func (f *fakeProvider) Close() error            { return nil }

type handlerFixture struct {
	handler *Handler
	echo    *echo.Echo
	metrics *metrics.Metrics
	state   *health.State
	fake    *fakeProvider
}

func newFixture(t *testing.T, cfg Config, fake *fakeProvider) *handlerFixture {
	t.Helper()

	if cfg.AppName == "" {
		cfg.AppName = "embedding-server"
	}
	if cfg.AppVersion == "" {
		cfg.AppVersion = "1.0.0"
	}
	if cfg.BatchSizeMax == 0 {
		cfg.BatchSizeMax = DefaultBatchSizeMax
	}
	if cfg.TextLengthMax == 0 {
		cfg.TextLengthMax = DefaultTextLengthMax
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	mtr := metrics.NewMetrics(metrics.Config{ServiceName: "embedding-server-test"})
	state := health.NewState()
	client := model.NewClient(model.Config{MaxConcurrent: 2}, fake, mtr)
	log := &logger.Logger{Zap: zap.NewNop()}

	return &handlerFixture{
		handler: NewHandler(cfg, client, state, mtr, log),
		echo:    echo.New(),
		metrics: mtr,
		state:   state,
		fake:    fake,
	}
}

func (fx *handlerFixture) request(t *testing.T, method, path, body string, handle echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := fx.echo.NewContext(req, rec)

	require.NoError(t, handle(c))
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestPredict_ReturnsEmbedding(t *testing.T) {
	fx := newFixture(t, Config{}, &fakeProvider{dimension: 8})
	fx.state.SetReady()

	rec := fx.request(t, http.MethodPost, RoutePredict, `{"text":"machine learning is fascinating"}`, fx.handler.Predict)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EmbeddingResponse
	decodeJSON(t, rec, &resp)

	assert.Len(t, resp.Embedding, 8)
	assert.Equal(t, 8, resp.Dimension)
	assert.Equal(t, "all-MiniLM-L6-v2", resp.ModelVersion)
	assert.GreaterOrEqual(t, resp.InferenceTimeMS, 0.0)
}

func TestPredict_TrimsWhitespace(t *testing.T) {
	fake := &fakeProvider{dimension: 4}
	fx := newFixture(t, Config{}, fake)
	fx.state.SetReady()

	rec := fx.request(t, http.MethodPost, RoutePredict, `{"text":"  padded input  "}`, fx.handler.Predict)
	require.Equal(t, http.StatusOK, rec.Code)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.received, 1)
	assert.Equal(t, []string{"padded input"}, fake.received[0])
}

func TestPredict_RejectsEmptyAndWhitespaceText(t *testing.T) {
	fx := newFixture(t, Config{}, &fakeProvider{dimension: 4})
	fx.state.SetReady()

	for _, body := range []string{`{"text":""}`, `{"text":"   "}`, `{}`} {
		rec := fx.request(t, http.MethodPost, RoutePredict, body, fx.handler.Predict)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)

		var resp ErrorResponse
		decodeJSON(t, rec, &resp)
		assert.Equal(t, KindValidation, resp.Error)
	}
}

func TestPredict_RejectsOverlongText(t *testing.T) {
	fx := newFixture(t, Config{TextLengthMax: 16}, &fakeProvider{dimension: 4})
	fx.state.SetReady()

	long := strings.Repeat("a", 17)
	rec := fx.request(t, http.MethodPost, RoutePredict, fmt.Sprintf(`{"text":%q}`, long), fx.handler.Predict)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, KindValidation, resp.Error)
	assert.Contains(t, resp.Detail, "maximum length")
}

func TestPredict_BeforeModelReady(t *testing.T) {
	fx := newFixture(t, Config{}, &fakeProvider{dimension: 4})

	rec := fx.request(t, http.MethodPost, RoutePredict, `{"text":"hello"}`, fx.handler.Predict)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ErrorResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, KindNotReady, resp.Error)
}

func TestPredict_AfterFailedLoad(t *testing.T) {
	fx := newFixture(t, Config{}, &fakeProvider{dimension: 4})
	fx.state.SetFailed("model load failed")

	rec := fx.request(t, http.MethodPost, RoutePredict, `{"text":"hello"}`, fx.handler.Predict)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ErrorResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, KindModelLoad, resp.Error)
}

func TestPredict_InferenceTimeout(t *testing.T) {
	fx := newFixture(t, Config{RequestTimeout: 25 * time.Millisecond}, &fakeProvider{
		dimension: 4,
		delay:     300 * time.Millisecond,
	})
	fx.state.SetReady()

	rec := fx.request(t, http.MethodPost, RoutePredict, `{"text":"slow"}`, fx.handler.Predict)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)

	var resp ErrorResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, KindTimeout, resp.Error)
}

func TestPredict_InferenceError(t *testing.T) {
	fx := newFixture(t, Config{}, &fakeProvider{
		dimension: 4,
		err:       fmt.Errorf("%w: runtime exploded", model.ErrInference),
	})
	fx.state.SetReady()

	rec := fx.request(t, http.MethodPost, RoutePredict, `{"text":"hello"}`, fx.handler.Predict)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, KindInference, resp.Error)
	assert.NotContains(t, resp.Detail, "exploded", "runtime internals must not leak")
}

func TestPredictBatch_PreservesOrder(t *testing.T) {
	fx := newFixture(t, Config{}, &fakeProvider{dimension: 6})
	fx.state.SetReady()

	rec := fx.request(t, http.MethodPost, RoutePredictBatch,
		`{"texts":["first","second","third"]}`, fx.handler.PredictBatch)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp BatchEmbeddingResponse
	decodeJSON(t, rec, &resp)

	require.Len(t, resp.Embeddings, 3)
	assert.Equal(t, 3, resp.BatchSize)
	assert.Equal(t, 6, resp.Dimension)
	for i, vec := range resp.Embeddings {
		assert.Equal(t, float32(i+1), vec[0], "embedding %d out of order", i)
	}
	assert.GreaterOrEqual(t, resp.InferenceTimeMS, resp.AvgTimePerItemMS)
}

func TestPredictBatch_RejectsEmptyBatch(t *testing.T) {
	fx := newFixture(t, Config{}, &fakeProvider{dimension: 4})
	fx.state.SetReady()

	rec := fx.request(t, http.MethodPost, RoutePredictBatch, `{"texts":[]}`, fx.handler.PredictBatch)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, KindValidation, resp.Error)
}

func TestPredictBatch_RejectsOversizedBatch(t *testing.T) {
	fx := newFixture(t, Config{BatchSizeMax: 2}, &fakeProvider{dimension: 4})
	fx.state.SetReady()

	rec := fx.request(t, http.MethodPost, RoutePredictBatch,
		`{"texts":["a","b","c"]}`, fx.handler.PredictBatch)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, KindValidation, resp.Error)
	assert.Contains(t, resp.Detail, "exceeds maximum")
}

func TestPredictBatch_RejectsEmptyElement(t *testing.T) {
	fx := newFixture(t, Config{}, &fakeProvider{dimension: 4})
	fx.state.SetReady()

	rec := fx.request(t, http.MethodPost, RoutePredictBatch,
		`{"texts":["valid","   "]}`, fx.handler.PredictBatch)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, KindValidation, resp.Error)
	assert.Contains(t, resp.Detail, "texts[1]")
}

func TestSimilarity_IdenticalTexts(t *testing.T) {
	vec := []float32{0.25, -0.5, 0.75}
	fx := newFixture(t, Config{}, &fakeProvider{dimension: 3, fixed: [][]float32{vec, vec}})
	fx.state.SetReady()

	rec := fx.request(t, http.MethodPost, RouteSimilarity,
		`{"text1":"same sentence","text2":"same sentence"}`, fx.handler.Similarity)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SimilarityResponse
	decodeJSON(t, rec, &resp)
	assert.InDelta(t, 1.0, resp.Similarity, 1e-4)
}

func TestSimilarity_RejectsMissingText(t *testing.T) {
	fx := newFixture(t, Config{}, &fakeProvider{dimension: 3})
	fx.state.SetReady()

	rec := fx.request(t, http.MethodPost, RouteSimilarity,
		`{"text1":"present","text2":""}`, fx.handler.Similarity)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, KindValidation, resp.Error)
	assert.Contains(t, resp.Detail, "text2")
}

func TestModelInfo_WhenLoaded(t *testing.T) {
	fx := newFixture(t, Config{}, &fakeProvider{dimension: 384})
	fx.state.SetReady()

	rec := fx.request(t, http.MethodGet, RouteModelInfo, "", fx.handler.ModelInfo)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ModelInfoResponse
	decodeJSON(t, rec, &resp)
	assert.True(t, resp.Loaded)
	assert.Equal(t, "all-MiniLM-L6-v2", resp.ModelName)
	assert.Equal(t, 384, resp.EmbeddingDimension)
	assert.InDelta(t, 1.5, resp.LoadTimeSeconds, 1e-9)
	assert.Equal(t, DefaultTextLengthMax, resp.MaxSequenceLength)
}

func TestLive_AlwaysAlive(t *testing.T) {
	fx := newFixture(t, Config{}, &fakeProvider{dimension: 4})
	fx.state.SetFailed("load blew up")

	rec := fx.request(t, http.MethodGet, RouteHealthLive, "", fx.handler.Live)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "alive", resp.Status)
}

func TestReady_TransitionsWithModelState(t *testing.T) {
	fx := newFixture(t, Config{}, &fakeProvider{dimension: 4})

	rec := fx.request(t, http.MethodGet, RouteHealthReady, "", fx.handler.Ready)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var notReady HealthResponse
	decodeJSON(t, rec, &notReady)
	assert.Equal(t, "not_ready", notReady.Status)
	assert.NotEmpty(t, notReady.Detail)

	fx.state.SetReady()

	rec = fx.request(t, http.MethodGet, RouteHealthReady, "", fx.handler.Ready)
	require.Equal(t, http.StatusOK, rec.Code)

	var ready HealthResponse
	decodeJSON(t, rec, &ready)
	assert.Equal(t, "ready", ready.Status)
	assert.True(t, ready.ModelLoaded)
}

func TestRoot_ServesBanner(t *testing.T) {
	fx := newFixture(t, Config{AppName: "embedding-server", AppVersion: "2.3.1"}, &fakeProvider{dimension: 4})
	fx.state.SetReady()

	rec := fx.request(t, http.MethodGet, RouteRoot, "", fx.handler.Root)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RootResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "embedding-server", resp.Service)
	assert.Equal(t, "2.3.1", resp.Version)
	assert.Equal(t, "ready", resp.Status)
	assert.True(t, resp.ModelLoaded)
}

func TestHandlers_RecordRequestMetrics(t *testing.T) {
	fx := newFixture(t, Config{}, &fakeProvider{dimension: 4})
	fx.state.SetReady()

	fx.request(t, http.MethodPost, RoutePredict, `{"text":"hello"}`, fx.handler.Predict)
	fx.request(t, http.MethodPost, RoutePredict, `{"text":""}`, fx.handler.Predict)

	families, err := fx.metrics.Registry.Gather()
	require.NoError(t, err)

	requests := map[string]float64{}
	errors := map[string]float64{}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			switch family.GetName() {
			case "requests_total":
				requests[labels["status"]] += metric.GetCounter().GetValue()
			case "errors_total":
				errors[labels["kind"]] += metric.GetCounter().GetValue()
			}
		}
	}

	assert.Equal(t, 1.0, requests["200"])
	assert.Equal(t, 1.0, requests["400"])
	assert.Equal(t, 1.0, errors[KindValidation])
}
