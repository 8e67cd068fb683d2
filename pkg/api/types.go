package api

// TextInput is the body of a single-text prediction request.
type TextInput struct {
	Text string `json:"text"`
}

// BatchTextInput is the body of a batch prediction request.
type BatchTextInput struct {
	Texts []string `json:"texts"`
}

// SimilarityInput carries two texts to compare.
type SimilarityInput struct {
	Text1 string `json:"text1"`
	Text2 string `json:"text2"`
}

// EmbeddingResponse is the single-prediction response.
type EmbeddingResponse struct {
	Embedding       []float32 `json:"embedding"`
	Dimension       int       `json:"dimension"`
	ModelVersion    string    `json:"model_version"`
	InferenceTimeMS float64   `json:"inference_time_ms"`
}

// BatchEmbeddingResponse is the batch-prediction response. Embeddings are in
// request order.
type BatchEmbeddingResponse struct {
	Embeddings       [][]float32 `json:"embeddings"`
	BatchSize        int         `json:"batch_size"`
	Dimension        int         `json:"dimension"`
	ModelVersion     string      `json:"model_version"`
	InferenceTimeMS  float64     `json:"inference_time_ms"`
	AvgTimePerItemMS float64     `json:"avg_time_per_item_ms"`
}

// SimilarityResponse carries a cosine similarity score in [-1, 1].
type SimilarityResponse struct {
	Similarity      float64 `json:"similarity"`
	ModelVersion    string  `json:"model_version"`
	InferenceTimeMS float64 `json:"inference_time_ms"`
}

// HealthResponse is returned by the liveness and readiness probes.
type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Detail      string `json:"detail,omitempty"`
}

// ModelInfoResponse describes the loaded model.
type ModelInfoResponse struct {
	Loaded             bool    `json:"loaded"`
	ModelName          string  `json:"model_name"`
	EmbeddingDimension int     `json:"embedding_dimension,omitempty"`
	LoadTimeSeconds    float64 `json:"load_time_seconds,omitempty"`
	MaxSequenceLength  int     `json:"max_sequence_length,omitempty"`
}

// RootResponse is the service banner served at /.
type RootResponse struct {
	Service     string `json:"service"`
	Version     string `json:"version"`
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// ErrorResponse is the structured body of every failure. Error holds the
// stable error-kind string, Detail the human-readable explanation. Internal
// paths and stack traces are never exposed.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}
