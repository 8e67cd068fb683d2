package api

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// DefaultBatchSizeMax bounds the number of texts per batch request.
	DefaultBatchSizeMax = 64

	// DefaultTextLengthMax bounds the character length of one input text.
	DefaultTextLengthMax = 512

	// DefaultRequestTimeout bounds one request's inference time.
	DefaultRequestTimeout = 30 * time.Second
)

type Config struct {
	// AppName and AppVersion show up in the root endpoint banner.
	AppName    string // APP_NAME
	AppVersion string // APP_VERSION

	// BatchSizeMax is the batch cap: batches above it are rejected with a
	// validation error, never truncated.
	BatchSizeMax int // BATCH_SIZE_MAX

	// TextLengthMax is the per-text character limit. Longer texts are
	// rejected rather than truncated.
	TextLengthMax int // TEXT_LENGTH_MAX

	// RequestTimeout is the per-request inference deadline.
	RequestTimeout time.Duration // REQUEST_TIMEOUT_SECONDS
}

// NewConfig reads the request-handling configuration from environment
// variables. Unparsable values fail startup instead of silently degrading.
func NewConfig() (Config, error) {
	cfg := Config{
		AppName:        "embedding-server",
		AppVersion:     "1.0.0",
		BatchSizeMax:   DefaultBatchSizeMax,
		TextLengthMax:  DefaultTextLengthMax,
		RequestTimeout: DefaultRequestTimeout,
	}

	if v := os.Getenv("APP_NAME"); v != "" {
		cfg.AppName = v
	}
	if v := os.Getenv("APP_VERSION"); v != "" {
		cfg.AppVersion = v
	}

	if v := os.Getenv("BATCH_SIZE_MAX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("api: invalid BATCH_SIZE_MAX %q", v)
		}
		cfg.BatchSizeMax = n
	}

	if v := os.Getenv("TEXT_LENGTH_MAX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("api: invalid TEXT_LENGTH_MAX %q", v)
		}
		cfg.TextLengthMax = n
	}

	if v := os.Getenv("REQUEST_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("api: invalid REQUEST_TIMEOUT_SECONDS %q", v)
		}
		cfg.RequestTimeout = time.Duration(n) * time.Second
	}

	return cfg, nil
}
