package artifact

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Logger defines the interface for logging operations within the artifact store.
// This interface allows for dependency injection of any compatible logger implementation.
//
//go:generate mockgen -source=setup.go -destination=mock_logger.go -package=artifact
type Logger interface {
	// Info logs informational messages with optional error and additional fields
	Info(msg string, err error, fields ...map[string]interface{})

	// Debug logs debug-level messages with optional error and additional fields
	Debug(msg string, err error, fields ...map[string]interface{})

	// Warn logs warning messages with optional error and additional fields
	Warn(msg string, err error, fields ...map[string]interface{})

	// Error logs error messages with the associated error and optional additional fields
	Error(msg string, err error, fields ...map[string]interface{})

	// Fatal logs critical error messages that typically require immediate attention
	Fatal(msg string, err error, fields ...map[string]interface{})
}

const bucketCheckTimeout = 10 * time.Second

// Store is an S3-compatible client scoped to the model artifact bucket.
type Store struct {
	// Client is the underlying MinIO client.
	Client *minio.Client

	cfg    Config
	logger Logger
}

// NewStore creates and validates a new artifact store client.
//
// When the store is not configured (no ARTIFACT_ENDPOINT), it returns
// (nil, nil); callers treat a nil store as "local cache only". When it is
// configured, the connection is established and the bucket's existence is
// verified so that misconfiguration fails at startup rather than at the
// first cache miss.
func NewStore(cfg Config, logger Logger) (*Store, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		logger.Error("failed to connect to artifact store", err, map[string]interface{}{
			"endpoint": cfg.Endpoint,
			"secure":   cfg.UseSSL,
			"bucket":   cfg.BucketName,
		})
		return nil, fmt.Errorf("artifact: connect: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), bucketCheckTimeout)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("artifact: bucket check: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("artifact: bucket %q does not exist", cfg.BucketName)
	}

	logger.Info("artifact store connected", nil, map[string]interface{}{
		"endpoint": cfg.Endpoint,
		"bucket":   cfg.BucketName,
		"prefix":   cfg.Prefix,
	})

	return &Store{
		Client: client,
		cfg:    cfg,
		logger: logger,
	}, nil
}
