package artifact

import (
	"fmt"
	"os"
)

// Config defines the connection settings for the model artifact store.
//
// The artifact store is the network-fetch fallback for the model cache: when
// the configured model is absent from MODEL_CACHE_DIR at startup, its files
// are downloaded from an S3-compatible bucket before the model is loaded.
// Steady-state startups with a pre-fetched cache never touch the store.
type Config struct {
	// Endpoint is the S3-compatible server endpoint, e.g. "minio:9000".
	// Leaving it empty disables the artifact store entirely.
	Endpoint string `yaml:"endpoint" envconfig:"ARTIFACT_ENDPOINT"`

	// AccessKeyID and SecretAccessKey authenticate against the store.
	AccessKeyID     string `yaml:"access_key_id" envconfig:"ARTIFACT_ACCESS_KEY"`
	SecretAccessKey string `yaml:"secret_access_key" envconfig:"ARTIFACT_SECRET_KEY"`

	// BucketName is the bucket holding model artifacts.
	BucketName string `yaml:"bucket_name" envconfig:"ARTIFACT_BUCKET"`

	// Prefix is an optional object-key prefix under which models live,
	// e.g. "models". Object keys are expected to follow
	// "<prefix>/<model-name>/<file>".
	Prefix string `yaml:"prefix" envconfig:"ARTIFACT_PREFIX"`

	// UseSSL selects https for the store connection.
	UseSSL bool `yaml:"use_ssl" envconfig:"ARTIFACT_USE_SSL"`

	// Region for the bucket (e.g. "us-east-1").
	Region string `yaml:"region" envconfig:"ARTIFACT_REGION"`
}

// NewConfig reads the artifact store configuration from environment variables.
func NewConfig() Config {
	return Config{
		Endpoint:        os.Getenv("ARTIFACT_ENDPOINT"),
		AccessKeyID:     os.Getenv("ARTIFACT_ACCESS_KEY"),
		SecretAccessKey: os.Getenv("ARTIFACT_SECRET_KEY"),
		BucketName:      os.Getenv("ARTIFACT_BUCKET"),
		Prefix:          os.Getenv("ARTIFACT_PREFIX"),
		UseSSL:          os.Getenv("ARTIFACT_USE_SSL") == "true",
		Region:          os.Getenv("ARTIFACT_REGION"),
	}
}

// Enabled reports whether an artifact store is configured at all.
func (c Config) Enabled() bool {
	return c.Endpoint != ""
}

// Validate ensures required fields are present when the store is enabled.
func (c Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if c.AccessKeyID == "" || c.SecretAccessKey == "" {
		return fmt.Errorf("artifact: missing ARTIFACT_ACCESS_KEY or ARTIFACT_SECRET_KEY")
	}
	if c.BucketName == "" {
		return fmt.Errorf("artifact: missing ARTIFACT_BUCKET")
	}
	return nil
}
