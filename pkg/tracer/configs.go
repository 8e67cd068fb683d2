package tracer

import "os"

type Config struct {
	// ServiceName identifies this process in trace backends.
	ServiceName string // TRACER_SERVICE_NAME

	// AppEnv tags every span with the deployment environment.
	AppEnv string // APP_ENV

	// EnableExport turns on the OTLP HTTP exporter. When false the provider
	// still creates spans so instrumentation code paths stay exercised, but
	// nothing leaves the process.
	EnableExport bool // TRACER_ENABLE_EXPORT
}

// NewConfig reads the tracing configuration from environment variables.
// Export is off by default so local runs need no collector.
func NewConfig() Config {
	cfg := Config{
		ServiceName:  "embedding-server",
		AppEnv:       "development",
		EnableExport: false,
	}

	if v := os.Getenv("TRACER_SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.AppEnv = v
	}
	if v := os.Getenv("TRACER_ENABLE_EXPORT"); v == "true" || v == "1" {
		cfg.EnableExport = true
	}

	return cfg
}
