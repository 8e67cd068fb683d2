package metrics

import "os"

// Default port for the metrics server if none is specified.
const DefaultMetricsAddress = ":9090"

// Config defines the configuration structure for the Prometheus metrics server.
type Config struct {
	// Address determines the network address where the Prometheus
	// metrics HTTP server listens.
	//
	// Example values:
	//   - ":9090"          → Listen on all interfaces, port 9090
	//   - "127.0.0.1:9100" → Listen only on localhost, port 9100
	//
	// Environment variable: METRICS_ADDRESS
	// Default: ":9090"
	Address string `yaml:"address" envconfig:"METRICS_ADDRESS"`

	// EnableDefaultCollectors controls whether the built-in Go runtime
	// and process metrics are automatically registered.
	//
	// When true, metrics such as goroutine count, GC stats, and CPU usage
	// are included automatically. Disable only if you want full manual
	// control over registered collectors.
	//
	// Environment variable: METRICS_ENABLE_DEFAULT_COLLECTORS
	// Default: true
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" envconfig:"METRICS_ENABLE_DEFAULT_COLLECTORS"`

	// ServiceName identifies the service exposing metrics. It is applied
	// as a constant "service" label on every metric, which keeps metrics
	// distinguishable when several services share a Prometheus cluster.
	//
	// Environment variable: METRICS_SERVICE_NAME
	ServiceName string `yaml:"service_name" envconfig:"METRICS_SERVICE_NAME"`
}

// NewConfig reads the metrics configuration from environment variables,
// falling back to the documented defaults.
func NewConfig() Config {
	address := os.Getenv("METRICS_ADDRESS")
	if address == "" {
		address = DefaultMetricsAddress
	}

	serviceName := os.Getenv("METRICS_SERVICE_NAME")
	if serviceName == "" {
		serviceName = "embedding-server"
	}

	return Config{
		Address:                 address,
		EnableDefaultCollectors: os.Getenv("METRICS_ENABLE_DEFAULT_COLLECTORS") != "false",
		ServiceName:             serviceName,
	}
}
