package logger

import "os"

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

const defaultServiceName = "embedding-server"

type Config struct {
	// Level controls the minimum log level: debug, info, warning, or
	// error. Unknown values fall back to info.
	Level string `yaml:"level" envconfig:"ZAP_LOGGER_LEVEL"`

	// ServiceName is attached to every log entry as the "service" field.
	ServiceName string `yaml:"service_name" envconfig:"LOGGER_SERVICE_NAME"`
}

// NewConfig reads the logger configuration from environment variables.
func NewConfig() Config {
	level := os.Getenv("ZAP_LOGGER_LEVEL")
	if level == "" {
		level = Info
	}

	serviceName := os.Getenv("LOGGER_SERVICE_NAME")
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	return Config{
		Level:       level,
		ServiceName: serviceName,
	}
}
