package server

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultPort is the application port serving the embedding API.
	DefaultPort = "8000"

	// DefaultShutdownTimeout bounds graceful shutdown. In-flight inference
	// calls get this long to finish before the listener is torn down.
	DefaultShutdownTimeout = 10 * time.Second
)

type Config struct {
	// Port is the application listen port. Probes, prediction, and model
	// metadata all share it; only /metrics lives on its own port.
	Port string // PORT

	// CORSOrigins lists the allowed cross-origin request sources.
	CORSOrigins []string // CORS_ALLOW_ORIGINS, comma-separated

	// ShutdownTimeout bounds graceful shutdown on stop.
	ShutdownTimeout time.Duration // SERVER_SHUTDOWN_TIMEOUT_SECONDS
}

// NewConfig reads the HTTP server configuration from environment variables.
func NewConfig() (Config, error) {
	cfg := Config{
		Port:            DefaultPort,
		CORSOrigins:     []string{"*"},
		ShutdownTimeout: DefaultShutdownTimeout,
	}

	if v := os.Getenv("PORT"); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("server: invalid PORT %q", v)
		}
		cfg.Port = v
	}

	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSOrigins = origins
	}

	if v := os.Getenv("SERVER_SHUTDOWN_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("server: invalid SERVER_SHUTDOWN_TIMEOUT_SECONDS %q", v)
		}
		cfg.ShutdownTimeout = time.Duration(n) * time.Second
	}

	return cfg, nil
}

// Addr returns the listen address for the application server.
func (c Config) Addr() string {
	return ":" + c.Port
}
