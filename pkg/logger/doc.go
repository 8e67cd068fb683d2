// Package logger provides structured JSON logging for the embedding service.
//
// It wraps Uber's Zap logger behind a small interface used by every other
// package in this repository:
//
//	log := logger.NewLoggerClient(logger.NewConfig())
//	log.Info("server started", nil, map[string]interface{}{
//	    "port": 8000,
//	})
//
// Configuration comes from environment variables:
//
//	ZAP_LOGGER_LEVEL     # debug | info | warning | error (default: info)
//	LOGGER_SERVICE_NAME  # "service" field on every entry (default: embedding-server)
//
// The FXModule integrates the logger into an fx application and flushes
// buffered entries on shutdown. All methods are safe for concurrent use.
package logger
