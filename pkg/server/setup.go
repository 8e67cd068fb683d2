package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Aleph-Alpha/embedding-server/pkg/api"
	"github.com/Aleph-Alpha/embedding-server/pkg/logger"
	"github.com/Aleph-Alpha/embedding-server/pkg/tracer"
)

// Server is the application HTTP front door. It owns the echo instance, its
// middleware chain, and the route table; the lifecycle hooks in the fx module
// start and stop it.
type Server struct {
	Echo *echo.Echo

	cfg Config
	log *logger.Logger
}

// NewServer builds the echo instance with its middleware chain and routes.
// It does not start listening; that happens in the fx OnStart hook so that
// dependency construction stays side-effect free.
func NewServer(cfg Config, log *logger.Logger, trc *tracer.Tracer, handler *api.Handler) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		Echo: e,
		cfg:  cfg,
		log:  log,
	}

	s.setupMiddlewares(trc)
	RegisterRoutes(e, handler)

	return s
}

func (s *Server) setupMiddlewares(trc *tracer.Tracer) {
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))
	s.Echo.Use(tracingMiddleware(trc))
	s.Echo.Use(processTimeMiddleware())
	s.Echo.Use(s.requestLoggerMiddleware())
}

func (s *Server) requestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogLatency:  true,
		LogURI:      true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := map[string]interface{}{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
			}
			if v.Error == nil {
				s.log.Info("request handled", nil, fields)
			} else {
				s.log.Error("request failed", v.Error, fields)
			}
			return nil
		},
	})
}
