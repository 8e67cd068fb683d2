package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Aleph-Alpha/embedding-server/pkg/tracer"
)

// processTimeMiddleware sets an X-Process-Time header with the wall-clock
// seconds spent handling the request. The header is registered as a
// pre-write hook because headers cannot change once the body started.
func processTimeMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			c.Response().Before(func() {
				elapsed := time.Since(start).Seconds()
				c.Response().Header().Set("X-Process-Time", strconv.FormatFloat(elapsed, 'f', 4, 64))
			})
			return next(c)
		}
	}
}

// tracingMiddleware opens one span per request, joined to the caller's trace
// when the request carries W3C trace context headers.
func tracingMiddleware(trc *tracer.Tracer) echo.MiddlewareFunc {
	propagated := []string{"traceparent", "tracestate", "baggage"}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			carrier := make(map[string]string, len(propagated))
			for _, key := range propagated {
				if v := req.Header.Get(key); v != "" {
					carrier[key] = v
				}
			}

			ctx := trc.SetCarrierOnContext(req.Context(), carrier)
			ctx, span := trc.StartSpan(ctx, req.Method+" "+routeName(c))
			defer span.End()

			trc.SetAttributes(span, map[string]interface{}{
				"http.method": req.Method,
				"http.route":  routeName(c),
			})

			c.SetRequest(req.WithContext(ctx))

			err := next(c)
			if err != nil {
				trc.RecordErrorOnSpan(span, err)
			}
			trc.SetAttributes(span, map[string]interface{}{
				"http.status_code": c.Response().Status,
			})
			return err
		}
	}
}

func routeName(c echo.Context) string {
	if path := c.Path(); path != "" {
		return path
	}
	return strings.SplitN(c.Request().RequestURI, "?", 2)[0]
}
