// Package middleware provides the request logging layer.
package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// Context keys handlers set to enrich the request record.
const (
	KeyMessageID = "log.message_id"
	KeyDuplicate = "log.dup"
	KeyResult    = "log.result"
)

// RequestLogger emits one structured record per request: request_id, method,
// path, status, latency_ms, plus message_id / dup / result when the handler
// set them. Logging never aborts the request.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			attrs := []slog.Attr{
				slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.Int("status", c.Response().Status),
				slog.Float64("latency_ms", float64(time.Since(start).Microseconds())/1000.0),
			}
			if messageID, ok := c.Get(KeyMessageID).(string); ok {
				attrs = append(attrs, slog.String("message_id", messageID))
			}
			if dup, ok := c.Get(KeyDuplicate).(bool); ok {
				attrs = append(attrs, slog.Bool("dup", dup))
			}
			if result, ok := c.Get(KeyResult).(string); ok {
				attrs = append(attrs, slog.String("result", result))
			}

			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)

			return nil
		}
	}
}
