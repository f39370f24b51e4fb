package middleware

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"

	"adaptagent/internal/logging"
)

// ErrorLocalKey holds the internal error message of a failed request so the
// request log can carry it while the response stays generic.
const ErrorLocalKey = "error_message"

// Logger logs each HTTP request as one JSON object with
// request_id, method, path, status and latency (milliseconds). When the
// request carries a sampled span, its trace_id is included.
// 5xx responses log at error level, 4xx at warn.
func Logger(logger *slog.Logger) fiber.Handler {
	log := logging.Component(logger, "http")

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		attrs := []slog.Attr{
			slog.String("request_id", rid),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Float64("latency", float64(time.Since(start).Microseconds())/1000),
			slog.String("ip", c.IP()),
		}
		if sc := trace.SpanContextFromContext(c.UserContext()); sc.HasTraceID() {
			attrs = append(attrs, slog.String("trace_id", sc.TraceID().String()))
		}
		if uid := UserID(c); uid != "" {
			attrs = append(attrs, slog.String("user_id", uid))
		}
		if msg, ok := c.Locals(ErrorLocalKey).(string); ok && msg != "" {
			attrs = append(attrs, slog.String("error_message", msg))
		} else if err != nil {
			attrs = append(attrs, slog.String("error_message", err.Error()))
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		log.LogAttrs(c.UserContext(), level, "http_request", attrs...)

		return err
	}
}

// LoggerWithWriter is Logger writing JSON lines to w with timestamps in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logging.New(w, loc))
}
