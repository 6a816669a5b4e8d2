package monitoring

import (
	"log/slog"
	"os"
	"time"
)

// Logger provides enhanced structured logging with context
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new enhanced logger
func NewLogger() *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   "timestamp",
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	})

	return &Logger{
		Logger: slog.New(handler),
	}
}

// RequestLogger logs HTTP request details
func (l *Logger) RequestLogger(method, path, ip, userAgent string, statusCode int, duration time.Duration) {
	l.Info("HTTP Request",
		"method", method,
		"path", path,
		"ip", ip,
		"user_agent", userAgent,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	)
}

// PredictionLogger logs the outcome of one prediction pass
func (l *Logger) PredictionLogger(member bool, label int, duration time.Duration, cacheHit bool) {
	l.Info("Prediction Completed",
		"member", member,
		"label", label,
		"duration_ms", duration.Milliseconds(),
		"cache_hit", cacheHit,
	)
}

// ArtifactLogger logs artifact loading at startup
func (l *Logger) ArtifactLogger(kind, path string, featureCount int) {
	l.Info("Artifact Loaded",
		"kind", kind,
		"path", path,
		"features", featureCount,
	)
}

// APIErrorLogger logs API errors with context
func (l *Logger) APIErrorLogger(err error, method, path, ip string, statusCode int) {
	l.Error("API Error",
		"error", err.Error(),
		"method", method,
		"path", path,
		"ip", ip,
		"status_code", statusCode,
	)
}

// CacheLogger logs cache operations
func (l *Logger) CacheLogger(operation, key string, hit bool, itemCount int) {
	l.Debug("Cache Operation",
		"operation", operation,
		"key", key,
		"hit", hit,
		"item_count", itemCount,
	)
}

// PerformanceLogger logs a performance observation
func (l *Logger) PerformanceLogger(metric string, value float64, unit string) {
	l.Warn("Performance Observation",
		"metric", metric,
		"value", value,
		"unit", unit,
	)
}

// SystemLogger logs notable system events
func (l *Logger) SystemLogger(event, details string) {
	l.Info("System Event",
		"event", event,
		"details", details,
	)
}
