package designer

import (
	"context"
	"log/slog"
)

// Telemetry records designer events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// SlogTelemetry writes telemetry events as structured log records.
type SlogTelemetry struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogTelemetry logs events at debug level through logger.
func NewSlogTelemetry(logger *slog.Logger) *SlogTelemetry {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogTelemetry{logger: logger, level: slog.LevelDebug}
}

// Record emits one log record with the payload as attributes.
func (t *SlogTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	attrs := make([]slog.Attr, 0, len(payload)+1)
	attrs = append(attrs, slog.String("event", event))
	for key, value := range payload {
		attrs = append(attrs, slog.Any(key, value))
	}
	t.logger.LogAttrs(ctx, t.level, "designer telemetry", attrs...)
}
