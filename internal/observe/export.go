package observe

import (
	"context"
	"log"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// LogSpanExporter writes a one-line summary of each finished run span to
// a logger. It lets -trace work without a collector.
type LogSpanExporter struct {
	logger *log.Logger
}

// NewLogSpanExporter creates an exporter writing to logger, or to
// log.Default() when logger is nil.
func NewLogSpanExporter(logger *log.Logger) *LogSpanExporter {
	if logger == nil {
		logger = log.Default()
	}
	return &LogSpanExporter{logger: logger}
}

// ExportSpans implements sdktrace.SpanExporter.
func (x *LogSpanExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		outcome := ""
		for _, kv := range s.Attributes() {
			if kv.Key == "astar.outcome" {
				outcome = kv.Value.AsString()
			}
		}
		x.logger.Printf("[span] %s trace=%s outcome=%s events=%d duration=%s",
			s.Name(), s.SpanContext().TraceID(), outcome, len(s.Events()), s.EndTime().Sub(s.StartTime()))
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter.
func (x *LogSpanExporter) Shutdown(ctx context.Context) error { return nil }

// NewTracerProvider builds a provider that exports synchronously to exp.
func NewTracerProvider(exp sdktrace.SpanExporter) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
}
