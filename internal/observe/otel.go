package observe

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTelEmitter turns each search run into one OpenTelemetry span named
// "astar.run". Expansions become span events; the span ends when the run
// reaches Found or Exhausted, or is abandoned by a restart.
type OTelEmitter struct {
	tracer trace.Tracer
	parent context.Context
	run    trace.Span
}

// NewOTelEmitter creates an emitter that starts run spans from tracer
// under ctx. A nil ctx means context.Background().
func NewOTelEmitter(ctx context.Context, tracer trace.Tracer) *OTelEmitter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &OTelEmitter{tracer: tracer, parent: ctx}
}

// Emit implements Emitter.
func (o *OTelEmitter) Emit(event Event) {
	switch event.Msg {
	case EventInitialized:
		o.end("superseded")
		_, span := o.tracer.Start(o.parent, "astar.run",
			trace.WithAttributes(standardAttributes(event)...))
		span.SetAttributes(metaAttributes(event.Meta)...)
		o.run = span

	case EventExpanded:
		if o.run == nil {
			return
		}
		attrs := append(standardAttributes(event), metaAttributes(event.Meta)...)
		o.run.AddEvent(EventExpanded, trace.WithAttributes(attrs...))

	case EventFound, EventExhausted:
		if o.run == nil {
			return
		}
		o.run.SetAttributes(attribute.Int("astar.steps", event.Step))
		o.run.SetAttributes(metaAttributes(event.Meta)...)
		o.run.SetStatus(codes.Ok, "")
		o.end(event.Msg)

	case EventRestarted:
		o.end("restarted")
	}
}

// Close ends a run span still open, e.g. when the window closes mid-search.
func (o *OTelEmitter) Close() {
	if o.run != nil {
		o.run.SetStatus(codes.Error, "abandoned")
	}
	o.end("abandoned")
}

// end closes the open run span, tagging how it ended.
func (o *OTelEmitter) end(outcome string) {
	if o.run == nil {
		return
	}
	o.run.SetAttributes(attribute.String("astar.outcome", outcome))
	o.run.End()
	o.run = nil
}

func standardAttributes(event Event) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("astar.run", event.Run),
		attribute.Int("astar.step", event.Step),
		attribute.Int("astar.cell", event.Cell),
	}
}

func metaAttributes(meta map[string]interface{}) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(meta))
	for k, v := range meta {
		key := "astar." + k
		switch val := v.(type) {
		case int:
			attrs = append(attrs, attribute.Int(key, val))
		case int64:
			attrs = append(attrs, attribute.Int64(key, val))
		case bool:
			attrs = append(attrs, attribute.Bool(key, val))
		case string:
			attrs = append(attrs, attribute.String(key, val))
		case float64:
			attrs = append(attrs, attribute.Float64(key, val))
		default:
			attrs = append(attrs, attribute.String(key, fmt.Sprintf("%v", val)))
		}
	}
	return attrs
}
