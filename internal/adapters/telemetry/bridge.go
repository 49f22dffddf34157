package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/compdb/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// Bridge implements sdktrace.SpanProcessor and reports finished phases as
// debug log lines.
type Bridge struct {
	logger ports.Logger
}

// NewBridge returns a new Bridge.
func NewBridge(logger ports.Logger) *Bridge {
	return &Bridge{logger: logger}
}

// phaseLogger is implemented by loggers that render phase timings themselves.
type phaseLogger interface {
	Phase(name string, elapsed time.Duration, attrs ...slog.Attr)
}

// OnStart is called when a span starts.
func (b *Bridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || !s.SpanContext().IsValid() {
		return
	}
	if pl, ok := b.logger.(phaseLogger); ok {
		pl.Phase(s.Name(), elapsed(s), phaseAttrs(s)...)
		return
	}
	b.logger.Debug(FormatPhase(s))
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

// FormatPhase renders a finished span as "phase <name> took <duration>",
// followed by its attributes and failure status.
func FormatPhase(s sdktrace.ReadOnlySpan) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "phase %s took %s", s.Name(), elapsed(s))

	for _, kv := range s.Attributes() {
		fmt.Fprintf(&sb, " %s=%s", kv.Key, kv.Value.Emit())
	}

	if desc, failed := failure(s); failed {
		sb.WriteString(" error=" + desc)
	}

	return sb.String()
}

func elapsed(s sdktrace.ReadOnlySpan) time.Duration {
	return s.EndTime().Sub(s.StartTime()).Round(time.Microsecond)
}

// failure returns the status description of a failed span.
func failure(s sdktrace.ReadOnlySpan) (string, bool) {
	if s.Status().Code != codes.Error {
		return "", false
	}
	if desc := s.Status().Description; desc != "" {
		return desc, true
	}
	return "phase failed", true
}

// phaseAttrs converts span attributes to typed log attributes.
func phaseAttrs(s sdktrace.ReadOnlySpan) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(s.Attributes())+1)
	for _, kv := range s.Attributes() {
		key := string(kv.Key)
		switch kv.Value.Type() {
		case attribute.BOOL:
			attrs = append(attrs, slog.Bool(key, kv.Value.AsBool()))
		case attribute.INT64:
			attrs = append(attrs, slog.Int64(key, kv.Value.AsInt64()))
		case attribute.FLOAT64:
			attrs = append(attrs, slog.Float64(key, kv.Value.AsFloat64()))
		default:
			attrs = append(attrs, slog.String(key, kv.Value.Emit()))
		}
	}
	if desc, failed := failure(s); failed {
		attrs = append(attrs, slog.String("error", desc))
	}
	return attrs
}
