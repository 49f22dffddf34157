package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/compdb/internal/ui/output"
	"go.trai.ch/compdb/internal/ui/style"
)

// PrettyHandler is a custom slog.Handler that produces human-readable,
// colored output using the shared UI components.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewPrettyHandler creates a new PrettyHandler writing to the provided writer.
// A *slog.LevelVar passed as the level keeps being honored after changes.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	if line, ok := h.formatPhase(r); ok {
		styled := h.out.String(line).Foreground(termenv.RGBColor(string(style.Iris)))
		_, err := h.out.WriteString(styled.String() + "\n")
		return err
	}

	var msg string
	var color termenv.Color

	switch {
	case r.Level >= slog.LevelError:
		msg = style.Cross + " " + r.Message
		color = termenv.RGBColor(string(style.Red))
	case r.Level >= slog.LevelWarn:
		msg = style.Warning + " " + r.Message
		color = termenv.RGBColor(string(style.Yellow))
	case r.Level >= slog.LevelInfo:
		msg = r.Message
		color = termenv.RGBColor(string(style.Slate))
	default:
		msg = style.Dot + " " + r.Message
		color = termenv.RGBColor(string(style.Iris))
	}

	attrParts := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, attr := range h.attrs {
		attrParts = append(attrParts, formatAttr(h.group, attr))
	}
	r.Attrs(func(attr slog.Attr) bool {
		attrParts = append(attrParts, formatAttr(h.group, attr))
		return true
	})

	if len(attrParts) > 0 {
		msg += " " + strings.Join(attrParts, " ")
	}

	styled := h.out.String(msg).Foreground(color)
	_, err := h.out.WriteString(styled.String() + "\n")

	return err
}

// phaseColumn fits the longest phase name ("includes").
const phaseColumn = 8

// formatPhase renders a record carrying PhaseKey and DurationKey as
// "● <phase> <duration> k=v...", with phase and duration in fixed columns so
// consecutive phases line up. Records without both keys are not phases.
//
//nolint:gocritic // slog.Record is passed by value throughout slog
func (h *PrettyHandler) formatPhase(r slog.Record) (string, bool) {
	var (
		name    string
		elapsed time.Duration
		hasName bool
		hasTime bool
	)
	rest := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, attr := range h.attrs {
		rest = append(rest, formatAttr(h.group, attr))
	}
	r.Attrs(func(attr slog.Attr) bool {
		switch {
		case attr.Key == PhaseKey && attr.Value.Kind() == slog.KindString:
			name, hasName = attr.Value.String(), true
		case attr.Key == DurationKey && attr.Value.Kind() == slog.KindDuration:
			elapsed, hasTime = attr.Value.Duration(), true
		default:
			rest = append(rest, formatAttr(h.group, attr))
		}
		return true
	})
	if !hasName || !hasTime {
		return "", false
	}

	line := fmt.Sprintf("%s %-*s %8s", style.Dot, phaseColumn, name, elapsed.Round(time.Microsecond))
	if len(rest) > 0 {
		line += "  " + strings.Join(rest, " ")
	}
	return line, true
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: newAttrs,
		group: h.group,
	}
}

// WithGroup returns a new Handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: h.attrs,
		group: name,
	}
}

// formatAttr formats a single attribute for output.
// If a group is set, the key is prefixed with the group name.
func formatAttr(group string, attr slog.Attr) string {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	return key + "=" + attr.Value.String()
}
