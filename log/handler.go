// Package log provides a log/slog handler for bls guest programs. Records
// are written to stderr as one JSON document per line, which the host
// captures and re-emits through its own logger.
package log

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/blessnetwork/bls-sdk-go/wireformat"
)

// Handler implements slog.Handler by writing wireformat.LogMessageWire
// lines.
type Handler struct {
	cfg    *handlerConfig
	attrs  []wireformat.LogAttrWire
	prefix string
}

// HandlerOption configures the Handler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	w         io.Writer
	mu        sync.Mutex
	level     slog.Leveler
	addSource bool
}

// WithLevel sets the minimum level to report. Records below it are
// dropped in the guest.
func WithLevel(level slog.Leveler) HandlerOption {
	return func(c *handlerConfig) {
		c.level = level
	}
}

// WithSource enables reporting of source location (file:line).
func WithSource(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.addSource = enabled
	}
}

// WithWriter redirects the output, which defaults to stderr.
func WithWriter(w io.Writer) HandlerOption {
	return func(c *handlerConfig) {
		c.w = w
	}
}

// NewHandler creates a Handler logging at info level to stderr.
func NewHandler(opts ...HandlerOption) *Handler {
	cfg := &handlerConfig{w: os.Stderr, level: slog.LevelInfo}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Handler{cfg: cfg}
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.cfg.level.Level()
}

// WithAttrs returns a handler adding attrs to every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := h.clone()
	for _, a := range attrs {
		next.attrs = appendAttr(next.attrs, h.prefix, a)
	}
	return next
}

// WithGroup returns a handler qualifying later attribute keys with name.
// Nested groups are joined with dots.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.prefix = h.prefix + name + "."
	return next
}

func (h *Handler) clone() *Handler {
	return &Handler{
		cfg:    h.cfg,
		attrs:  append([]wireformat.LogAttrWire(nil), h.attrs...),
		prefix: h.prefix,
	}
}

// Handle writes record as one JSON line.
func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	msg := wireformat.LogMessageWire{
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
		Attrs:     append([]wireformat.LogAttrWire(nil), h.attrs...),
	}
	record.Attrs(func(a slog.Attr) bool {
		msg.Attrs = appendAttr(msg.Attrs, h.prefix, a)
		return true
	})
	if h.cfg.addSource && record.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{record.PC})
		f, _ := frames.Next()
		msg.Source = fmt.Sprintf("%s:%d", f.File, f.Line)
	}

	line, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode log record: %w", err)
	}
	line = append(line, '\n')

	h.cfg.mu.Lock()
	defer h.cfg.mu.Unlock()
	_, err = h.cfg.w.Write(line)
	return err
}
