// Package log builds the slog handlers retrohost logs through.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"

	charm "github.com/charmbracelet/log"
)

// Format selects how records are rendered.
type Format string

const (
	FormatText   Format = "text"
	FormatJSON   Format = "json"
	FormatLogfmt Format = "logfmt"
)

type handlerConfig struct {
	level     slog.Level
	addSource bool
	writer    io.Writer
	format    Format
	prefix    string
	timestamp bool
}

func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		level:     slog.LevelInfo,
		writer:    os.Stderr,
		format:    FormatText,
		timestamp: true,
	}
}

// HandlerOption configures NewHandler.
type HandlerOption func(*handlerConfig)

// WithLevel sets the minimum level reported.
func WithLevel(level slog.Level) HandlerOption {
	return func(c *handlerConfig) {
		c.level = level
	}
}

// WithSource enables reporting of the caller's file and line.
func WithSource(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.addSource = enabled
	}
}

// WithWriter sets the destination. Defaults to os.Stderr.
func WithWriter(w io.Writer) HandlerOption {
	return func(c *handlerConfig) {
		if w != nil {
			c.writer = w
		}
	}
}

// WithFormat selects text, JSON or logfmt output.
func WithFormat(f Format) HandlerOption {
	return func(c *handlerConfig) {
		c.format = f
	}
}

// WithPrefix prepends prefix to every message.
func WithPrefix(prefix string) HandlerOption {
	return func(c *handlerConfig) {
		c.prefix = prefix
	}
}

// WithTimestamp controls whether records carry their time.
func WithTimestamp(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.timestamp = enabled
	}
}

// NewHandler creates a slog handler rendering through charmbracelet/log.
func NewHandler(opts ...HandlerOption) slog.Handler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	formatter := charm.TextFormatter
	switch cfg.format {
	case FormatJSON:
		formatter = charm.JSONFormatter
	case FormatLogfmt:
		formatter = charm.LogfmtFormatter
	}

	return charm.NewWithOptions(cfg.writer, charm.Options{
		Level:           charm.Level(cfg.level),
		ReportCaller:    cfg.addSource,
		ReportTimestamp: cfg.timestamp,
		Prefix:          cfg.prefix,
		Formatter:       formatter,
	})
}

// New creates a logger over NewHandler.
func New(opts ...HandlerOption) *slog.Logger {
	return slog.New(NewHandler(opts...))
}

// ParseLevel maps debug, info, warn and error onto slog levels. Case and
// surrounding space are ignored; "warning" is accepted for warn.
func ParseLevel(s string) (slog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return level, nil
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, bool) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatLogfmt:
		return f, true
	case "":
		return FormatText, true
	}
	return "", false
}
