package drivers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/reglet-dev/retrohost/abi"
)

// SlogLog forwards core log messages to a slog.Logger.
type SlogLog struct {
	logger *slog.Logger
	core   string
}

// SlogLogOption configures a SlogLog.
type SlogLogOption func(*SlogLog)

// WithCoreName tags every record with the core's library name.
func WithCoreName(name string) SlogLogOption {
	return func(l *SlogLog) {
		l.core = name
	}
}

// NewSlogLog creates a SlogLog writing to logger, or slog.Default() if nil.
func NewSlogLog(logger *slog.Logger, opts ...SlogLogOption) *SlogLog {
	if logger == nil {
		logger = slog.Default()
	}
	l := &SlogLog{logger: logger}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Log emits msg at the slog level matching the core's level. Trailing
// newlines, which cores almost always include, are trimmed.
func (l *SlogLog) Log(level abi.LogLevel, msg string) {
	msg = strings.TrimRight(msg, "\r\n")
	if l.core != "" {
		l.logger.Log(context.Background(), SlogLevel(level), msg, "core", l.core)
		return
	}
	l.logger.Log(context.Background(), SlogLevel(level), msg)
}

// SlogLevel maps a core log level onto slog. Unknown levels log as errors.
func SlogLevel(level abi.LogLevel) slog.Level {
	switch level {
	case abi.LogDebug:
		return slog.LevelDebug
	case abi.LogInfo:
		return slog.LevelInfo
	case abi.LogWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
