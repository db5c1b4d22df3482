package drivers

import (
	"context"
	"log/slog"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/entities"
)

// SlogMessages shows core notifications as log records.
type SlogMessages struct {
	logger *slog.Logger
}

// NewSlogMessages creates a SlogMessages writing to logger, or
// slog.Default() if nil.
func NewSlogMessages(logger *slog.Logger) *SlogMessages {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogMessages{logger: logger}
}

func (m *SlogMessages) Show(msg entities.Message) bool {
	m.logger.Info(msg.Text, "frames", msg.Frames)
	return true
}

func (m *SlogMessages) ShowExt(msg entities.MessageExt) bool {
	attrs := []any{"duration_ms", msg.Duration, "priority", msg.Priority}
	if msg.Type == abi.MessageTypeProgress && msg.Progress >= 0 {
		attrs = append(attrs, "progress", msg.Progress)
	}
	m.logger.Log(context.Background(), SlogLevel(abi.LogLevel(msg.Level)), msg.Text, attrs...)
	return true
}
