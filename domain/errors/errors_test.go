package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/reglet-dev/retrohost/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentError(t *testing.T) {
	err := NewContentError("stage", "/roms/game.sfc", ErrFullpathRequired)

	assert.Equal(t, "content stage failed for /roms/game.sfc: in-memory content cannot satisfy need_fullpath", err.Error())
	assert.True(t, errors.Is(err, ErrFullpathRequired))

	var contentErr *ContentError
	require.True(t, errors.As(fmt.Errorf("load: %w", err), &contentErr))
	assert.Equal(t, -1, contentErr.Slot)
}

func TestContentError_Slot(t *testing.T) {
	err := &ContentError{Op: "resolve", Slot: 1, Err: ErrUnregisteredExtension}

	assert.Equal(t, "content resolve slot 1 failed: extension is not registered by the core", err.Error())
}

func TestContentError_ToErrorDetail(t *testing.T) {
	detail := NewContentError("stage", "", ErrRequiredContent).ToErrorDetail()

	assert.Equal(t, "content", detail.Type)
	assert.Equal(t, "stage", detail.Code)
	assert.True(t, detail.Missing)
}

func TestProtocolError(t *testing.T) {
	err := &ProtocolError{Cmd: "RETRO_ENVIRONMENT_GET_VARIABLE", Err: ErrNullPayload}

	assert.Equal(t, "protocol violation in RETRO_ENVIRONMENT_GET_VARIABLE: null payload", err.Error())
	assert.True(t, errors.Is(err, ErrNullPayload))

	withReason := &ProtocolError{Cmd: "X", Reason: "bad shape"}
	assert.Equal(t, "protocol violation in X: bad shape", withReason.Error())
}

func TestConfigError(t *testing.T) {
	baseErr := fmt.Errorf("required slot is empty")
	err := &ConfigError{Field: "audio", Err: baseErr}

	assert.Equal(t, "config validation failed for field 'audio': required slot is empty", err.Error())
	assert.True(t, errors.Is(err, baseErr))

	noField := &ConfigError{Err: baseErr}
	assert.Equal(t, "config validation failed: required slot is empty", noField.Error())
}

func TestCoreError(t *testing.T) {
	err := &CoreError{Op: "retro_load_game", Err: fmt.Errorf("core returned false")}
	assert.Equal(t, "core retro_load_game failed: core returned false", err.Error())
	assert.Equal(t, "core", err.ToErrorDetail().Type)
}

func TestPanicError(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"error", fmt.Errorf("boom"), "panic in GET: boom"},
		{"string", "kaboom", "panic in GET: kaboom"},
		{"other", 42, "panic in GET: panic recovered"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := &PanicError{Cmd: "GET", Value: tc.value}
			assert.Equal(t, tc.want, err.Error())
		})
	}
}

func TestMemoryError(t *testing.T) {
	err := &MemoryError{Requested: 10, Current: 60, Limit: 64}
	assert.Equal(t, "memory allocation failed: requested 10 bytes, current 60 bytes, limit 64 bytes", err.Error())
	assert.Equal(t, "memory_limit", err.ToErrorDetail().Code)
}

func TestToErrorDetail(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, ToErrorDetail(nil))
	})

	t.Run("detail passthrough", func(t *testing.T) {
		d := entities.NewErrorDetail("content", "load", "x")
		assert.Same(t, d, ToErrorDetail(fmt.Errorf("wrap: %w", d)))
		assert.Equal(t, "x (content load)", d.Error())
	})

	t.Run("detailed error", func(t *testing.T) {
		d := ToErrorDetail(fmt.Errorf("wrap: %w", &ConfigError{Field: "video", Err: ErrUnsupported}))
		assert.Equal(t, "config", d.Type)
		assert.Equal(t, "video", d.Code)
	})

	t.Run("generic", func(t *testing.T) {
		d := ToErrorDetail(fmt.Errorf("plain"))
		assert.Equal(t, "internal", d.Type)
		assert.Equal(t, "plain", d.Message)
	})
}
