package envcall

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/retrohost/abi"
	rherrors "github.com/reglet-dev/retrohost/domain/errors"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d, _ := newTestDispatcher(t, baseProviders(t))
	payload := [16]byte{0xAA, 0xBB, 0xCC}
	before := payload

	ok, err := d.Environment(context.Background(), abi.EnvCmd(9999), unsafe.Pointer(&payload))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, payload, "payload untouched")

	ok, err = d.Environment(context.Background(), abi.EnvCmd(9999), nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDispatcher_ExperimentalBitIsKept(t *testing.T) {
	d, _ := newTestDispatcher(t, baseProviders(t))

	var rate float32 = -1
	// GET_TARGET_REFRESH_RATE without its experimental bit is not a command.
	base := abi.EnvGetTargetRefreshRate.Base()
	ok, err := d.Environment(context.Background(), base, unsafe.Pointer(&rate))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.InDelta(t, float32(-1), rate, 0)
}

func TestDispatcher_NullPayload(t *testing.T) {
	power := &fakePower{}
	opts := newFakeOptions(2)
	d, _ := newTestDispatcher(t, baseProviders(t,
		WithPower(power),
		WithOptions(opts),
		WithSession(&fakeSession{}),
	))

	t.Run("forbidden", func(t *testing.T) {
		ok, err := d.Environment(context.Background(), abi.EnvGetVariable, nil)
		assert.False(t, ok)
		var perr *rherrors.ProtocolError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "RETRO_ENVIRONMENT_GET_VARIABLE", perr.Cmd)
		assert.ErrorIs(t, err, rherrors.ErrNullPayload)
	})

	t.Run("probe answers without writing", func(t *testing.T) {
		ok, err := d.Environment(context.Background(), abi.EnvGetDevicePower, nil)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, power.calls)

		ok, err = d.Environment(context.Background(), abi.EnvSetVariable, nil)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("allowed", func(t *testing.T) {
		ok, err := d.Environment(context.Background(), abi.EnvShutdown, nil)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("forbidden through Call", func(t *testing.T) {
		d.logger = quietLogger()
		assert.False(t, d.Call(uint32(abi.EnvSetRotation), nil))
		assert.ErrorIs(t, d.Fault(), rherrors.ErrNullPayload)
	})
}

func TestDispatcher_AbsentProvider(t *testing.T) {
	d, _ := newTestDispatcher(t, baseProviders(t))

	var power abi.DevicePower
	power.Percent = 99
	ok, err := d.Environment(context.Background(), abi.EnvGetDevicePower, unsafe.Pointer(&power))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int8(99), power.Percent)

	// A probe of an absent provider is unsupported as well.
	ok, err = d.Environment(context.Background(), abi.EnvGetDevicePower, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDispatcher_HandlerErrors(t *testing.T) {
	failure := errors.New("handler failed")
	reg, err := NewRegistry(
		WithHandler(abi.EnvGetLanguage, func(context.Context, unsafe.Pointer) (bool, error) {
			return true, rherrors.ErrUnsupported
		}),
		WithHandler(abi.EnvGetUsername, func(context.Context, unsafe.Pointer) (bool, error) {
			return true, failure
		}),
	)
	require.NoError(t, err)
	d := NewDispatcher(reg, WithLogger(quietLogger()))
	var out uint32

	ok, err := d.Environment(context.Background(), abi.EnvGetLanguage, unsafe.Pointer(&out))
	require.NoError(t, err, "unsupported is not a failure")
	assert.False(t, ok)

	ok, err = d.Environment(context.Background(), abi.EnvGetUsername, unsafe.Pointer(&out))
	assert.ErrorIs(t, err, failure)
	assert.False(t, ok)

	assert.False(t, d.Call(uint32(abi.EnvGetUsername), unsafe.Pointer(&out)))
	assert.ErrorIs(t, d.Fault(), failure)
	assert.Equal(t, 1, d.Faults())
}

func TestDispatcher_WithContext(t *testing.T) {
	type key struct{}
	var seen any
	reg, err := NewRegistry(
		WithHandler(abi.EnvShutdown, func(ctx context.Context, _ unsafe.Pointer) (bool, error) {
			seen = ctx.Value(key{})
			return true, nil
		}),
	)
	require.NoError(t, err)

	d := NewDispatcher(reg, WithContext(context.WithValue(context.Background(), key{}, "session")))
	assert.True(t, d.Call(uint32(abi.EnvShutdown), nil))
	assert.Equal(t, "session", seen)
	assert.Same(t, reg, d.Registry())
}

func TestDispatcher_DeclinedCallLeavesPayload(t *testing.T) {
	video := &fakeVideo{refuse: true}
	d, _ := newTestDispatcher(t, baseProviders(t, WithVideo(video)))

	format := int32(abi.PixelFormatRGB565)
	ok, err := d.Environment(context.Background(), abi.EnvSetPixelFormat, unsafe.Pointer(&format))
	require.NoError(t, err)
	assert.False(t, ok)

	video.refuse = false
	format = 42
	ok, err = d.Environment(context.Background(), abi.EnvSetPixelFormat, unsafe.Pointer(&format))
	require.NoError(t, err)
	assert.False(t, ok, "invalid format is refused")

	format = int32(abi.PixelFormatXRGB8888)
	ok, err = d.Environment(context.Background(), abi.EnvSetPixelFormat, unsafe.Pointer(&format))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, abi.PixelFormatXRGB8888, video.format)
}

func TestPayloadPolicy(t *testing.T) {
	assert.Equal(t, NullForbidden, PayloadPolicy(abi.EnvGetVariable))
	assert.Equal(t, NullProbe, PayloadPolicy(abi.EnvGetDevicePower))
	assert.Equal(t, NullAllowed, PayloadPolicy(abi.EnvShutdown))
	assert.Equal(t, "probe", NullProbe.String())
	assert.Equal(t, "forbidden", PayloadPolicy(abi.EnvCmd(9999)).String())
}
