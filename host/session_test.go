package host

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/content"
	rherrors "github.com/reglet-dev/retrohost/domain/errors"
	"github.com/reglet-dev/retrohost/domain/ports"
	"github.com/reglet-dev/retrohost/envcall"
	"github.com/reglet-dev/retrohost/infrastructure/drivers"
)

type rig struct {
	core    *fakeCore
	audio   *drivers.BufferAudio
	video   *drivers.SoftwareVideo
	input   *drivers.StateInput
	timing  *drivers.PacedTiming
	session *drivers.SessionState
	logs    *bytes.Buffer
}

func newRig(t *testing.T, core *fakeCore, opts ...Option) (*Session, *rig) {
	t.Helper()
	r := &rig{
		core:    core,
		audio:   drivers.NewBufferAudio(),
		video:   drivers.NewSoftwareVideo(),
		input:   drivers.NewStateInput(),
		timing:  drivers.NewPacedTiming(60),
		session: drivers.NewSessionState(false),
		logs:    &bytes.Buffer{},
	}
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(r.logs, nil))),
		WithProviders(
			envcall.WithAudio(r.audio),
			envcall.WithVideo(r.video),
			envcall.WithInput(r.input),
			envcall.WithTiming(r.timing),
			envcall.WithSession(r.session),
		),
		WithTempRoot(t.TempDir()),
	}
	s, err := NewSession(core, append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, r
}

func loadedSession(t *testing.T, core *fakeCore, opts ...Option) (*Session, *rig) {
	t.Helper()
	s, r := newRig(t, core, opts...)
	require.NoError(t, s.Init())
	require.NoError(t, s.LoadContent(content.BytesSource{Data: []byte("rom"), Ext: "bin"}))
	return s, r
}

func TestNewSession_Errors(t *testing.T) {
	_, err := NewSession(nil)
	var cerr *rherrors.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "core", cerr.Field)

	_, err = NewSession(newFakeCore(), WithProviders(envcall.WithVideo(drivers.NewSoftwareVideo())))
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, err.Error(), "audio")
	assert.Contains(t, err.Error(), "input")

	arena := abi.NewArena()
	defer arena.Release()
	_, err = NewSession(newFakeCore(), WithProviders(
		envcall.WithAudio(drivers.NewBufferAudio()),
		envcall.WithVideo(drivers.NewSoftwareVideo()),
		envcall.WithInput(drivers.NewStateInput()),
		envcall.WithContent(content.NewDriver(arena)),
	))
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "content", cerr.Field)
}

func TestSession_Lifecycle(t *testing.T) {
	core := newFakeCore()
	s, r := newRig(t, core)

	assert.ErrorIs(t, s.LoadContent(nil), ErrNotInitialized)
	assert.ErrorIs(t, s.Run(context.Background()), ErrNotInitialized)

	require.NoError(t, s.Init())
	assert.ErrorIs(t, s.Init(), ErrInitialized)
	assert.Equal(t, "fake", s.SystemInfo().LibraryName)
	assert.Equal(t, "1.2", s.SystemInfo().LibraryVersion)
	assert.Equal(t, []string{"bin", "ROM"}, s.SystemInfo().ValidExtensions)
	assert.Equal(t, 1, core.calls["bind"])
	assert.Equal(t, 1, core.calls["init"])
	assert.ErrorIs(t, s.Run(context.Background()), ErrNoContent)

	require.NoError(t, s.LoadContent(content.BytesSource{Data: []byte("rom"), Ext: ".BIN"}))
	assert.Equal(t, []byte("rom"), core.loadedData)
	assert.Equal(t, uint32(4), s.AVInfo().Geometry.BaseWidth)
	assert.InDelta(t, 60.0, s.AVInfo().Timing.FPS, 0)
	assert.Equal(t, s.AVInfo(), r.video.AVInfo())
	assert.ErrorIs(t, s.LoadContent(nil), ErrContentLoaded)

	require.NoError(t, s.Run(context.Background()))
	n, err := s.RunFrames(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, uint64(4), s.Frames())
	require.NoError(t, s.Reset())
	assert.Equal(t, 1, core.calls["reset"])
}

func TestSession_InitFailures(t *testing.T) {
	t.Run("api version", func(t *testing.T) {
		core := newFakeCore()
		core.api = 2
		s, _ := newRig(t, core)
		err := s.Init()
		var cerr *rherrors.CoreError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "retro_api_version", cerr.Op)
		assert.Zero(t, core.calls["init"])

		require.NoError(t, s.Close())
		assert.Zero(t, core.calls["deinit"], "a core that never initialized is not deinitialized")
	})

	t.Run("bind", func(t *testing.T) {
		core := newFakeCore()
		core.bindErr = errBind
		s, _ := newRig(t, core)
		assert.ErrorIs(t, s.Init(), errBind)
	})

	t.Run("system info", func(t *testing.T) {
		core := newFakeCore()
		core.info.LibraryName = nil
		s, _ := newRig(t, core)
		var cerr *rherrors.CoreError
		require.ErrorAs(t, s.Init(), &cerr)
		assert.Equal(t, "retro_get_system_info", cerr.Op)
	})
}

func TestSession_LoadWithoutContent(t *testing.T) {
	core := newFakeCore()
	core.onInit = func(f ports.Frontend) {
		yes := true
		assert.True(t, f.Environment(uint32(abi.EnvSetSupportNoGame), unsafe.Pointer(&yes)))
	}
	s, _ := newRig(t, core)
	require.NoError(t, s.Init())
	require.NoError(t, s.LoadContent(nil))
	assert.True(t, core.loadedNil)
}

func TestSession_LoadRejected(t *testing.T) {
	core := newFakeCore()
	core.rejectLoad = true
	s, _ := newRig(t, core)
	require.NoError(t, s.Init())

	err := s.LoadContent(content.BytesSource{Data: []byte("rom"), Ext: "bin"})
	var cerr *rherrors.CoreError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "retro_load_game", cerr.Op)

	err = s.LoadContent(content.BytesSource{Data: []byte("x"), Ext: "iso"})
	var contentErr *rherrors.ContentError
	require.ErrorAs(t, err, &contentErr)
	assert.ErrorIs(t, err, rherrors.ErrUnregisteredExtension)

	core.rejectLoad = false
	require.NoError(t, s.LoadContent(content.BytesSource{Data: []byte("rom"), Ext: "bin"}),
		"a failed load leaves the session ready for another")
}

func TestSession_Frontend(t *testing.T) {
	core := newFakeCore()
	var state int16
	core.onRun = func(f ports.Frontend) {
		f.InputPoll()
		state = f.InputState(0, abi.DeviceJoypad, 0, 3)

		pixels := make([]byte, 10*2)
		for i := range pixels {
			pixels[i] = byte(i)
		}
		f.VideoRefresh(unsafe.Pointer(&pixels[0]), 4, 2, 10)

		samples := []int16{1, 2, 3, 4, 5, 6}
		assert.Equal(t, uintptr(3), f.AudioSampleBatch(&samples[0], 3))
		assert.Zero(t, f.AudioSampleBatch(nil, 3))
		f.AudioSample(7, 8)
	}
	s, r := loadedSession(t, core)
	r.input.Set(drivers.InputKey{Port: 0, Device: abi.DeviceJoypad, ID: 3}, 1)
	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, int16(1), state)
	snap, ok := r.video.Last()
	require.True(t, ok)
	assert.Equal(t, []byte{0, 1, 2, 3, 4, 5, 6, 7, 10, 11, 12, 13, 14, 15, 16, 17}, snap.Pixels)
	assert.Equal(t, []int16{1, 2, 3, 4, 5, 6, 7, 8}, r.audio.Drain())

	core.onRun = func(f ports.Frontend) {
		f.VideoRefresh(nil, 4, 2, 10)
		f.VideoRefresh(unsafe.Pointer(abi.HWFrameBufferValid), 4, 2, 0)
	}
	require.NoError(t, s.Run(context.Background()))
	total, dupes := r.video.Frames()
	assert.Equal(t, uint64(3), total)
	assert.Equal(t, uint64(2), dupes)
}

func TestSession_Shutdown(t *testing.T) {
	core := newFakeCore()
	run := 0
	core.onRun = func(f ports.Frontend) {
		run++
		if run == 2 {
			assert.True(t, f.Environment(uint32(abi.EnvShutdown), nil))
		}
	}
	s, _ := loadedSession(t, core)

	n, err := s.RunFrames(context.Background(), 10)
	assert.ErrorIs(t, err, ErrShutdown)
	assert.Equal(t, 2, n)
}

func TestSession_RunCanceled(t *testing.T) {
	s, r := loadedSession(t, newFakeCore())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := s.RunFrames(ctx, 5)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
	assert.Zero(t, r.core.calls["run"])
}

func TestSession_FrameTimeCallback(t *testing.T) {
	core := newFakeCore()
	core.onInit = func(f ports.Frontend) {
		cb := abi.FrameTimeCallback{Callback: 0xC0FFEE, Reference: 16667}
		assert.True(t, f.Environment(uint32(abi.EnvSetFrameTimeCallback), unsafe.Pointer(&cb)))
	}
	s, r := loadedSession(t, core)

	clock := time.Unix(1000, 0)
	s.now = func() time.Time {
		clock = clock.Add(10 * time.Millisecond)
		return clock
	}
	_, err := s.RunFrames(context.Background(), 2)
	require.NoError(t, err)

	require.True(t, r.timing.SetFastForward(true))
	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, []uintptr{16667, 10000, 16667}, core.invoked)
}

func TestSession_State(t *testing.T) {
	core := newFakeCore()
	s, _ := loadedSession(t, core)

	data, err := s.SerializeState()
	require.NoError(t, err)
	assert.Equal(t, []byte("state-0"), data)

	require.NoError(t, s.RestoreState([]byte("state-1")))
	assert.Equal(t, []byte("state-1"), core.state)

	var cerr *rherrors.CoreError
	require.ErrorAs(t, s.RestoreState(nil), &cerr)
	require.ErrorAs(t, s.RestoreState([]byte("short")), &cerr)
	assert.Equal(t, "retro_unserialize", cerr.Op)

	core.state = nil
	_, err = s.SerializeState()
	require.ErrorAs(t, err, &cerr)
	assert.ErrorIs(t, err, rherrors.ErrUnsupported)
}

func TestSession_MemoryAndControls(t *testing.T) {
	core := newFakeCore()
	core.saveRAM = []byte{1, 2, 3}
	s, _ := loadedSession(t, core)

	mem := s.Memory(abi.MemorySaveRAM)
	assert.Equal(t, []byte{1, 2, 3}, mem)
	mem[0] = 9
	assert.Equal(t, byte(9), core.saveRAM[0], "memory is a view")
	assert.Nil(t, s.Memory(abi.MemoryVideoRAM))

	require.NoError(t, s.SetControllerPortDevice(1, abi.DeviceJoypad))
	assert.Equal(t, abi.DeviceJoypad, core.ports[1])

	require.NoError(t, s.SetCheat(0, true, "ABCD-1234"))
	assert.Equal(t, "ABCD-1234", core.cheats[0])
	require.NoError(t, s.ResetCheats())
	assert.Empty(t, core.cheats)
}

func TestSession_CloseOnce(t *testing.T) {
	core := newFakeCore()
	core.closeErr = errors.New("dlclose failed")
	ifaces := &fakeInterfaces{}
	s, _ := loadedSession(t, core, WithInterfaces(ifaces))
	assert.Same(t, s.Providers(), ifaces.attached)

	err := s.Close()
	assert.ErrorIs(t, err, core.closeErr)
	assert.Equal(t, err, s.Close(), "later calls return the first result")

	assert.Equal(t, 1, core.calls["unload"])
	assert.Equal(t, 1, core.calls["deinit"])
	assert.Equal(t, 1, core.calls["close"])
	assert.Equal(t, 1, ifaces.attaches)
	assert.Equal(t, 1, ifaces.detaches)

	assert.ErrorIs(t, s.Run(context.Background()), ErrClosed)
	assert.ErrorIs(t, s.Init(), ErrClosed)
	assert.ErrorIs(t, s.LoadContent(nil), ErrClosed)
	assert.Nil(t, s.Memory(abi.MemorySaveRAM))
}

func TestSession_Interfaces(t *testing.T) {
	core := newFakeCore()
	var log abi.LogCallback
	core.onInit = func(f ports.Frontend) {
		assert.True(t, f.Environment(uint32(abi.EnvGetLogInterface), unsafe.Pointer(&log)))
	}
	s, _ := newRig(t, core,
		WithInterfaces(&fakeInterfaces{}),
		WithProviders(envcall.WithLog(drivers.NewSlogLog(slog.Default()))),
	)
	require.NoError(t, s.Init())
	assert.Equal(t, uintptr(1), log.Log)
}

func TestSession_HandlerPanicIsContained(t *testing.T) {
	core := newFakeCore()
	core.onRun = func(f ports.Frontend) {
		format := int32(abi.PixelFormatRGB565)
		assert.False(t, f.Environment(uint32(abi.EnvSetPixelFormat), unsafe.Pointer(&format)))
	}
	panicky := func(next envcall.Handler) envcall.Handler {
		return func(ctx context.Context, data unsafe.Pointer) (bool, error) {
			if cmd, _ := envcall.CommandFrom(ctx); cmd == abi.EnvSetPixelFormat {
				panic("driver bug")
			}
			return next(ctx, data)
		}
	}
	s, r := loadedSession(t, core, WithMiddleware(panicky))

	require.NoError(t, s.Run(context.Background()))
	var perr *rherrors.PanicError
	require.ErrorAs(t, s.Dispatcher().Fault(), &perr)
	assert.Equal(t, abi.PixelFormat0RGB1555, r.video.PixelFormat())
	assert.Contains(t, r.logs.String(), "driver bug")
}
