package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/content"
	"github.com/reglet-dev/retrohost/domain/entities"
	rherrors "github.com/reglet-dev/retrohost/domain/errors"
	"github.com/reglet-dev/retrohost/domain/ports"
	"github.com/reglet-dev/retrohost/envcall"
)

// sessionContent installs the session's content driver and rejects a content
// provider supplied through WithProviders.
func sessionContent(d ports.ContentDriver) envcall.ProviderOption {
	return func(p *envcall.Providers) error {
		if p.Content != nil {
			return &rherrors.ConfigError{Field: "content", Err: errors.New("content provider is owned by the session")}
		}
		return envcall.WithContent(d)(p)
	}
}

type lifecycle int

const (
	stateCreated lifecycle = iota
	stateInitialized
	stateLoaded
	stateClosed
)

// Session drives one core from retro_init to retro_deinit.
//
// All methods must be called from the goroutine that runs the core; the
// core calls back into the session synchronously from inside them.
type Session struct {
	id     uuid.UUID
	core   ports.Core
	logger *slog.Logger

	providers  *envcall.Providers
	dispatcher *envcall.Dispatcher
	content    *content.Driver
	arena      *abi.Arena
	interfaces Interfaces

	state  lifecycle
	system entities.SystemInfo
	av     entities.AVInfo
	frames uint64

	now       func() time.Time
	lastFrame time.Time

	closeOnce sync.Once
	closeErr  error
}

// NewSession composes the providers and the environment dispatcher for
// core. The core is not touched until Init; Close releases it.
func NewSession(core ports.Core, opts ...Option) (*Session, error) {
	if core == nil {
		return nil, &rherrors.ConfigError{Field: "core", Err: errors.New("nil core")}
	}
	cfg := defaultSessionConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	id := uuid.New()
	logger := cfg.logger.With("session", id.String())

	var arenaOpts []abi.ArenaOption
	if cfg.arenaLimit > 0 {
		arenaOpts = append(arenaOpts, abi.WithLimit(cfg.arenaLimit))
	}
	arena := abi.NewArena(arenaOpts...)

	stager := content.NewStager(
		content.WithTempRoot(cfg.tempRoot),
		content.WithBufferRegistry(content.NewBufferRegistry()),
		content.WithStagerLogger(logger),
	)
	driver := content.NewDriver(arena, content.WithStager(stager), content.WithDriverLogger(logger))

	providers, err := envcall.NewProviders(append(cfg.providers, sessionContent(driver))...)
	if err != nil {
		arena.Release()
		return nil, fmt.Errorf("failed to compose providers: %w", err)
	}

	res := envcall.Resources{Arena: arena, Logger: logger}
	if cfg.interfaces != nil {
		res.Thunks = cfg.interfaces
	}
	middleware := append([]envcall.Middleware{
		envcall.PanicRecoveryMiddleware(),
		envcall.LoggingMiddleware(logger),
	}, cfg.middleware...)

	registry, err := envcall.NewRegistry(
		envcall.WithMiddleware(middleware...),
		envcall.WithBundle(envcall.StandardBundles(providers, res)),
	)
	if err != nil {
		arena.Release()
		return nil, fmt.Errorf("failed to build environment registry: %w", err)
	}

	return &Session{
		id:         id,
		core:       core,
		logger:     logger,
		providers:  providers,
		dispatcher: envcall.NewDispatcher(registry, envcall.WithLogger(logger)),
		content:    driver,
		arena:      arena,
		interfaces: cfg.interfaces,
		now:        time.Now,
	}, nil
}

// ID identifies the session in logs and save-state files.
func (s *Session) ID() uuid.UUID { return s.id }

// SystemInfo is the core's retro_get_system_info, read during Init.
func (s *Session) SystemInfo() entities.SystemInfo { return s.system }

// AVInfo is the geometry and timing read after the last content load.
func (s *Session) AVInfo() entities.AVInfo { return s.av }

// Frames returns the number of completed retro_run calls.
func (s *Session) Frames() uint64 { return s.frames }

func (s *Session) Providers() *envcall.Providers   { return s.providers }
func (s *Session) Dispatcher() *envcall.Dispatcher { return s.dispatcher }
func (s *Session) Content() *content.Driver        { return s.content }

func (s *Session) require(want lifecycle) error {
	switch {
	case s.state == stateClosed:
		return ErrClosed
	case s.state < stateInitialized:
		return ErrNotInitialized
	case s.state < want:
		return ErrNoContent
	}
	return nil
}

// Init binds the callbacks, checks the API version and calls retro_init.
func (s *Session) Init() error {
	if s.state == stateClosed {
		return ErrClosed
	}
	if s.state != stateCreated {
		return ErrInitialized
	}
	if s.interfaces != nil {
		s.interfaces.Attach(s.providers)
	}
	if err := s.core.Bind(s); err != nil {
		return err
	}
	if v := s.core.APIVersion(); v != abi.APIVersion {
		return &rherrors.CoreError{Op: "retro_api_version", Err: fmt.Errorf("core implements API %d, host implements %d", v, abi.APIVersion)}
	}

	info := systemInfo(s.core.SystemInfo())
	if err := s.content.SetSystemInfo(info); err != nil {
		return &rherrors.CoreError{Op: "retro_get_system_info", Err: err}
	}
	s.system = info

	s.core.Init()
	s.state = stateInitialized
	s.logger.Info("core initialized", "library", info.LibraryName, "version", info.LibraryVersion)
	return nil
}

// LoadContent loads src through retro_load_game. A nil src or
// content.NoSource starts the core without content.
func (s *Session) LoadContent(src content.Source) error {
	if err := s.require(stateInitialized); err != nil {
		return err
	}
	if s.state == stateLoaded {
		return ErrContentLoaded
	}
	if _, err := s.content.Load(s.core, src); err != nil {
		return err
	}
	s.loaded()
	s.logger.Info("content loaded", "source", content.Describe(src))
	return nil
}

// LoadSubsystem loads one source per rom slot of the subsystem named by
// ref, either its ident or its numeric id.
func (s *Session) LoadSubsystem(ref string, sources []content.Source) error {
	if err := s.require(stateInitialized); err != nil {
		return err
	}
	if s.state == stateLoaded {
		return ErrContentLoaded
	}
	if _, err := s.content.LoadSubsystem(s.core, ref, sources); err != nil {
		return err
	}
	s.loaded()
	s.logger.Info("subsystem content loaded", "subsystem", ref, "roms", len(sources))
	return nil
}

func (s *Session) loaded() {
	s.state = stateLoaded
	s.av = avInfo(s.core.SystemAVInfo())
	s.providers.Video.SetSystemAVInfo(s.av)
	s.lastFrame = time.Time{}
}

// Run executes one frame. The frame time callback, if registered, runs
// first. ErrShutdown is returned after the frame in which the core asked
// to exit.
func (s *Session) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.require(stateLoaded); err != nil {
		return err
	}
	s.frameTime()
	s.core.Run()
	s.frames++
	if s.shutdownRequested() {
		return ErrShutdown
	}
	return nil
}

// RunFrames runs up to n frames, stopping early on error or shutdown. It
// returns the number of frames run.
func (s *Session) RunFrames(ctx context.Context, n int) (int, error) {
	for i := 0; i < n; i++ {
		if err := s.Run(ctx); err != nil {
			if errors.Is(err, ErrShutdown) {
				return i + 1, err
			}
			return i, err
		}
	}
	return n, nil
}

// frameTime invokes the core's frame time callback with the time since the
// previous frame. The first frame, and frames while fast-forwarding, report
// the core's reference time instead.
func (s *Session) frameTime() {
	timing := s.providers.Timing
	if timing == nil {
		return
	}
	cb, ok := timing.FrameTimeCallback()
	if !ok || cb.Callback == 0 {
		return
	}
	now := s.now()
	delta := cb.Reference
	if !s.lastFrame.IsZero() && !timing.FastForwarding() {
		delta = now.Sub(s.lastFrame).Microseconds()
	}
	s.lastFrame = now
	s.core.Invoke(cb.Callback, uintptr(delta))
}

type shutdownReporter interface {
	ShutdownRequested() bool
}

func (s *Session) shutdownRequested() bool {
	r, ok := s.providers.Session.(shutdownReporter)
	return ok && r.ShutdownRequested()
}

// Reset calls retro_reset.
func (s *Session) Reset() error {
	if err := s.require(stateLoaded); err != nil {
		return err
	}
	s.core.Reset()
	return nil
}

// SerializeState returns a save state from retro_serialize.
func (s *Session) SerializeState() ([]byte, error) {
	if err := s.require(stateLoaded); err != nil {
		return nil, err
	}
	size := s.core.SerializeSize()
	if size == 0 {
		return nil, &rherrors.CoreError{Op: "retro_serialize_size", Err: rherrors.ErrUnsupported}
	}
	buf := make([]byte, size)
	if !s.core.Serialize(buf) {
		return nil, &rherrors.CoreError{Op: "retro_serialize", Err: errors.New("core refused to serialize")}
	}
	return buf, nil
}

// RestoreState hands a save state to retro_unserialize.
func (s *Session) RestoreState(data []byte) error {
	if err := s.require(stateLoaded); err != nil {
		return err
	}
	if len(data) == 0 {
		return &rherrors.CoreError{Op: "retro_unserialize", Err: errors.New("empty state")}
	}
	if !s.core.Unserialize(data) {
		return &rherrors.CoreError{Op: "retro_unserialize", Err: errors.New("core rejected the state")}
	}
	return nil
}

// Memory returns a view of the core's memory region id, such as
// abi.MemorySaveRAM, or nil if the core exposes none.
func (s *Session) Memory(id uint32) []byte {
	if s.require(stateInitialized) != nil {
		return nil
	}
	return abi.Bytes(s.core.MemoryData(id), s.core.MemorySize(id))
}

// SetControllerPortDevice calls retro_set_controller_port_device.
func (s *Session) SetControllerPortDevice(port, device uint32) error {
	if err := s.require(stateInitialized); err != nil {
		return err
	}
	s.core.SetControllerPortDevice(port, device)
	return nil
}

// SetCheat calls retro_cheat_set.
func (s *Session) SetCheat(index uint32, enabled bool, code string) error {
	if err := s.require(stateLoaded); err != nil {
		return err
	}
	s.core.CheatSet(index, enabled, code)
	return nil
}

// ResetCheats calls retro_cheat_reset.
func (s *Session) ResetCheats() error {
	if err := s.require(stateLoaded); err != nil {
		return err
	}
	s.core.CheatReset()
	return nil
}

// Close unloads content, deinitializes the core and releases everything
// the session handed to it. Only the first call has any effect.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.state == stateLoaded {
			s.core.UnloadGame()
		}
		if s.state >= stateInitialized {
			s.core.Deinit()
		}
		if s.interfaces != nil {
			s.interfaces.Detach()
		}
		if err := s.content.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to release content: %w", err))
		}
		s.arena.Release()
		if err := s.core.Close(); err != nil {
			errs = append(errs, err)
		}
		s.state = stateClosed
		s.closeErr = errors.Join(errs...)
		s.logger.Debug("session closed", "frames", s.frames, "faults", s.dispatcher.Faults())
	})
	return s.closeErr
}

func systemInfo(info abi.SystemInfo) entities.SystemInfo {
	var exts []string
	for _, ext := range strings.Split(abi.GoString(info.ValidExtensions), "|") {
		if ext = strings.TrimSpace(ext); ext != "" {
			exts = append(exts, ext)
		}
	}
	return entities.SystemInfo{
		LibraryName:     abi.GoString(info.LibraryName),
		LibraryVersion:  abi.GoString(info.LibraryVersion),
		ValidExtensions: exts,
		NeedFullpath:    info.NeedFullpath,
		BlockExtract:    info.BlockExtract,
	}
}

func avInfo(info abi.SystemAVInfo) entities.AVInfo {
	g := info.Geometry
	return entities.AVInfo{
		Geometry: entities.Geometry{
			BaseWidth:   g.BaseWidth,
			BaseHeight:  g.BaseHeight,
			MaxWidth:    g.MaxWidth,
			MaxHeight:   g.MaxHeight,
			AspectRatio: g.AspectRatio,
		},
		Timing: entities.Timing{FPS: info.Timing.FPS, SampleRate: info.Timing.SampleRate},
	}
}
