package native

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/reglet-dev/retrohost/abi"
	rherrors "github.com/reglet-dev/retrohost/domain/errors"
	"github.com/reglet-dev/retrohost/domain/ports"
)

// ErrMissingSymbol is returned when a core does not export a retro_* entry
// point.
var ErrMissingSymbol = errors.New("symbol not exported")

var _ ports.Core = (*Library)(nil)

// Library is a core shared object with all of its entry points bound.
type Library struct {
	path   string
	handle uintptr

	setEnvironment      func(cb uintptr)
	setVideoRefresh     func(cb uintptr)
	setAudioSample      func(cb uintptr)
	setAudioSampleBatch func(cb uintptr)
	setInputPoll        func(cb uintptr)
	setInputState       func(cb uintptr)

	retroInit   func()
	retroDeinit func()
	apiVersion  func() uint32

	getSystemInfo   func(info unsafe.Pointer)
	getSystemAVInfo func(info unsafe.Pointer)

	setControllerPortDevice func(port, device uint32)
	reset                   func()
	run                     func()

	serializeSize func() uintptr
	serialize     func(data unsafe.Pointer, size uintptr) bool
	unserialize   func(data unsafe.Pointer, size uintptr) bool

	cheatReset func()
	cheatSet   func(index uint32, enabled bool, code string)

	loadGame        func(info unsafe.Pointer) bool
	loadGameSpecial func(gameType uint32, info unsafe.Pointer, num uintptr) bool
	unloadGame      func()

	getRegion     func() uint32
	getMemoryData func(id uint32) uintptr
	getMemorySize func(id uint32) uintptr

	closeOnce sync.Once
	closeErr  error
}

type symbol struct {
	name string
	fptr any
}

func (l *Library) symbols() []symbol {
	return []symbol{
		{"retro_set_environment", &l.setEnvironment},
		{"retro_set_video_refresh", &l.setVideoRefresh},
		{"retro_set_audio_sample", &l.setAudioSample},
		{"retro_set_audio_sample_batch", &l.setAudioSampleBatch},
		{"retro_set_input_poll", &l.setInputPoll},
		{"retro_set_input_state", &l.setInputState},
		{"retro_init", &l.retroInit},
		{"retro_deinit", &l.retroDeinit},
		{"retro_api_version", &l.apiVersion},
		{"retro_get_system_info", &l.getSystemInfo},
		{"retro_get_system_av_info", &l.getSystemAVInfo},
		{"retro_set_controller_port_device", &l.setControllerPortDevice},
		{"retro_reset", &l.reset},
		{"retro_run", &l.run},
		{"retro_serialize_size", &l.serializeSize},
		{"retro_serialize", &l.serialize},
		{"retro_unserialize", &l.unserialize},
		{"retro_cheat_reset", &l.cheatReset},
		{"retro_cheat_set", &l.cheatSet},
		{"retro_load_game", &l.loadGame},
		{"retro_load_game_special", &l.loadGameSpecial},
		{"retro_unload_game", &l.unloadGame},
		{"retro_get_region", &l.getRegion},
		{"retro_get_memory_data", &l.getMemoryData},
		{"retro_get_memory_size", &l.getMemorySize},
	}
}

// Open loads the core at path and binds every retro_* entry point. A core
// missing any of them is rejected with a CoreError listing all missing
// symbols.
func Open(path string) (*Library, error) {
	handle, err := openLibrary(path)
	if err != nil {
		return nil, &rherrors.CoreError{Op: "open", Err: err}
	}

	l := &Library{path: path, handle: handle}
	var missing []error
	for _, s := range l.symbols() {
		addr, err := lookup(handle, s.name)
		if err != nil || addr == 0 {
			missing = append(missing, fmt.Errorf("%s: %w", s.name, ErrMissingSymbol))
			continue
		}
		purego.RegisterFunc(s.fptr, addr)
	}
	if len(missing) > 0 {
		_ = closeLibrary(handle)
		return nil, &rherrors.CoreError{Op: "bind", Err: errors.Join(missing...)}
	}
	return l, nil
}

// Path returns the file the core was loaded from.
func (l *Library) Path() string { return l.path }

// Bind makes f the target of the frontend callbacks and registers them with
// the core.
func (l *Library) Bind(f ports.Frontend) error {
	if f == nil {
		return &rherrors.CoreError{Op: "bind", Err: errors.New("nil frontend")}
	}
	cb := frontendCallbacks()
	attachFrontend(f)

	l.setEnvironment(cb.environment)
	l.setVideoRefresh(cb.videoRefresh)
	l.setAudioSample(cb.audioSample)
	l.setAudioSampleBatch(cb.audioSampleBatch)
	l.setInputPoll(cb.inputPoll)
	l.setInputState(cb.inputState)
	return nil
}

func (l *Library) APIVersion() uint32 { return l.apiVersion() }

// SystemInfo returns the core's static description. Its strings point into
// the core's own memory.
func (l *Library) SystemInfo() abi.SystemInfo {
	var info abi.SystemInfo
	l.getSystemInfo(unsafe.Pointer(&info))
	return info
}

func (l *Library) SystemAVInfo() abi.SystemAVInfo {
	var info abi.SystemAVInfo
	l.getSystemAVInfo(unsafe.Pointer(&info))
	return info
}

func (l *Library) Init()   { l.retroInit() }
func (l *Library) Deinit() { l.retroDeinit() }
func (l *Library) Reset()  { l.reset() }
func (l *Library) Run()    { l.run() }

func (l *Library) SerializeSize() uintptr { return l.serializeSize() }

func (l *Library) Serialize(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	return l.serialize(unsafe.Pointer(unsafe.SliceData(buf)), uintptr(len(buf)))
}

func (l *Library) Unserialize(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	return l.unserialize(unsafe.Pointer(unsafe.SliceData(buf)), uintptr(len(buf)))
}

func (l *Library) CheatReset() { l.cheatReset() }

func (l *Library) CheatSet(index uint32, enabled bool, code string) {
	l.cheatSet(index, enabled, code)
}

// LoadGame passes info, which may be nil for cores that run without
// content.
func (l *Library) LoadGame(info *abi.GameInfo) bool {
	return l.loadGame(unsafe.Pointer(info))
}

func (l *Library) LoadGameSpecial(gameType uint32, infos []abi.GameInfo) bool {
	return l.loadGameSpecial(gameType, unsafe.Pointer(unsafe.SliceData(infos)), uintptr(len(infos)))
}

func (l *Library) UnloadGame() { l.unloadGame() }

func (l *Library) Region() uint32 { return l.getRegion() }

// MemoryData returns the core-owned memory region id, or nil.
func (l *Library) MemoryData(id uint32) unsafe.Pointer {
	return pointer(l.getMemoryData(id))
}

func (l *Library) MemorySize(id uint32) uintptr { return l.getMemorySize(id) }

func (l *Library) SetControllerPortDevice(port, device uint32) {
	l.setControllerPortDevice(port, device)
}

// Invoke calls a C function pointer obtained from the core with integer or
// pointer arguments.
func (l *Library) Invoke(fn uintptr, args ...uintptr) uintptr {
	if fn == 0 {
		return 0
	}
	r1, _, _ := purego.SyscallN(fn, args...)
	return r1
}

// Close detaches the library from the callbacks and unloads it. Calls after
// the first return the first result.
func (l *Library) Close() error {
	l.closeOnce.Do(func() {
		detachFrontend()
		if err := closeLibrary(l.handle); err != nil {
			l.closeErr = &rherrors.CoreError{Op: "close", Err: err}
		}
	})
	return l.closeErr
}

// pointer converts an address received from C into a pointer.
func pointer(addr uintptr) unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Pointer(&addr))
}
