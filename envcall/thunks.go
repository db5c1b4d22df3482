package envcall

import (
	"log/slog"
	"unsafe"

	"github.com/reglet-dev/retrohost/abi"
)

// Thunks supplies the C-callable function tables that GET_*_INTERFACE
// commands hand to a core. Every entry of a returned table stays callable
// for as long as the Thunks value is in use by the session, and forwards to
// the session's providers.
type Thunks interface {
	Log() abi.LogCallback
	Perf() abi.PerfCallback
	Rumble() abi.RumbleInterface
	Sensor() abi.SensorInterface
	LED() abi.LEDInterface
	MIDI() abi.MIDIInterface
	Location() abi.LocationCallback
	Microphone() abi.MicrophoneInterface
	// VFS returns a retro_vfs_interface table of the given version, or nil
	// when that version is not available.
	VFS(version uint32) unsafe.Pointer
}

// Resources are the session-owned facilities bundles draw on.
type Resources struct {
	// Arena holds memory the host writes pointers to into payloads.
	Arena *abi.Arena
	// Thunks is nil when no native binding exists, for example in tests that
	// do not exercise GET_*_INTERFACE. Those commands are then unsupported.
	Thunks Thunks
	Logger *slog.Logger
}

func (r Resources) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}
