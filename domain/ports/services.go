package ports

import (
	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/entities"
)

// LogDriver receives messages from the core's log callback.
type LogDriver interface {
	Log(level abi.LogLevel, msg string)
}

// MessageDriver shows notifications requested by the core.
type MessageDriver interface {
	Show(msg entities.Message) bool
	ShowExt(msg entities.MessageExt) bool
}

// PathDriver answers the directory queries. An empty result means the
// directory is not configured.
type PathDriver interface {
	SystemDir() string
	SaveDir() string
	CoreAssetsDir() string
	PlaylistDir() string
	FileBrowserStartDir() string
	LibretroPath() string
}

// PerfDriver backs the perf interface.
type PerfDriver interface {
	TimeUsec() int64
	CPUFeatures() uint64
	Counter() uint64
	Register(counter *abi.PerfCounter)
	Start(counter *abi.PerfCounter)
	Stop(counter *abi.PerfCounter)
	Log()
}

// LocationDriver backs the location interface.
type LocationDriver interface {
	Start() bool
	Stop()
	Position() (entities.Location, bool)
	SetInterval(intervalMs, intervalDistance uint32)
}

// UserDriver answers the username and language queries.
type UserDriver interface {
	Username() (string, bool)
	Language() (abi.Language, bool)
}

// LEDDriver backs the LED interface.
type LEDDriver interface {
	SetLEDState(led, state int32)
}

// MIDIDriver backs the MIDI interface.
type MIDIDriver interface {
	InputEnabled() bool
	OutputEnabled() bool
	Read() (byte, bool)
	Write(b byte, deltaTime uint32) bool
	Flush() bool
}

// PowerDriver answers GET_DEVICE_POWER.
type PowerDriver interface {
	DevicePower() entities.DevicePower
}

// TimingDriver answers the pacing commands.
type TimingDriver interface {
	FastForwarding() bool
	SetFastForwardingOverride(o entities.FastForwardingOverride) bool
	TargetRefreshRate() float32
	ThrottleState() entities.ThrottleState
	SetFrameTimeCallback(cb abi.FrameTimeCallback) bool
	// FrameTimeCallback returns the registered callback, if any.
	FrameTimeCallback() (abi.FrameTimeCallback, bool)
}

// AVEnableDriver answers GET_AUDIO_VIDEO_ENABLE.
type AVEnableDriver interface {
	AudioVideoEnable() int32
}

// SessionDriver answers the commands that concern the session itself rather
// than any capability.
type SessionDriver interface {
	Shutdown()
	SetPerformanceLevel(level uint32)
	SetProcAddressCallback(getProcAddress uintptr)
	SetMemoryMaps(descs []entities.MemoryDescriptor)
	SetSupportAchievements(supported bool)
	// SetSerializationQuirks records the core's quirks and returns the
	// subset the host understood.
	SetSerializationQuirks(quirks uint64) uint64
	SavestateContext() abi.SavestateContext
	JITCapable() bool
}
