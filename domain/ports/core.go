package ports

import (
	"unsafe"

	"github.com/reglet-dev/retrohost/abi"
)

// Frontend receives the callbacks a core invokes. A session implements it;
// the native binding forwards each C callback to the bound Frontend.
type Frontend interface {
	Environment(cmd uint32, data unsafe.Pointer) bool
	VideoRefresh(data unsafe.Pointer, width, height uint32, pitch uintptr)
	AudioSample(left, right int16)
	AudioSampleBatch(data *int16, frames uintptr) uintptr
	InputPoll()
	InputState(port, device, index, id uint32) int16
}

// Core is the loaded native plugin. Implementations forward every method to
// the matching retro_* entry point.
type Core interface {
	// Bind installs f as the target of all six core-invoked callbacks and
	// registers them with the core. It must precede Init.
	Bind(f Frontend) error

	APIVersion() uint32
	SystemInfo() abi.SystemInfo
	SystemAVInfo() abi.SystemAVInfo

	Init()
	Deinit()
	Reset()
	Run()

	SerializeSize() uintptr
	Serialize(buf []byte) bool
	Unserialize(buf []byte) bool

	CheatReset()
	CheatSet(index uint32, enabled bool, code string)

	LoadGame(info *abi.GameInfo) bool
	LoadGameSpecial(gameType uint32, infos []abi.GameInfo) bool
	UnloadGame()

	Region() uint32
	MemoryData(id uint32) unsafe.Pointer
	MemorySize(id uint32) uintptr
	SetControllerPortDevice(port, device uint32)

	// Invoke calls a C function pointer the core handed to the host, such
	// as a frame time or audio callback.
	Invoke(fn uintptr, args ...uintptr) uintptr

	Close() error
}
