package native

import (
	"sync"
	"sync/atomic"

	"github.com/ebitengine/purego"

	"github.com/reglet-dev/retrohost/domain/ports"
)

// frontendTable holds the C function pointers of the six core-invoked
// callbacks. purego cannot free callbacks, so they are created once.
type frontendTable struct {
	environment      uintptr
	videoRefresh     uintptr
	audioSample      uintptr
	audioSampleBatch uintptr
	inputPoll        uintptr
	inputState       uintptr
}

type frontendSlot struct {
	f ports.Frontend
}

var (
	frontendOnce  sync.Once
	frontendFns   frontendTable
	frontendState atomic.Pointer[frontendSlot]
)

func attachFrontend(f ports.Frontend) { frontendState.Store(&frontendSlot{f: f}) }
func detachFrontend()                 { frontendState.Store(nil) }

func activeFrontend() ports.Frontend {
	if s := frontendState.Load(); s != nil {
		return s.f
	}
	return nil
}

func frontendCallbacks() frontendTable {
	frontendOnce.Do(func() {
		frontendFns = frontendTable{
			environment:      purego.NewCallback(environmentTrampoline),
			videoRefresh:     purego.NewCallback(videoRefreshTrampoline),
			audioSample:      purego.NewCallback(audioSampleTrampoline),
			audioSampleBatch: purego.NewCallback(audioSampleBatchTrampoline),
			inputPoll:        purego.NewCallback(inputPollTrampoline),
			inputState:       purego.NewCallback(inputStateTrampoline),
		}
	})
	return frontendFns
}

// The trampolines take and return uintptr only, the one signature every
// purego platform accepts for callbacks. Calls arriving while no frontend is
// attached are answered with zero.

func environmentTrampoline(cmd, data uintptr) uintptr {
	f := activeFrontend()
	if f == nil {
		return 0
	}
	return boolResult(f.Environment(uint32(cmd), pointer(data)))
}

func videoRefreshTrampoline(data, width, height, pitch uintptr) uintptr {
	if f := activeFrontend(); f != nil {
		f.VideoRefresh(pointer(data), uint32(width), uint32(height), pitch)
	}
	return 0
}

func audioSampleTrampoline(left, right uintptr) uintptr {
	if f := activeFrontend(); f != nil {
		f.AudioSample(int16(left), int16(right))
	}
	return 0
}

func audioSampleBatchTrampoline(data, frames uintptr) uintptr {
	f := activeFrontend()
	if f == nil {
		return 0
	}
	return f.AudioSampleBatch((*int16)(pointer(data)), frames)
}

func inputPollTrampoline() uintptr {
	if f := activeFrontend(); f != nil {
		f.InputPoll()
	}
	return 0
}

func inputStateTrampoline(port, device, index, id uintptr) uintptr {
	f := activeFrontend()
	if f == nil {
		return 0
	}
	return uintptr(uint16(f.InputState(uint32(port), uint32(device), uint32(index), uint32(id))))
}

func boolResult(b bool) uintptr {
	if b {
		return 1
	}
	return 0
}

func cString(addr uintptr) *byte { return (*byte)(pointer(addr)) }

