package native

import (
	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/ports"
)

// micHost implements the retro_microphone_interface operations.
type micHost struct {
	driver ports.MicrophoneDriver
	mics   *handleTable[ports.Microphone]
}

func newMicHost(driver ports.MicrophoneDriver) *micHost {
	return &micHost{driver: driver, mics: newHandleTable[ports.Microphone]()}
}

func (m *micHost) open(params *abi.MicrophoneParams) uintptr {
	mic, ok := m.driver.Open(params)
	if !ok || mic == nil {
		return 0
	}
	return m.mics.add(mic)
}

func (m *micHost) close(h uintptr) {
	if mic, ok := m.mics.remove(h); ok {
		mic.Close()
	}
}

func (m *micHost) params(h uintptr, out *abi.MicrophoneParams) bool {
	mic, ok := m.mics.get(h)
	if !ok || out == nil {
		return false
	}
	*out = mic.Params()
	return true
}

func (m *micHost) setState(h uintptr, active bool) bool {
	mic, ok := m.mics.get(h)
	return ok && mic.SetActive(active)
}

func (m *micHost) state(h uintptr) bool {
	mic, ok := m.mics.get(h)
	return ok && mic.Active()
}

func (m *micHost) read(h uintptr, samples []int16) int32 {
	mic, ok := m.mics.get(h)
	if !ok {
		return -1
	}
	return int32(mic.Read(samples))
}

func (m *micHost) closeAll() int {
	mics := m.mics.drain()
	for _, mic := range mics {
		mic.Close()
	}
	return len(mics)
}
