package native

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

type recordingFrontend struct {
	envCmd  uint32
	envData unsafe.Pointer
	width   uint32
	pitch   uintptr
	samples [2]int16
	batch   uintptr
	polls   int
	state   int16
}

func (f *recordingFrontend) Environment(cmd uint32, data unsafe.Pointer) bool {
	f.envCmd, f.envData = cmd, data
	return cmd == 10
}

func (f *recordingFrontend) VideoRefresh(_ unsafe.Pointer, width, _ uint32, pitch uintptr) {
	f.width, f.pitch = width, pitch
}

func (f *recordingFrontend) AudioSample(left, right int16) { f.samples = [2]int16{left, right} }

func (f *recordingFrontend) AudioSampleBatch(_ *int16, frames uintptr) uintptr {
	f.batch = frames
	return frames
}

func (f *recordingFrontend) InputPoll() { f.polls++ }

func (f *recordingFrontend) InputState(_, _, _, id uint32) int16 {
	if id == 0 {
		return f.state
	}
	return 0
}

func TestTrampolines_NoFrontend(t *testing.T) {
	detachFrontend()
	assert.Zero(t, environmentTrampoline(10, 0))
	assert.Zero(t, audioSampleBatchTrampoline(0, 64))
	assert.Zero(t, inputStateTrampoline(0, 1, 0, 0))
	assert.Zero(t, videoRefreshTrampoline(0, 320, 240, 640))
	assert.Zero(t, inputPollTrampoline())
}

func TestTrampolines_Forward(t *testing.T) {
	f := &recordingFrontend{state: -1}
	attachFrontend(f)
	t.Cleanup(detachFrontend)

	var payload uint32
	assert.Equal(t, uintptr(1), environmentTrampoline(10, addrOf(t, &payload)))
	assert.Equal(t, uint32(10), f.envCmd)
	assert.Equal(t, unsafe.Pointer(&payload), f.envData)
	assert.Zero(t, environmentTrampoline(11, 0))
	assert.Nil(t, f.envData)

	videoRefreshTrampoline(0, 320, 240, 1280)
	assert.Equal(t, uint32(320), f.width)
	assert.Equal(t, uintptr(1280), f.pitch)

	// Narrow arguments arrive in full registers; only the low bits count.
	audioSampleTrampoline(uintptr(0xFFFF0000|0x7FFF), uintptr(uint16(0x8000)))
	assert.Equal(t, [2]int16{0x7FFF, -0x8000}, f.samples)

	assert.Equal(t, uintptr(64), audioSampleBatchTrampoline(0, 64))
	inputPollTrampoline()
	assert.Equal(t, 1, f.polls)

	// int16 results are returned zero-extended.
	assert.Equal(t, uintptr(0xFFFF), inputStateTrampoline(0, 1, 0, 0))
}

func TestBoolResult(t *testing.T) {
	assert.Equal(t, uintptr(1), boolResult(true))
	assert.Zero(t, boolResult(false))
}
