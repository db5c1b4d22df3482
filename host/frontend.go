package host

import (
	"unsafe"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/ports"
)

var _ ports.Frontend = (*Session)(nil)

// Environment answers retro_environment_t.
func (s *Session) Environment(cmd uint32, data unsafe.Pointer) bool {
	return s.dispatcher.Call(cmd, data)
}

// VideoRefresh answers retro_video_refresh_t. A nil data pointer is a
// duplicated frame and abi.HWFrameBufferValid a hardware rendered one.
func (s *Session) VideoRefresh(data unsafe.Pointer, width, height uint32, pitch uintptr) {
	frame := ports.Frame{Width: width, Height: height, Pitch: pitch}
	switch {
	case data == nil:
	case uintptr(data) == abi.HWFrameBufferValid:
		frame.HW = true
	default:
		frame.Data = abi.Bytes(data, pitch*uintptr(height))
	}
	s.providers.Video.Refresh(frame)
}

// AudioSample answers retro_audio_sample_t.
func (s *Session) AudioSample(left, right int16) {
	s.providers.Audio.Sample(left, right)
}

// AudioSampleBatch answers retro_audio_sample_batch_t. frames counts
// stereo frames, so data holds twice as many samples.
func (s *Session) AudioSampleBatch(data *int16, frames uintptr) uintptr {
	if data == nil || frames == 0 {
		return 0
	}
	n := s.providers.Audio.SampleBatch(unsafe.Slice(data, frames*2))
	if n < 0 {
		return 0
	}
	return uintptr(n)
}

// InputPoll answers retro_input_poll_t.
func (s *Session) InputPoll() {
	s.providers.Input.Poll()
}

// InputState answers retro_input_state_t.
func (s *Session) InputState(port, device, index, id uint32) int16 {
	return s.providers.Input.State(port, device, index, id)
}
