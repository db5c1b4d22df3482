package envcall

import (
	"context"
	"unsafe"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/ports"
)

// AudioBundle returns the audio commands a supports: SET_AUDIO_CALLBACK,
// SET_AUDIO_BUFFER_STATUS_CALLBACK, SET_MINIMUM_AUDIO_LATENCY and
// GET_TARGET_SAMPLE_RATE, each only when a implements the matching
// optional interface.
func AudioBundle(a ports.AudioDriver) Bundle {
	if a == nil {
		return emptyBundle
	}
	h := map[abi.EnvCmd]Handler{}

	if s, ok := a.(ports.AudioCallbackSetter); ok {
		h[abi.EnvSetAudioCallback] = Typed(func(_ context.Context, cb *abi.AudioCallback) (bool, error) {
			return s.SetAudioCallback(*cb), nil
		})
	}
	if s, ok := a.(ports.AudioBufferStatusSetter); ok {
		h[abi.EnvSetAudioBufferStatusCallback] = func(_ context.Context, data unsafe.Pointer) (bool, error) {
			if data == nil {
				return s.SetBufferStatusCallback(0), nil
			}
			return s.SetBufferStatusCallback((*abi.AudioBufferStatusCallback)(data).Callback), nil
		}
	}
	if s, ok := a.(ports.AudioLatencySetter); ok {
		h[abi.EnvSetMinimumAudioLatency] = Set(s.SetMinimumLatency)
	}
	if s, ok := a.(ports.AudioSampleRater); ok {
		h[abi.EnvGetTargetSampleRate] = Query(s.TargetSampleRate)
	}
	return &staticBundle{handlers: h}
}
