package envcall

import (
	"context"
	"unsafe"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/ports"
)

// LEDBundle returns GET_LED_INTERFACE.
func LEDBundle(l ports.LEDDriver, res Resources) Bundle {
	if l == nil || res.Thunks == nil {
		return emptyBundle
	}
	return &staticBundle{handlers: map[abi.EnvCmd]Handler{
		abi.EnvGetLEDInterface: Query(func() (abi.LEDInterface, bool) { return res.Thunks.LED(), true }),
	}}
}

// MIDIBundle returns GET_MIDI_INTERFACE.
func MIDIBundle(m ports.MIDIDriver, res Resources) Bundle {
	if m == nil || res.Thunks == nil {
		return emptyBundle
	}
	return &staticBundle{handlers: map[abi.EnvCmd]Handler{
		abi.EnvGetMIDIInterface: Query(func() (abi.MIDIInterface, bool) { return res.Thunks.MIDI(), true }),
	}}
}

// RumbleBundle returns GET_RUMBLE_INTERFACE.
func RumbleBundle(r ports.RumbleDriver, res Resources) Bundle {
	if r == nil || res.Thunks == nil {
		return emptyBundle
	}
	return &staticBundle{handlers: map[abi.EnvCmd]Handler{
		abi.EnvGetRumbleInterface: Query(func() (abi.RumbleInterface, bool) { return res.Thunks.Rumble(), true }),
	}}
}

// SensorBundle returns GET_SENSOR_INTERFACE.
func SensorBundle(s ports.SensorDriver, res Resources) Bundle {
	if s == nil || res.Thunks == nil {
		return emptyBundle
	}
	return &staticBundle{handlers: map[abi.EnvCmd]Handler{
		abi.EnvGetSensorInterface: Query(func() (abi.SensorInterface, bool) { return res.Thunks.Sensor(), true }),
	}}
}

// MicrophoneBundle returns GET_MICROPHONE_INTERFACE. The core states the
// interface version it was built against; any other version is refused.
func MicrophoneBundle(m ports.MicrophoneDriver, res Resources) Bundle {
	if m == nil || res.Thunks == nil {
		return emptyBundle
	}
	return &staticBundle{handlers: map[abi.EnvCmd]Handler{
		abi.EnvGetMicrophoneInterface: micVersionGuard(Query(func() (abi.MicrophoneInterface, bool) {
			return res.Thunks.Microphone(), true
		})),
	}}
}

// micVersionGuard refuses a microphone interface request for a version the
// host does not implement. It runs before the query so the payload is left
// untouched.
func micVersionGuard(next Handler) Handler {
	return func(ctx context.Context, data unsafe.Pointer) (bool, error) {
		if data != nil && (*abi.MicrophoneInterface)(data).InterfaceVersion != abi.MicrophoneInterfaceVersion {
			return false, nil
		}
		return next(ctx, data)
	}
}
