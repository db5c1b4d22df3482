package envcall

import "github.com/reglet-dev/retrohost/abi"

// NullPolicy says what a nil payload means for a command.
type NullPolicy uint8

const (
	// NullForbidden commands must receive a payload; nil is a protocol
	// violation.
	NullForbidden NullPolicy = iota
	// NullProbe commands treat nil as "is this supported?". The handler
	// answers without writing anything.
	NullProbe
	// NullAllowed commands give nil a meaning of its own, such as
	// unregistering a callback.
	NullAllowed
)

func (p NullPolicy) String() string {
	switch p {
	case NullProbe:
		return "probe"
	case NullAllowed:
		return "allowed"
	default:
		return "forbidden"
	}
}

var nullPolicies = map[abi.EnvCmd]NullPolicy{
	abi.EnvShutdown:                            NullAllowed,
	abi.EnvGetInputBitmasks:                    NullAllowed,
	abi.EnvSetHWSharedContext:                  NullAllowed,
	abi.EnvSetAudioBufferStatusCallback:        NullAllowed,
	abi.EnvSetCoreOptionsUpdateDisplayCallback: NullAllowed,

	abi.EnvGetDevicePower:            NullProbe,
	abi.EnvGetSavestateContext:       NullProbe,
	abi.EnvGetThrottleState:          NullProbe,
	abi.EnvSetContentInfoOverride:    NullProbe,
	abi.EnvGetFastForwarding:         NullProbe,
	abi.EnvSetFastForwardingOverride: NullProbe,
	abi.EnvGetAudioVideoEnable:       NullProbe,
	abi.EnvGetTargetRefreshRate:      NullProbe,
	abi.EnvGetTargetSampleRate:       NullProbe,
	abi.EnvGetJITCapable:             NullProbe,
	abi.EnvGetLEDInterface:           NullProbe,
	abi.EnvGetMIDIInterface:          NullProbe,
	abi.EnvGetMicrophoneInterface:    NullProbe,
	abi.EnvSetVariable:               NullProbe,
}

// PayloadPolicy returns the null payload policy of cmd. Commands outside the
// table forbid a nil payload.
func PayloadPolicy(cmd abi.EnvCmd) NullPolicy {
	return nullPolicies[cmd]
}
