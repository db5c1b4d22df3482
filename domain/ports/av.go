package ports

import (
	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/entities"
)

// AudioDriver receives the samples a core produces.
type AudioDriver interface {
	// Sample receives one stereo frame.
	Sample(left, right int16)
	// SampleBatch receives interleaved stereo frames and returns how many
	// frames it consumed.
	SampleBatch(samples []int16) int
}

// AudioCallbackSetter accepts SET_AUDIO_CALLBACK.
type AudioCallbackSetter interface {
	SetAudioCallback(cb abi.AudioCallback) bool
}

// AudioBufferStatusSetter accepts SET_AUDIO_BUFFER_STATUS_CALLBACK.
// A zero callback unregisters.
type AudioBufferStatusSetter interface {
	SetBufferStatusCallback(callback uintptr) bool
}

// AudioLatencySetter accepts SET_MINIMUM_AUDIO_LATENCY.
type AudioLatencySetter interface {
	SetMinimumLatency(ms uint32) bool
}

// AudioSampleRater answers GET_TARGET_SAMPLE_RATE.
type AudioSampleRater interface {
	TargetSampleRate() (uint32, bool)
}

// Frame is one video frame as handed to retro_video_refresh_t. Data is nil
// for a duplicated frame; HW is set when the frame lives on the GPU.
type Frame struct {
	Data   []byte
	Width  uint32
	Height uint32
	Pitch  uintptr
	HW     bool
}

// VideoDriver receives frames and answers the video negotiation commands.
type VideoDriver interface {
	Refresh(frame Frame)
	SetPixelFormat(format abi.PixelFormat) bool
	SetRotation(rotation uint32) bool
	CanDupe() bool
	SetSystemAVInfo(info entities.AVInfo) bool
	SetGeometry(geometry entities.Geometry) bool
}

// OverscanReporter answers the deprecated GET_OVERSCAN.
type OverscanReporter interface {
	Overscan() bool
}

// SoftwareFramebufferProvider answers GET_CURRENT_SOFTWARE_FRAMEBUFFER. The
// request carries the core's width, height and access flags; the driver
// fills data, pitch, format and memory flags.
type SoftwareFramebufferProvider interface {
	SoftwareFramebuffer(req abi.Framebuffer) (abi.Framebuffer, bool)
}

// HWRenderer accepts hardware rendering negotiation.
type HWRenderer interface {
	SetHWRender(cb *abi.HWRenderCallback) bool
	PreferredHWContext() (abi.HWContextType, bool)
	SetHWSharedContext() bool
}

// InputDriver answers the polling input callbacks.
type InputDriver interface {
	Poll()
	State(port, device, index, id uint32) int16
}

// InputDescriptorSetter accepts SET_INPUT_DESCRIPTORS.
type InputDescriptorSetter interface {
	SetInputDescriptors(descs []entities.InputDescriptor) bool
}

// KeyboardCallbackSetter accepts SET_KEYBOARD_CALLBACK.
type KeyboardCallbackSetter interface {
	SetKeyboardCallback(callback uintptr) bool
}

// DeviceCapabilityReporter answers GET_INPUT_DEVICE_CAPABILITIES.
type DeviceCapabilityReporter interface {
	DeviceCapabilities() uint64
}

// MaxUsersReporter answers GET_INPUT_MAX_USERS.
type MaxUsersReporter interface {
	MaxUsers() uint32
}

// ControllerInfoSetter accepts SET_CONTROLLER_INFO.
type ControllerInfoSetter interface {
	SetControllerInfo(ports []entities.ControllerInfo) bool
}

// BitmaskReporter answers GET_INPUT_BITMASKS.
type BitmaskReporter interface {
	SupportsBitmasks() bool
}

// RumbleDriver drives force feedback. It may be attached to an input driver.
type RumbleDriver interface {
	SetRumbleState(port, effect uint32, strength uint16) bool
}

// SensorDriver drives motion and light sensors. It may be attached to an
// input driver.
type SensorDriver interface {
	SetSensorState(port, action, rate uint32) bool
	SensorInput(port, id uint32) float32
}

// Microphone is one open microphone handle.
type Microphone interface {
	Params() abi.MicrophoneParams
	SetActive(active bool) bool
	Active() bool
	// Read fills samples and returns how many were written, or -1.
	Read(samples []int16) int
	Close()
}

// MicrophoneDriver opens microphones for GET_MICROPHONE_INTERFACE.
type MicrophoneDriver interface {
	Open(params *abi.MicrophoneParams) (Microphone, bool)
}
