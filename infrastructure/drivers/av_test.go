package drivers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/entities"
	"github.com/reglet-dev/retrohost/domain/ports"
)

func TestBufferAudio_Capacity(t *testing.T) {
	a := NewBufferAudio(WithCapacity(6))

	a.Sample(1, 2)
	assert.Equal(t, 3, a.SampleBatch([]int16{3, 4, 5, 6, 7, 8}))
	assert.Equal(t, 6, a.Buffered())
	assert.Equal(t, 1, a.Dropped())

	a.Sample(9, 9)
	assert.Equal(t, 2, a.Dropped())

	assert.Equal(t, []int16{1, 2, 3, 4, 5, 6}, a.Drain())
	assert.Zero(t, a.Buffered())
}

func TestBufferAudio_Negotiation(t *testing.T) {
	a := NewBufferAudio()
	_, ok := a.TargetSampleRate()
	assert.False(t, ok)

	a = NewBufferAudio(WithTargetSampleRate(48000))
	rate, ok := a.TargetSampleRate()
	assert.True(t, ok)
	assert.Equal(t, uint32(48000), rate)

	assert.True(t, a.SetMinimumLatency(64))
	assert.Equal(t, uint32(64), a.MinimumLatency())

	_, ok = a.AudioCallback()
	assert.False(t, ok)
	assert.True(t, a.SetAudioCallback(abi.AudioCallback{Callback: 0x10, SetState: 0x20}))
	cb, ok := a.AudioCallback()
	assert.True(t, ok)
	assert.Equal(t, uintptr(0x20), cb.SetState)
}

func TestSoftwareVideo_RefreshPacksRows(t *testing.T) {
	v := NewSoftwareVideo()
	require.True(t, v.SetPixelFormat(abi.PixelFormatRGB565))

	// 2x2 RGB565 frame with 2 bytes of padding per row.
	data := []byte{
		1, 2, 3, 4, 0xEE, 0xEE,
		5, 6, 7, 8, 0xEE, 0xEE,
	}
	v.Refresh(ports.Frame{Data: data, Width: 2, Height: 2, Pitch: 6})

	snap, ok := v.Last()
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, snap.Pixels)
	assert.Equal(t, abi.PixelFormatRGB565, snap.Format)
	assert.Equal(t, uint32(2), snap.Width)

	v.Refresh(ports.Frame{Width: 2, Height: 2, Pitch: 6})
	total, dupes := v.Frames()
	assert.Equal(t, uint64(2), total)
	assert.Equal(t, uint64(1), dupes)

	again, _ := v.Last()
	assert.Equal(t, snap.Pixels, again.Pixels, "a dupe keeps the previous frame")
}

func TestSoftwareVideo_NoFrameYet(t *testing.T) {
	_, ok := NewSoftwareVideo().Last()
	assert.False(t, ok)
}

func TestSoftwareVideo_Negotiation(t *testing.T) {
	v := NewSoftwareVideo(WithPixelFormats(abi.PixelFormatXRGB8888), WithDupe(false))

	assert.False(t, v.SetPixelFormat(abi.PixelFormatRGB565))
	assert.Equal(t, abi.PixelFormat0RGB1555, v.PixelFormat())
	assert.True(t, v.SetPixelFormat(abi.PixelFormatXRGB8888))
	assert.False(t, v.CanDupe())

	assert.True(t, v.SetRotation(3))
	assert.False(t, v.SetRotation(4))
	assert.Equal(t, uint32(3), v.Rotation())
}

func TestSoftwareVideo_Geometry(t *testing.T) {
	v := NewSoftwareVideo()
	require.True(t, v.SetSystemAVInfo(entities.AVInfo{
		Geometry: entities.Geometry{BaseWidth: 256, BaseHeight: 224, MaxWidth: 512, MaxHeight: 448},
		Timing:   entities.Timing{FPS: 60, SampleRate: 32000},
	}))

	assert.True(t, v.SetGeometry(entities.Geometry{BaseWidth: 512, BaseHeight: 448, AspectRatio: 4.0 / 3}))
	g := v.AVInfo().Geometry
	assert.Equal(t, uint32(512), g.MaxWidth, "max dimensions are kept")
	assert.Equal(t, uint32(448), g.BaseHeight)

	assert.False(t, v.SetGeometry(entities.Geometry{BaseWidth: 1024, BaseHeight: 448}))
	assert.InDelta(t, 60.0, v.AVInfo().Timing.FPS, 0)
}

func TestStateInput_PollAndState(t *testing.T) {
	pressed := map[InputKey]int16{
		{Port: 0, Device: abi.DeviceJoypad, ID: 0}: 1,
		{Port: 0, Device: abi.DeviceJoypad, ID: 8}: 1,
		{Port: 1, Device: abi.DeviceAnalog, ID: 1}: -1200,
	}
	in := NewStateInput(WithInputSource(func(set func(InputKey, int16)) {
		for k, v := range pressed {
			set(k, v)
		}
	}))

	assert.Zero(t, in.State(0, abi.DeviceJoypad, 0, 0), "nothing before the first poll")
	in.Poll()
	assert.Equal(t, uint64(1), in.Polls())

	assert.Equal(t, int16(1), in.State(0, abi.DeviceJoypad, 0, 0))
	assert.Equal(t, int16(-1200), in.State(1, abi.DeviceAnalog, 0, 1))
	assert.Equal(t, int16(1<<0|1<<8), in.State(0, abi.DeviceJoypad, 0, abi.DeviceIDJoypadMask))

	// Subclassed devices read their base class.
	sub := abi.DeviceJoypad | 1<<abi.DeviceTypeShift
	assert.Equal(t, int16(1), in.State(0, sub, 0, 0))
}

func TestStateInput_Descriptors(t *testing.T) {
	in := NewStateInput(WithMaxUsers(4))
	assert.Equal(t, uint32(4), in.MaxUsers())
	assert.True(t, in.SupportsBitmasks())

	descs := []entities.InputDescriptor{{Port: 0, Device: abi.DeviceJoypad, ID: 0, Description: "B"}}
	assert.True(t, in.SetInputDescriptors(descs))
	assert.Equal(t, descs, in.Descriptors())

	assert.True(t, in.SetKeyboardCallback(0x99))
	assert.Equal(t, uintptr(0x99), in.KeyboardCallback())
}
