package drivers

import (
	"sync"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/entities"
	"github.com/reglet-dev/retrohost/domain/ports"
)

type softwareVideoConfig struct {
	formats  []abi.PixelFormat
	overscan bool
	canDupe  bool
}

func defaultSoftwareVideoConfig() softwareVideoConfig {
	return softwareVideoConfig{
		formats: []abi.PixelFormat{abi.PixelFormat0RGB1555, abi.PixelFormatXRGB8888, abi.PixelFormatRGB565},
		canDupe: true,
	}
}

// SoftwareVideoOption configures a SoftwareVideo.
type SoftwareVideoOption func(*softwareVideoConfig)

// WithPixelFormats restricts the pixel formats the driver accepts.
func WithPixelFormats(formats ...abi.PixelFormat) SoftwareVideoOption {
	return func(c *softwareVideoConfig) {
		c.formats = formats
	}
}

// WithOverscan answers GET_OVERSCAN with true.
func WithOverscan(enabled bool) SoftwareVideoOption {
	return func(c *softwareVideoConfig) {
		c.overscan = enabled
	}
}

// WithDupe controls the GET_CAN_DUPE answer.
func WithDupe(enabled bool) SoftwareVideoOption {
	return func(c *softwareVideoConfig) {
		c.canDupe = enabled
	}
}

// Snapshot is a packed copy of the last frame a core presented.
type Snapshot struct {
	Pixels []byte
	Width  uint32
	Height uint32
	Format abi.PixelFormat
	Serial uint64
}

// SoftwareVideo keeps a packed copy of the last software frame and tracks the
// video state a core negotiates.
type SoftwareVideo struct {
	config softwareVideoConfig

	mu       sync.Mutex
	format   abi.PixelFormat
	rotation uint32
	av       entities.AVInfo
	last     Snapshot
	frames   uint64
	dupes    uint64
}

// NewSoftwareVideo creates a SoftwareVideo. The initial pixel format is
// 0RGB1555, the libretro default.
func NewSoftwareVideo(opts ...SoftwareVideoOption) *SoftwareVideo {
	cfg := defaultSoftwareVideoConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &SoftwareVideo{config: cfg, format: abi.PixelFormat0RGB1555}
}

// Refresh copies frame row by row, dropping the pitch padding. Duplicated
// and hardware frames keep the previous snapshot.
func (v *SoftwareVideo) Refresh(frame ports.Frame) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.frames++
	if frame.Data == nil || frame.HW {
		v.dupes++
		return
	}

	row := int(frame.Width) * v.format.BytesPerPixel()
	pitch := int(frame.Pitch)
	if pitch < row {
		return
	}
	size := row * int(frame.Height)
	if cap(v.last.Pixels) < size {
		v.last.Pixels = make([]byte, size)
	}
	v.last.Pixels = v.last.Pixels[:size]
	for y := 0; y < int(frame.Height); y++ {
		src := y * pitch
		if src+row > len(frame.Data) {
			v.last.Pixels = v.last.Pixels[:y*row]
			break
		}
		copy(v.last.Pixels[y*row:], frame.Data[src:src+row])
	}
	v.last.Width = frame.Width
	v.last.Height = frame.Height
	v.last.Format = v.format
	v.last.Serial = v.frames
}

// Last returns a copy of the most recent frame.
func (v *SoftwareVideo) Last() (Snapshot, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.last.Serial == 0 {
		return Snapshot{}, false
	}
	s := v.last
	s.Pixels = append([]byte(nil), v.last.Pixels...)
	return s, true
}

// Frames returns the number of refreshes and how many of them were dupes.
func (v *SoftwareVideo) Frames() (total, dupes uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.frames, v.dupes
}

// SetPixelFormat accepts format if it is one of the configured formats.
func (v *SoftwareVideo) SetPixelFormat(format abi.PixelFormat) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, f := range v.config.formats {
		if f == format {
			v.format = format
			return true
		}
	}
	return false
}

// PixelFormat returns the negotiated pixel format.
func (v *SoftwareVideo) PixelFormat() abi.PixelFormat {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.format
}

// SetRotation accepts the four quarter turns.
func (v *SoftwareVideo) SetRotation(rotation uint32) bool {
	if rotation > 3 {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rotation = rotation
	return true
}

// Rotation returns the rotation in quarter turns counter-clockwise.
func (v *SoftwareVideo) Rotation() uint32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rotation
}

func (v *SoftwareVideo) CanDupe() bool  { return v.config.canDupe }
func (v *SoftwareVideo) Overscan() bool { return v.config.overscan }

// SetSystemAVInfo replaces geometry and timing.
func (v *SoftwareVideo) SetSystemAVInfo(info entities.AVInfo) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.av = info
	return true
}

// SetGeometry replaces the geometry only. Max dimensions keep their
// previous values, as they may not change without SET_SYSTEM_AV_INFO.
func (v *SoftwareVideo) SetGeometry(g entities.Geometry) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.av.Geometry.MaxWidth != 0 {
		if g.BaseWidth > v.av.Geometry.MaxWidth || g.BaseHeight > v.av.Geometry.MaxHeight {
			return false
		}
		g.MaxWidth, g.MaxHeight = v.av.Geometry.MaxWidth, v.av.Geometry.MaxHeight
	}
	v.av.Geometry = g
	return true
}

// AVInfo returns the current geometry and timing.
func (v *SoftwareVideo) AVInfo() entities.AVInfo {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.av
}
