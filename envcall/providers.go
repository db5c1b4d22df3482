package envcall

import (
	"errors"
	"fmt"

	rherrors "github.com/reglet-dev/retrohost/domain/errors"
	"github.com/reglet-dev/retrohost/domain/ports"
)

// Providers is the capability provider set of one session. Every slot but
// Audio, Video and Input may be nil, which makes the commands it would
// serve unsupported.
type Providers struct {
	Audio      ports.AudioDriver
	Video      ports.VideoDriver
	Input      ports.InputDriver
	Content    ports.ContentDriver
	Options    ports.OptionDriver
	Log        ports.LogDriver
	Message    ports.MessageDriver
	Path       ports.PathDriver
	Perf       ports.PerfDriver
	Location   ports.LocationDriver
	User       ports.UserDriver
	VFS        ports.VFSDriver
	LED        ports.LEDDriver
	MIDI       ports.MIDIDriver
	Rumble     ports.RumbleDriver
	Sensor     ports.SensorDriver
	Microphone ports.MicrophoneDriver
	Power      ports.PowerDriver
	Timing     ports.TimingDriver
	AVEnable   ports.AVEnableDriver
	Disk       ports.DiskDriver
	Session    ports.SessionDriver
}

// ProviderOption configures one slot of a Providers set.
type ProviderOption func(*Providers) error

// NewProviders composes a provider set. It fails with a ConfigError when a
// required slot is missing or a provider does not fit its slot.
//
// A rumble or sensor provider that is not configured explicitly is taken
// from the input provider when it implements the interface.
func NewProviders(opts ...ProviderOption) (*Providers, error) {
	p := &Providers{}
	var errs []error
	for _, opt := range opts {
		if err := opt(p); err != nil {
			errs = append(errs, err)
		}
	}

	if p.Audio == nil {
		errs = append(errs, &rherrors.ConfigError{Field: "audio", Err: errors.New("required provider not set")})
	}
	if p.Video == nil {
		errs = append(errs, &rherrors.ConfigError{Field: "video", Err: errors.New("required provider not set")})
	}
	if p.Input == nil {
		errs = append(errs, &rherrors.ConfigError{Field: "input", Err: errors.New("required provider not set")})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if p.Rumble == nil {
		if r, ok := p.Input.(ports.RumbleDriver); ok {
			p.Rumble = r
		}
	}
	if p.Sensor == nil {
		if s, ok := p.Input.(ports.SensorDriver); ok {
			p.Sensor = s
		}
	}
	return p, nil
}

func set[T any](dst *T, v T, slot string) error {
	if any(v) == nil {
		return &rherrors.ConfigError{Field: slot, Err: errors.New("nil provider")}
	}
	*dst = v
	return nil
}

// WithAudio sets the audio provider.
func WithAudio(d ports.AudioDriver) ProviderOption {
	return func(p *Providers) error { return set(&p.Audio, d, "audio") }
}

// WithVideo sets the video provider.
func WithVideo(d ports.VideoDriver) ProviderOption {
	return func(p *Providers) error { return set(&p.Video, d, "video") }
}

// WithInput sets the input provider.
func WithInput(d ports.InputDriver) ProviderOption {
	return func(p *Providers) error { return set(&p.Input, d, "input") }
}

// WithContent sets the content provider.
func WithContent(d ports.ContentDriver) ProviderOption {
	return func(p *Providers) error { return set(&p.Content, d, "content") }
}

// WithOptions sets the options provider.
func WithOptions(d ports.OptionDriver) ProviderOption {
	return func(p *Providers) error { return set(&p.Options, d, "options") }
}

// WithLog sets the log provider.
func WithLog(d ports.LogDriver) ProviderOption {
	return func(p *Providers) error { return set(&p.Log, d, "log") }
}

// WithMessage sets the message provider.
func WithMessage(d ports.MessageDriver) ProviderOption {
	return func(p *Providers) error { return set(&p.Message, d, "message") }
}

// WithPath sets the path provider.
func WithPath(d ports.PathDriver) ProviderOption {
	return func(p *Providers) error { return set(&p.Path, d, "path") }
}

// WithPerf sets the perf provider.
func WithPerf(d ports.PerfDriver) ProviderOption {
	return func(p *Providers) error { return set(&p.Perf, d, "perf") }
}

// WithLocation sets the location provider.
func WithLocation(d ports.LocationDriver) ProviderOption {
	return func(p *Providers) error { return set(&p.Location, d, "location") }
}

// WithUser sets the user provider.
func WithUser(d ports.UserDriver) ProviderOption {
	return func(p *Providers) error { return set(&p.User, d, "user") }
}

// WithVFS sets the vfs provider.
func WithVFS(d ports.VFSDriver) ProviderOption {
	return func(p *Providers) error { return set(&p.VFS, d, "vfs") }
}

// WithLED sets the led provider.
func WithLED(d ports.LEDDriver) ProviderOption {
	return func(p *Providers) error { return set(&p.LED, d, "led") }
}

// WithMIDI sets the midi provider.
func WithMIDI(d ports.MIDIDriver) ProviderOption {
	return func(p *Providers) error { return set(&p.MIDI, d, "midi") }
}

// WithRumble sets the rumble provider.
func WithRumble(d ports.RumbleDriver) ProviderOption {
	return func(p *Providers) error { return set(&p.Rumble, d, "rumble") }
}

// WithSensor sets the sensor provider.
func WithSensor(d ports.SensorDriver) ProviderOption {
	return func(p *Providers) error { return set(&p.Sensor, d, "sensor") }
}

// WithMicrophone sets the microphone provider.
func WithMicrophone(d ports.MicrophoneDriver) ProviderOption {
	return func(p *Providers) error { return set(&p.Microphone, d, "microphone") }
}

// WithPower sets the power provider.
func WithPower(d ports.PowerDriver) ProviderOption {
	return func(p *Providers) error { return set(&p.Power, d, "power") }
}

// WithTiming sets the timing provider.
func WithTiming(d ports.TimingDriver) ProviderOption {
	return func(p *Providers) error { return set(&p.Timing, d, "timing") }
}

// WithAVEnable sets the av enable provider.
func WithAVEnable(d ports.AVEnableDriver) ProviderOption {
	return func(p *Providers) error { return set(&p.AVEnable, d, "av_enable") }
}

// WithDisk sets the disk provider.
func WithDisk(d ports.DiskDriver) ProviderOption {
	return func(p *Providers) error { return set(&p.Disk, d, "disk") }
}

// WithSession sets the session provider.
func WithSession(d ports.SessionDriver) ProviderOption {
	return func(p *Providers) error { return set(&p.Session, d, "session") }
}

// WithProvider places v into the slot named slot. It is the entry point for
// providers selected at runtime, for example from configuration, and fails
// when v does not implement the slot's interface.
func WithProvider(slot string, v any) ProviderOption {
	return func(p *Providers) error {
		assign, ok := slots[slot]
		if !ok {
			return &rherrors.ConfigError{Field: slot, Err: errors.New("unknown provider slot")}
		}
		if v == nil {
			return &rherrors.ConfigError{Field: slot, Err: errors.New("nil provider")}
		}
		if !assign(p, v) {
			return &rherrors.ConfigError{Field: slot, Err: fmt.Errorf("%T does not implement the %s provider", v, slot)}
		}
		return nil
	}
}

func slotOf[T any](field func(*Providers) *T) func(*Providers, any) bool {
	return func(p *Providers, v any) bool {
		d, ok := v.(T)
		if ok {
			*field(p) = d
		}
		return ok
	}
}

var slots = map[string]func(*Providers, any) bool{
	"audio":      slotOf(func(p *Providers) *ports.AudioDriver { return &p.Audio }),
	"video":      slotOf(func(p *Providers) *ports.VideoDriver { return &p.Video }),
	"input":      slotOf(func(p *Providers) *ports.InputDriver { return &p.Input }),
	"content":    slotOf(func(p *Providers) *ports.ContentDriver { return &p.Content }),
	"options":    slotOf(func(p *Providers) *ports.OptionDriver { return &p.Options }),
	"log":        slotOf(func(p *Providers) *ports.LogDriver { return &p.Log }),
	"message":    slotOf(func(p *Providers) *ports.MessageDriver { return &p.Message }),
	"path":       slotOf(func(p *Providers) *ports.PathDriver { return &p.Path }),
	"perf":       slotOf(func(p *Providers) *ports.PerfDriver { return &p.Perf }),
	"location":   slotOf(func(p *Providers) *ports.LocationDriver { return &p.Location }),
	"user":       slotOf(func(p *Providers) *ports.UserDriver { return &p.User }),
	"vfs":        slotOf(func(p *Providers) *ports.VFSDriver { return &p.VFS }),
	"led":        slotOf(func(p *Providers) *ports.LEDDriver { return &p.LED }),
	"midi":       slotOf(func(p *Providers) *ports.MIDIDriver { return &p.MIDI }),
	"rumble":     slotOf(func(p *Providers) *ports.RumbleDriver { return &p.Rumble }),
	"sensor":     slotOf(func(p *Providers) *ports.SensorDriver { return &p.Sensor }),
	"microphone": slotOf(func(p *Providers) *ports.MicrophoneDriver { return &p.Microphone }),
	"power":      slotOf(func(p *Providers) *ports.PowerDriver { return &p.Power }),
	"timing":     slotOf(func(p *Providers) *ports.TimingDriver { return &p.Timing }),
	"av_enable":  slotOf(func(p *Providers) *ports.AVEnableDriver { return &p.AVEnable }),
	"disk":       slotOf(func(p *Providers) *ports.DiskDriver { return &p.Disk }),
	"session":    slotOf(func(p *Providers) *ports.SessionDriver { return &p.Session }),
}
