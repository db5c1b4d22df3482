package envcall

import (
	"github.com/reglet-dev/retrohost/abi"
)

// Bundle is a pre-configured set of related environment command handlers.
type Bundle interface {
	// Handlers returns the handlers keyed by command.
	Handlers() map[abi.EnvCmd]Handler
}

// staticBundle implements Bundle with a fixed set of handlers.
type staticBundle struct {
	handlers map[abi.EnvCmd]Handler
}

func (b *staticBundle) Handlers() map[abi.EnvCmd]Handler {
	return b.handlers
}

// emptyBundle is the bundle of an absent provider.
var emptyBundle Bundle = &staticBundle{handlers: map[abi.EnvCmd]Handler{}}

// compositeBundle combines multiple bundles into one. Bundles never share a
// command, so merge order does not matter.
type compositeBundle struct {
	bundles []Bundle
}

func (b *compositeBundle) Handlers() map[abi.EnvCmd]Handler {
	result := make(map[abi.EnvCmd]Handler)
	for _, bundle := range b.bundles {
		for cmd, h := range bundle.Handlers() {
			result[cmd] = h
		}
	}
	return result
}

// Combine merges bundles into one.
func Combine(bundles ...Bundle) Bundle {
	return &compositeBundle{bundles: bundles}
}

// StandardBundles returns the bundles of every configured provider in p.
// Commands whose provider is absent are left out and therefore unsupported.
func StandardBundles(p *Providers, res Resources) Bundle {
	return Combine(
		AudioBundle(p.Audio),
		VideoBundle(p.Video),
		InputBundle(p.Input, res),
		ContentBundle(p.Content, res),
		OptionsBundle(p.Options, res),
		LogBundle(p.Log, res),
		MessageBundle(p.Message),
		PathBundle(p.Path, res),
		PerfBundle(p.Perf, res),
		LocationBundle(p.Location, res),
		UserBundle(p.User, res),
		VFSBundle(p.VFS, res),
		LEDBundle(p.LED, res),
		MIDIBundle(p.MIDI, res),
		RumbleBundle(p.Rumble, res),
		SensorBundle(p.Sensor, res),
		MicrophoneBundle(p.Microphone, res),
		PowerBundle(p.Power),
		TimingBundle(p.Timing),
		AVEnableBundle(p.AVEnable),
		DiskBundle(p.Disk),
		SessionBundle(p.Session),
	)
}
