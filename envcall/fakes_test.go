package envcall

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/entities"
	"github.com/reglet-dev/retrohost/domain/ports"
)

type fakeAudio struct {
	latency   uint32
	rate      uint32
	bufferCB  uintptr
	bufferSet bool
}

func (a *fakeAudio) Sample(int16, int16)       {}
func (a *fakeAudio) SampleBatch(s []int16) int { return len(s) / 2 }
func (a *fakeAudio) SetMinimumLatency(ms uint32) bool {
	a.latency = ms
	return true
}
func (a *fakeAudio) TargetSampleRate() (uint32, bool) { return a.rate, a.rate != 0 }
func (a *fakeAudio) SetBufferStatusCallback(cb uintptr) bool {
	a.bufferCB = cb
	a.bufferSet = true
	return true
}

type fakeVideo struct {
	format   abi.PixelFormat
	rotation uint32
	geometry entities.Geometry
	refuse   bool
}

func (v *fakeVideo) Refresh(ports.Frame) {}
func (v *fakeVideo) SetPixelFormat(f abi.PixelFormat) bool {
	if v.refuse {
		return false
	}
	v.format = f
	return true
}
func (v *fakeVideo) SetRotation(r uint32) bool {
	v.rotation = r
	return true
}
func (v *fakeVideo) CanDupe() bool                        { return true }
func (v *fakeVideo) SetSystemAVInfo(entities.AVInfo) bool { return true }
func (v *fakeVideo) SetGeometry(g entities.Geometry) bool {
	v.geometry = g
	return true
}

type fakeInput struct {
	rumbles int
}

func (in *fakeInput) Poll()                         {}
func (in *fakeInput) State(_, _, _, _ uint32) int16 { return 0 }
func (in *fakeInput) SetRumbleState(_, _ uint32, _ uint16) bool {
	in.rumbles++
	return true
}

type fakePower struct {
	calls int
}

func (p *fakePower) DevicePower() entities.DevicePower {
	p.calls++
	return entities.DevicePower{State: int32(abi.PowerStateCharging), Seconds: 600, Percent: 42}
}

// fakeOptions is an option store over a map.
type fakeOptions struct {
	version uint32
	defs    []entities.OptionDefinition
	cats    []entities.OptionCategory
	values  map[string]string
	updated bool
	visible map[string]bool
}

func newFakeOptions(version uint32) *fakeOptions {
	return &fakeOptions{version: version, values: map[string]string{}, visible: map[string]bool{}}
}

func (o *fakeOptions) Version() uint32 { return o.version }
func (o *fakeOptions) Variable(key string) (string, bool) {
	v, ok := o.values[key]
	return v, ok
}
func (o *fakeOptions) SetDefinitions(defs []entities.OptionDefinition, cats []entities.OptionCategory) error {
	o.defs, o.cats = defs, cats
	for _, d := range defs {
		o.values[d.Key] = d.DefaultValue()
	}
	return nil
}
func (o *fakeOptions) Updated() bool {
	u := o.updated
	o.updated = false
	return u
}
func (o *fakeOptions) SetVariable(key, value string) bool {
	if _, ok := o.values[key]; !ok {
		return false
	}
	o.values[key] = value
	o.updated = true
	return true
}
func (o *fakeOptions) SetVisible(key string, visible bool) bool {
	o.visible[key] = visible
	return true
}
func (o *fakeOptions) SetUpdateDisplayCallback(uintptr) bool { return true }

type fakePaths struct {
	system string
}

func (p fakePaths) SystemDir() string           { return p.system }
func (p fakePaths) SaveDir() string             { return "" }
func (p fakePaths) CoreAssetsDir() string       { return "" }
func (p fakePaths) PlaylistDir() string         { return "" }
func (p fakePaths) FileBrowserStartDir() string { return "" }
func (p fakePaths) LibretroPath() string        { return "/cores/test.so" }

type fakeVFS struct {
	ports.VFSDriver
	version uint32
}

func (v fakeVFS) Version() uint32 { return v.version }

var vfsTable abi.VFSInterface

// fakeThunks hands out tables of recognizable, non-callable values.
type fakeThunks struct{}

func (fakeThunks) Log() abi.LogCallback           { return abi.LogCallback{Log: 0x1001} }
func (fakeThunks) Perf() abi.PerfCallback         { return abi.PerfCallback{GetTimeUsec: 0x2001} }
func (fakeThunks) Rumble() abi.RumbleInterface    { return abi.RumbleInterface{SetRumbleState: 0x3001} }
func (fakeThunks) Sensor() abi.SensorInterface    { return abi.SensorInterface{SetSensorState: 0x4001} }
func (fakeThunks) LED() abi.LEDInterface          { return abi.LEDInterface{SetLEDState: 0x5001} }
func (fakeThunks) MIDI() abi.MIDIInterface        { return abi.MIDIInterface{InputEnabled: 0x6001} }
func (fakeThunks) Location() abi.LocationCallback { return abi.LocationCallback{Start: 0x7001, Stop: 0x7002} }
func (fakeThunks) Microphone() abi.MicrophoneInterface {
	return abi.MicrophoneInterface{InterfaceVersion: abi.MicrophoneInterfaceVersion, OpenMic: 0x8001}
}
func (fakeThunks) VFS(uint32) unsafe.Pointer { return unsafe.Pointer(&vfsTable) }

func baseProviders(t *testing.T, opts ...ProviderOption) *Providers {
	t.Helper()
	all := append([]ProviderOption{
		WithAudio(&fakeAudio{}),
		WithVideo(&fakeVideo{}),
		WithInput(&fakeInput{}),
	}, opts...)
	p, err := NewProviders(all...)
	require.NoError(t, err)
	return p
}

func newTestDispatcher(t *testing.T, p *Providers, mw ...Middleware) (*Dispatcher, *abi.Arena) {
	t.Helper()
	arena := abi.NewArena()
	t.Cleanup(arena.Release)
	reg, err := NewRegistry(
		WithMiddleware(mw...),
		WithBundle(StandardBundles(p, Resources{Arena: arena, Thunks: fakeThunks{}})),
	)
	require.NoError(t, err)
	return NewDispatcher(reg), arena
}

func cstr(t *testing.T, a *abi.Arena, s string) *byte {
	t.Helper()
	p, err := a.CString(s)
	require.NoError(t, err)
	return p
}

type fakeSession struct {
	shutdown bool
	level    uint32
	maps     []entities.MemoryDescriptor
	quirks   uint64
}

func (s *fakeSession) Shutdown()                                   { s.shutdown = true }
func (s *fakeSession) SetPerformanceLevel(level uint32)            { s.level = level }
func (s *fakeSession) SetProcAddressCallback(uintptr)              {}
func (s *fakeSession) SetMemoryMaps(d []entities.MemoryDescriptor) { s.maps = d }
func (s *fakeSession) SetSupportAchievements(bool)                 {}
func (s *fakeSession) SetSerializationQuirks(q uint64) uint64 {
	s.quirks = q
	return q & 0x3
}
func (s *fakeSession) SavestateContext() abi.SavestateContext { return abi.SavestateContextNormal }
func (s *fakeSession) JITCapable() bool                       { return false }
