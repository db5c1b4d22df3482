package host

import (
	"errors"
	"unsafe"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/ports"
	"github.com/reglet-dev/retrohost/envcall"
)

func cstr(s string) *byte {
	b := append([]byte(s), 0)
	return &b[0]
}

// fakeCore is a scripted core. Hooks run with the bound frontend so tests
// can issue the calls a real core would make.
type fakeCore struct {
	frontend ports.Frontend

	api     uint32
	info    abi.SystemInfo
	av      abi.SystemAVInfo
	bindErr error

	onInit func(f ports.Frontend)
	onRun  func(f ports.Frontend)

	rejectLoad bool
	loadedData []byte
	loadedNil  bool
	special    uint32

	state    []byte
	saveRAM  []byte
	invoked  []uintptr
	ports    map[uint32]uint32
	cheats   map[uint32]string
	calls    map[string]int
	closeErr error
}

func newFakeCore() *fakeCore {
	return &fakeCore{
		api: abi.APIVersion,
		info: abi.SystemInfo{
			LibraryName:     cstr("fake"),
			LibraryVersion:  cstr("1.2"),
			ValidExtensions: cstr("bin|ROM"),
		},
		av: abi.SystemAVInfo{
			Geometry: abi.GameGeometry{BaseWidth: 4, BaseHeight: 2, MaxWidth: 8, MaxHeight: 4},
			Timing:   abi.SystemTiming{FPS: 60, SampleRate: 48000},
		},
		state:  []byte("state-0"),
		ports:  map[uint32]uint32{},
		cheats: map[uint32]string{},
		calls:  map[string]int{},
	}
}

func (c *fakeCore) Bind(f ports.Frontend) error {
	c.calls["bind"]++
	if c.bindErr != nil {
		return c.bindErr
	}
	c.frontend = f
	return nil
}

func (c *fakeCore) APIVersion() uint32             { return c.api }
func (c *fakeCore) SystemInfo() abi.SystemInfo     { return c.info }
func (c *fakeCore) SystemAVInfo() abi.SystemAVInfo { return c.av }

func (c *fakeCore) Init() {
	c.calls["init"]++
	if c.onInit != nil {
		c.onInit(c.frontend)
	}
}

func (c *fakeCore) Deinit() { c.calls["deinit"]++ }
func (c *fakeCore) Reset()  { c.calls["reset"]++ }

func (c *fakeCore) Run() {
	c.calls["run"]++
	if c.onRun != nil {
		c.onRun(c.frontend)
	}
}

func (c *fakeCore) SerializeSize() uintptr { return uintptr(len(c.state)) }

func (c *fakeCore) Serialize(buf []byte) bool {
	return copy(buf, c.state) == len(c.state)
}

func (c *fakeCore) Unserialize(buf []byte) bool {
	if len(buf) != len(c.state) {
		return false
	}
	c.state = append([]byte(nil), buf...)
	return true
}

func (c *fakeCore) CheatReset() { c.cheats = map[uint32]string{} }

func (c *fakeCore) CheatSet(index uint32, enabled bool, code string) {
	if enabled {
		c.cheats[index] = code
	}
}

func (c *fakeCore) LoadGame(info *abi.GameInfo) bool {
	c.calls["load"]++
	if info == nil {
		c.loadedNil = true
	} else {
		c.loadedData = append([]byte(nil), abi.Bytes(info.Data, info.Size)...)
	}
	return !c.rejectLoad
}

func (c *fakeCore) LoadGameSpecial(gameType uint32, infos []abi.GameInfo) bool {
	c.calls["load_special"]++
	c.special = gameType
	return !c.rejectLoad
}

func (c *fakeCore) UnloadGame()    { c.calls["unload"]++ }
func (c *fakeCore) Region() uint32 { return abi.RegionNTSC }

func (c *fakeCore) MemoryData(id uint32) unsafe.Pointer {
	if id != abi.MemorySaveRAM || len(c.saveRAM) == 0 {
		return nil
	}
	return unsafe.Pointer(&c.saveRAM[0])
}

func (c *fakeCore) MemorySize(id uint32) uintptr {
	if id != abi.MemorySaveRAM {
		return 0
	}
	return uintptr(len(c.saveRAM))
}

func (c *fakeCore) SetControllerPortDevice(port, device uint32) { c.ports[port] = device }

func (c *fakeCore) Invoke(fn uintptr, args ...uintptr) uintptr {
	c.invoked = append(c.invoked, args...)
	return 0
}

func (c *fakeCore) Close() error {
	c.calls["close"]++
	return c.closeErr
}

var errBind = errors.New("bind failed")

type fakeInterfaces struct {
	attached *envcall.Providers
	attaches int
	detaches int
}

func (f *fakeInterfaces) Attach(p *envcall.Providers) {
	f.attached = p
	f.attaches++
}

func (f *fakeInterfaces) Detach() {
	f.attached = nil
	f.detaches++
}

func (f *fakeInterfaces) Log() abi.LogCallback                { return abi.LogCallback{Log: 1} }
func (f *fakeInterfaces) Perf() abi.PerfCallback              { return abi.PerfCallback{} }
func (f *fakeInterfaces) Rumble() abi.RumbleInterface         { return abi.RumbleInterface{} }
func (f *fakeInterfaces) Sensor() abi.SensorInterface         { return abi.SensorInterface{} }
func (f *fakeInterfaces) LED() abi.LEDInterface               { return abi.LEDInterface{} }
func (f *fakeInterfaces) MIDI() abi.MIDIInterface             { return abi.MIDIInterface{} }
func (f *fakeInterfaces) Location() abi.LocationCallback      { return abi.LocationCallback{} }
func (f *fakeInterfaces) Microphone() abi.MicrophoneInterface { return abi.MicrophoneInterface{} }
func (f *fakeInterfaces) VFS(uint32) unsafe.Pointer           { return nil }
