package native

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/ports"
	"github.com/reglet-dev/retrohost/envcall"
)

var _ envcall.Thunks = (*Thunks)(nil)

// hostTableSet holds every interface table handed to cores.
type hostTableSet struct {
	log      abi.LogCallback
	perf     abi.PerfCallback
	rumble   abi.RumbleInterface
	sensor   abi.SensorInterface
	led      abi.LEDInterface
	midi     abi.MIDIInterface
	location abi.LocationCallback
	mic      abi.MicrophoneInterface
	vfs      abi.VFSInterface
}

// hostState is what the interface callbacks forward to.
type hostState struct {
	providers *envcall.Providers
	logger    *slog.Logger
	vfs       *vfsHost
	mics      *micHost
}

var (
	hostCurrent atomic.Pointer[hostState]

	tablesOnce sync.Once
	tables     hostTableSet
)

// Thunks hands the environment dispatcher the host interface tables. The
// tables are process-wide; Attach selects the providers they serve.
type Thunks struct {
	logger *slog.Logger
}

// NewThunks creates a Thunks. Failures inside callbacks are logged to
// logger, or slog.Default() if nil.
func NewThunks(logger *slog.Logger) *Thunks {
	if logger == nil {
		logger = slog.Default()
	}
	return &Thunks{logger: logger}
}

// Attach routes every interface callback to p, replacing any previously
// attached providers. A sensor provider is dropped where callbacks cannot
// return floating point values.
func (t *Thunks) Attach(p *envcall.Providers) {
	if !floatCallbacks {
		p.Sensor = nil
	}
	st := &hostState{providers: p, logger: t.logger}
	if p.VFS != nil {
		st.vfs = newVFSHost(p.VFS)
	}
	if p.Microphone != nil {
		st.mics = newMicHost(p.Microphone)
	}
	t.closeHandles(hostCurrent.Swap(st))
}

// Detach stops forwarding and closes every VFS file, directory and
// microphone the core left open.
func (t *Thunks) Detach() {
	t.closeHandles(hostCurrent.Swap(nil))
}

func (t *Thunks) closeHandles(st *hostState) {
	if st == nil {
		return
	}
	var leaked int
	if st.vfs != nil {
		leaked += st.vfs.closeAll()
	}
	if st.mics != nil {
		leaked += st.mics.closeAll()
	}
	if leaked > 0 {
		t.logger.Warn("core left handles open", "count", leaked)
	}
}

func (t *Thunks) Log() abi.LogCallback                { return hostTables().log }
func (t *Thunks) Perf() abi.PerfCallback              { return hostTables().perf }
func (t *Thunks) Rumble() abi.RumbleInterface         { return hostTables().rumble }
func (t *Thunks) Sensor() abi.SensorInterface         { return hostTables().sensor }
func (t *Thunks) LED() abi.LEDInterface               { return hostTables().led }
func (t *Thunks) MIDI() abi.MIDIInterface             { return hostTables().midi }
func (t *Thunks) Location() abi.LocationCallback      { return hostTables().location }
func (t *Thunks) Microphone() abi.MicrophoneInterface { return hostTables().mic }

// VFS returns the process-wide VFS table, which is valid for every version
// up to abi.VFSInterfaceVersion since later versions only append entries.
func (t *Thunks) VFS(version uint32) unsafe.Pointer {
	if version == 0 || version > abi.VFSInterfaceVersion {
		return nil
	}
	return unsafe.Pointer(&hostTables().vfs)
}

func hostTables() *hostTableSet {
	tablesOnce.Do(buildTables)
	return &tables
}

func buildTables() {
	cb := purego.NewCallback
	tables.log = abi.LogCallback{Log: cb(logThunk)}
	tables.perf = abi.PerfCallback{
		GetTimeUsec:    cb(perfTimeThunk),
		GetCPUFeatures: cb(perfFeaturesThunk),
		GetPerfCounter: cb(perfCounterThunk),
		PerfRegister:   cb(perfRegisterThunk),
		PerfStart:      cb(perfStartThunk),
		PerfStop:       cb(perfStopThunk),
		PerfLog:        cb(perfLogThunk),
	}
	tables.rumble = abi.RumbleInterface{SetRumbleState: cb(rumbleThunk)}
	tables.sensor = abi.SensorInterface{SetSensorState: cb(sensorStateThunk)}
	if floatCallbacks {
		tables.sensor.GetSensorInput = cb(sensorInputThunk)
	}
	tables.led = abi.LEDInterface{SetLEDState: cb(ledThunk)}
	tables.midi = abi.MIDIInterface{
		InputEnabled:  cb(midiInputEnabledThunk),
		OutputEnabled: cb(midiOutputEnabledThunk),
		Read:          cb(midiReadThunk),
		Write:         cb(midiWriteThunk),
		Flush:         cb(midiFlushThunk),
	}
	tables.location = abi.LocationCallback{
		Start:       cb(locationStartThunk),
		Stop:        cb(locationStopThunk),
		GetPosition: cb(locationPositionThunk),
		SetInterval: cb(locationIntervalThunk),
	}
	tables.mic = abi.MicrophoneInterface{
		InterfaceVersion: abi.MicrophoneInterfaceVersion,
		OpenMic:          cb(micOpenThunk),
		CloseMic:         cb(micCloseThunk),
		GetParams:        cb(micParamsThunk),
		SetMicState:      cb(micSetStateThunk),
		GetMicState:      cb(micStateThunk),
		ReadMic:          cb(micReadThunk),
	}
	tables.vfs = abi.VFSInterface{
		GetPath:       cb(vfsGetPathThunk),
		Open:          cb(vfsOpenThunk),
		Close:         cb(vfsCloseThunk),
		Size:          cb(vfsSizeThunk),
		Tell:          cb(vfsTellThunk),
		Seek:          cb(vfsSeekThunk),
		Read:          cb(vfsReadThunk),
		Write:         cb(vfsWriteThunk),
		Flush:         cb(vfsFlushThunk),
		Remove:        cb(vfsRemoveThunk),
		Rename:        cb(vfsRenameThunk),
		Truncate:      cb(vfsTruncateThunk),
		Stat:          cb(vfsStatThunk),
		Mkdir:         cb(vfsMkdirThunk),
		Opendir:       cb(vfsOpendirThunk),
		Readdir:       cb(vfsReaddirThunk),
		DirentGetName: cb(vfsDirentNameThunk),
		DirentIsDir:   cb(vfsDirentIsDirThunk),
		Closedir:      cb(vfsClosedirThunk),
	}
}

func host() *hostState { return hostCurrent.Load() }

// logThunk is retro_log_printf_t. Variadic arguments are read from the
// integer argument registers and stack slots that follow the format.
func logThunk(level, format, a0, a1, a2, a3, a4, a5, a6, a7 uintptr) uintptr {
	st := host()
	if st == nil || st.providers.Log == nil || format == 0 {
		return 0
	}
	msg := formatC(goString(format), argList(a0, a1, a2, a3, a4, a5, a6, a7), goString)
	st.providers.Log.Log(abi.LogLevel(int32(level)), msg)
	return 0
}

func perfTimeThunk() uintptr {
	if st := host(); st != nil && st.providers.Perf != nil {
		return uintptr(st.providers.Perf.TimeUsec())
	}
	return 0
}

func perfFeaturesThunk() uintptr {
	if st := host(); st != nil && st.providers.Perf != nil {
		return uintptr(st.providers.Perf.CPUFeatures())
	}
	return 0
}

func perfCounterThunk() uintptr {
	if st := host(); st != nil && st.providers.Perf != nil {
		return uintptr(st.providers.Perf.Counter())
	}
	return 0
}

func perfCounterCall(counter uintptr, fn func(d ports.PerfDriver, c *abi.PerfCounter)) uintptr {
	if st := host(); st != nil && st.providers.Perf != nil && counter != 0 {
		fn(st.providers.Perf, (*abi.PerfCounter)(pointer(counter)))
	}
	return 0
}

func perfRegisterThunk(counter uintptr) uintptr {
	return perfCounterCall(counter, ports.PerfDriver.Register)
}

func perfStartThunk(counter uintptr) uintptr {
	return perfCounterCall(counter, ports.PerfDriver.Start)
}

func perfStopThunk(counter uintptr) uintptr {
	return perfCounterCall(counter, ports.PerfDriver.Stop)
}

func perfLogThunk() uintptr {
	if st := host(); st != nil && st.providers.Perf != nil {
		st.providers.Perf.Log()
	}
	return 0
}

func rumbleThunk(port, effect, strength uintptr) uintptr {
	st := host()
	if st == nil || st.providers.Rumble == nil {
		return 0
	}
	return boolResult(st.providers.Rumble.SetRumbleState(uint32(port), uint32(effect), uint16(strength)))
}

func sensorStateThunk(port, action, rate uintptr) uintptr {
	st := host()
	if st == nil || st.providers.Sensor == nil {
		return 0
	}
	return boolResult(st.providers.Sensor.SetSensorState(uint32(port), uint32(action), uint32(rate)))
}

func sensorInputThunk(port, id uintptr) float32 {
	st := host()
	if st == nil || st.providers.Sensor == nil {
		return 0
	}
	return st.providers.Sensor.SensorInput(uint32(port), uint32(id))
}

func ledThunk(led, state uintptr) uintptr {
	if st := host(); st != nil && st.providers.LED != nil {
		st.providers.LED.SetLEDState(int32(led), int32(state))
	}
	return 0
}

func midiInputEnabledThunk() uintptr {
	st := host()
	return boolResult(st != nil && st.providers.MIDI != nil && st.providers.MIDI.InputEnabled())
}

func midiOutputEnabledThunk() uintptr {
	st := host()
	return boolResult(st != nil && st.providers.MIDI != nil && st.providers.MIDI.OutputEnabled())
}

func midiReadThunk(out uintptr) uintptr {
	st := host()
	if st == nil || st.providers.MIDI == nil || out == 0 {
		return 0
	}
	b, ok := st.providers.MIDI.Read()
	if ok {
		*(*byte)(pointer(out)) = b
	}
	return boolResult(ok)
}

func midiWriteThunk(b, deltaTime uintptr) uintptr {
	st := host()
	if st == nil || st.providers.MIDI == nil {
		return 0
	}
	return boolResult(st.providers.MIDI.Write(byte(b), uint32(deltaTime)))
}

func midiFlushThunk() uintptr {
	st := host()
	return boolResult(st != nil && st.providers.MIDI != nil && st.providers.MIDI.Flush())
}

func locationStartThunk() uintptr {
	st := host()
	return boolResult(st != nil && st.providers.Location != nil && st.providers.Location.Start())
}

func locationStopThunk() uintptr {
	if st := host(); st != nil && st.providers.Location != nil {
		st.providers.Location.Stop()
	}
	return 0
}

func locationPositionThunk(lat, lon, horiz, vert uintptr) uintptr {
	st := host()
	if st == nil || st.providers.Location == nil {
		return 0
	}
	pos, ok := st.providers.Location.Position()
	if !ok {
		return 0
	}
	for _, out := range []struct {
		addr uintptr
		v    float64
	}{{lat, pos.Lat}, {lon, pos.Lon}, {horiz, pos.HorizAccuracy}, {vert, pos.VertAccuracy}} {
		if out.addr != 0 {
			*(*float64)(pointer(out.addr)) = out.v
		}
	}
	return 1
}

func locationIntervalThunk(intervalMs, intervalDistance uintptr) uintptr {
	if st := host(); st != nil && st.providers.Location != nil {
		st.providers.Location.SetInterval(uint32(intervalMs), uint32(intervalDistance))
	}
	return 0
}

func micOpenThunk(params uintptr) uintptr {
	st := host()
	if st == nil || st.mics == nil {
		return 0
	}
	return st.mics.open((*abi.MicrophoneParams)(pointer(params)))
}

func micCloseThunk(h uintptr) uintptr {
	if st := host(); st != nil && st.mics != nil {
		st.mics.close(h)
	}
	return 0
}

func micParamsThunk(h, out uintptr) uintptr {
	st := host()
	return boolResult(st != nil && st.mics != nil && st.mics.params(h, (*abi.MicrophoneParams)(pointer(out))))
}

func micSetStateThunk(h, active uintptr) uintptr {
	st := host()
	return boolResult(st != nil && st.mics != nil && st.mics.setState(h, byte(active) != 0))
}

func micStateThunk(h uintptr) uintptr {
	st := host()
	return boolResult(st != nil && st.mics != nil && st.mics.state(h))
}

func micReadThunk(h, samples, n uintptr) uintptr {
	st := host()
	if st == nil || st.mics == nil {
		return negative
	}
	if n == 0 || samples == 0 {
		return 0
	}
	buf := unsafe.Slice((*int16)(pointer(samples)), n)
	return uintptr(int64(st.mics.read(h, buf)))
}

// negative is -1 as a return register value.
const negative = ^uintptr(0)

func vfs() *vfsHost {
	if st := host(); st != nil {
		return st.vfs
	}
	return nil
}

func vfsGetPathThunk(h uintptr) uintptr {
	if v := vfs(); v != nil {
		return uintptr(unsafe.Pointer(v.getPath(h)))
	}
	return 0
}

func vfsOpenThunk(path, mode, hints uintptr) uintptr {
	v := vfs()
	if v == nil || path == 0 {
		return 0
	}
	return v.open(goString(path), uint32(mode), uint32(hints))
}

func vfsCloseThunk(h uintptr) uintptr {
	if v := vfs(); v != nil {
		return uintptr(int64(v.close(h)))
	}
	return negative
}

func vfsSizeThunk(h uintptr) uintptr {
	if v := vfs(); v != nil {
		return uintptr(v.size(h))
	}
	return negative
}

func vfsTellThunk(h uintptr) uintptr {
	if v := vfs(); v != nil {
		return uintptr(v.tell(h))
	}
	return negative
}

func vfsSeekThunk(h, offset, whence uintptr) uintptr {
	if v := vfs(); v != nil {
		return uintptr(v.seek(h, int64(offset), int(int32(whence))))
	}
	return negative
}

func vfsReadThunk(h, buf, n uintptr) uintptr {
	v := vfs()
	if v == nil {
		return negative
	}
	if n == 0 || buf == 0 {
		return 0
	}
	return uintptr(v.read(h, unsafe.Slice((*byte)(pointer(buf)), n)))
}

func vfsWriteThunk(h, buf, n uintptr) uintptr {
	v := vfs()
	if v == nil {
		return negative
	}
	if n == 0 || buf == 0 {
		return 0
	}
	return uintptr(v.write(h, unsafe.Slice((*byte)(pointer(buf)), n)))
}

func vfsFlushThunk(h uintptr) uintptr {
	if v := vfs(); v != nil {
		return uintptr(int64(v.flush(h)))
	}
	return negative
}

func vfsRemoveThunk(path uintptr) uintptr {
	if v := vfs(); v != nil && path != 0 {
		return uintptr(int64(v.remove(goString(path))))
	}
	return negative
}

func vfsRenameThunk(oldPath, newPath uintptr) uintptr {
	if v := vfs(); v != nil && oldPath != 0 && newPath != 0 {
		return uintptr(int64(v.rename(goString(oldPath), goString(newPath))))
	}
	return negative
}

func vfsTruncateThunk(h, length uintptr) uintptr {
	if v := vfs(); v != nil {
		return uintptr(v.truncate(h, int64(length)))
	}
	return negative
}

func vfsStatThunk(path, size uintptr) uintptr {
	v := vfs()
	if v == nil || path == 0 {
		return 0
	}
	flags, n := v.stat(goString(path))
	if size != 0 {
		*(*int32)(pointer(size)) = n
	}
	return uintptr(uint32(flags))
}

func vfsMkdirThunk(path uintptr) uintptr {
	if v := vfs(); v != nil && path != 0 {
		return uintptr(int64(v.mkdir(goString(path))))
	}
	return negative
}

func vfsOpendirThunk(path, includeHidden uintptr) uintptr {
	v := vfs()
	if v == nil || path == 0 {
		return 0
	}
	return v.opendir(goString(path), byte(includeHidden) != 0)
}

func vfsReaddirThunk(h uintptr) uintptr {
	v := vfs()
	return boolResult(v != nil && v.readdir(h))
}

func vfsDirentNameThunk(h uintptr) uintptr {
	if v := vfs(); v != nil {
		return uintptr(unsafe.Pointer(v.direntName(h)))
	}
	return 0
}

func vfsDirentIsDirThunk(h uintptr) uintptr {
	v := vfs()
	return boolResult(v != nil && v.direntIsDir(h))
}

func vfsClosedirThunk(h uintptr) uintptr {
	if v := vfs(); v != nil {
		return uintptr(int64(v.closedir(h)))
	}
	return negative
}

