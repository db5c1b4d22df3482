package config

import (
	"log/slog"

	"github.com/reglet-dev/retrohost/domain/entities"
	"github.com/reglet-dev/retrohost/envcall"
	"github.com/reglet-dev/retrohost/host"
	"github.com/reglet-dev/retrohost/infrastructure/drivers"
	rhlog "github.com/reglet-dev/retrohost/log"
)

// Stack holds the drivers built from a Config. Optional drivers the
// configuration leaves disabled are nil.
type Stack struct {
	Audio     *drivers.BufferAudio
	Video     *drivers.SoftwareVideo
	Input     *drivers.StateInput
	Options   *drivers.MemoryOptions
	Log       *drivers.SlogLog
	Messages  *drivers.SlogMessages
	Paths     *drivers.StaticPaths
	Perf      *drivers.ClockPerf
	User      *drivers.StaticUser
	Power     *drivers.StaticPower
	Timing    *drivers.PacedTiming
	AVEnable  *drivers.AVFlags
	Disk      *drivers.DiskControl
	Session   *drivers.SessionState
	VFS       *drivers.AferoVFS
	LED       *drivers.MemoryLED
	MIDI      *drivers.LoopbackMIDI
	Rumble    *drivers.MemoryRumble
	Sensor    *drivers.MemorySensor
	Mics      *drivers.GeneratorMicrophones
	Location  *drivers.StaticLocation
	arenaSize int
	tempRoot  string
}

// Build creates the drivers the configuration describes. Core log messages
// and on-screen messages go to logger.
func (c *Config) Build(logger *slog.Logger) *Stack {
	if logger == nil {
		logger = slog.Default()
	}
	users := c.Input.MaxUsers

	s := &Stack{
		Audio:    drivers.NewBufferAudio(drivers.WithCapacity(c.Audio.Capacity), drivers.WithTargetSampleRate(c.Audio.SampleRate)),
		Video:    drivers.NewSoftwareVideo(drivers.WithOverscan(c.Video.Overscan)),
		Input:    drivers.NewStateInput(drivers.WithMaxUsers(users)),
		Options:  drivers.NewMemoryOptions(drivers.WithValues(c.Options)),
		Log:      drivers.NewSlogLog(logger.With("source", "core")),
		Messages: drivers.NewSlogMessages(logger),
		Paths:    drivers.NewStaticPaths(c.directories()),
		Perf:     drivers.NewClockPerf(logger),
		User:     drivers.NewStaticUser(c.User.Name, c.User.Language),
		Power:    drivers.NewStaticPower(),
		Timing:   drivers.NewPacedTiming(c.Video.Refresh),
		AVEnable: drivers.NewAVFlags(),
		Disk:     drivers.NewDiskControl(),
		Session:  drivers.NewSessionState(c.Devices.JIT),

		arenaSize: c.Content.ArenaLimit,
		tempRoot:  c.Content.TempRoot,
	}

	if c.VFS.Enabled {
		s.VFS = drivers.NewAferoVFS(drivers.WithRoot(c.VFS.Root), drivers.WithReadOnly(c.VFS.ReadOnly))
	}
	if c.Devices.LED {
		s.LED = drivers.NewMemoryLED()
	}
	if c.Devices.MIDI {
		s.MIDI = drivers.NewLoopbackMIDI(drivers.WithMIDIInput(true), drivers.WithMIDIOutput(true))
	}
	if c.Devices.Rumble {
		s.Rumble = drivers.NewMemoryRumble(users)
	}
	if c.Devices.Sensors {
		s.Sensor = drivers.NewMemorySensor(users)
	}
	if c.Devices.Microphones > 0 {
		s.Mics = drivers.NewGeneratorMicrophones(drivers.WithMaxMicrophones(c.Devices.Microphones))
	}
	if loc := c.Devices.Location; loc.Enabled {
		s.Location = drivers.NewStaticLocation(entities.Location{Lat: loc.Lat, Lon: loc.Lon})
	}
	return s
}

func (c *Config) directories() drivers.Directories {
	d := drivers.Directories{
		System:      c.Directories.System,
		Save:        c.Directories.Save,
		CoreAssets:  c.Directories.CoreAssets,
		Playlist:    c.Directories.Playlist,
		FileBrowser: c.Directories.FileBrowser,
	}
	if c.Core != "" {
		d.Libretro = c.Core
	}
	return d
}

// Providers returns the provider options for every non-nil driver.
func (s *Stack) Providers() []envcall.ProviderOption {
	opts := []envcall.ProviderOption{
		envcall.WithAudio(s.Audio),
		envcall.WithVideo(s.Video),
		envcall.WithInput(s.Input),
		envcall.WithOptions(s.Options),
		envcall.WithLog(s.Log),
		envcall.WithMessage(s.Messages),
		envcall.WithPath(s.Paths),
		envcall.WithPerf(s.Perf),
		envcall.WithUser(s.User),
		envcall.WithPower(s.Power),
		envcall.WithTiming(s.Timing),
		envcall.WithAVEnable(s.AVEnable),
		envcall.WithDisk(s.Disk),
		envcall.WithSession(s.Session),
	}
	if s.VFS != nil {
		opts = append(opts, envcall.WithVFS(s.VFS))
	}
	if s.LED != nil {
		opts = append(opts, envcall.WithLED(s.LED))
	}
	if s.MIDI != nil {
		opts = append(opts, envcall.WithMIDI(s.MIDI))
	}
	if s.Rumble != nil {
		opts = append(opts, envcall.WithRumble(s.Rumble))
	}
	if s.Sensor != nil {
		opts = append(opts, envcall.WithSensor(s.Sensor))
	}
	if s.Mics != nil {
		opts = append(opts, envcall.WithMicrophone(s.Mics))
	}
	if s.Location != nil {
		opts = append(opts, envcall.WithLocation(s.Location))
	}
	return opts
}

// SessionOptions returns the host options for a session over the stack.
func (s *Stack) SessionOptions(logger *slog.Logger) []host.Option {
	return []host.Option{
		host.WithLogger(logger),
		host.WithProviders(s.Providers()...),
		host.WithArenaLimit(s.arenaSize),
		host.WithTempRoot(s.tempRoot),
	}
}

// Logger builds the host logger from the log section. Validate has already
// checked the level.
func (c *Config) Logger(opts ...rhlog.HandlerOption) *slog.Logger {
	level, _ := rhlog.ParseLevel(c.Log.Level)
	format, ok := rhlog.ParseFormat(c.Log.Format)
	if !ok {
		format = rhlog.FormatText
	}
	base := []rhlog.HandlerOption{
		rhlog.WithLevel(level),
		rhlog.WithFormat(format),
		rhlog.WithSource(c.Log.Source),
	}
	return rhlog.New(append(base, opts...)...)
}
