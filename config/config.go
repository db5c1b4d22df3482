// Package config loads the host configuration file and assembles the
// drivers a session is composed from.
//
// Values are read from YAML, then overlaid with RETROHOST_ prefixed
// environment variables, then validated.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/reglet-dev/retrohost/domain/entities"
	rherrors "github.com/reglet-dev/retrohost/domain/errors"
	"github.com/reglet-dev/retrohost/infrastructure/drivers"
	rhlog "github.com/reglet-dev/retrohost/log"
)

// EnvPrefix prefixes every environment variable the overlay reads.
const EnvPrefix = "RETROHOST_"

// Config is the host configuration.
type Config struct {
	// Core is the path of the libretro core shared library.
	Core string `yaml:"core" json:"core,omitempty" env:"CORE" jsonschema:"description=Path of the libretro core shared library"`

	Log         LogConfig         `yaml:"log" json:"log" envPrefix:"LOG_"`
	Directories DirectoryConfig   `yaml:"directories" json:"directories" envPrefix:"DIR_"`
	User        UserConfig        `yaml:"user" json:"user" envPrefix:"USER_"`
	Options     map[string]string `yaml:"options" json:"options,omitempty" env:"OPTIONS" jsonschema:"description=Core option values keyed by option key"`
	Audio       AudioConfig       `yaml:"audio" json:"audio" envPrefix:"AUDIO_"`
	Video       VideoConfig       `yaml:"video" json:"video" envPrefix:"VIDEO_"`
	Input       InputConfig       `yaml:"input" json:"input" envPrefix:"INPUT_"`
	VFS         VFSConfig         `yaml:"vfs" json:"vfs" envPrefix:"VFS_"`
	Content     ContentConfig     `yaml:"content" json:"content" envPrefix:"CONTENT_"`
	Devices     DeviceConfig      `yaml:"devices" json:"devices" envPrefix:"DEVICES_"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level" env:"LEVEL" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,default=info"`
	Format string `yaml:"format" json:"format" env:"FORMAT" validate:"omitempty,oneof=text json logfmt" jsonschema:"enum=text,enum=json,enum=logfmt,default=text"`
	Source bool   `yaml:"source" json:"source,omitempty" env:"SOURCE"`
}

// DirectoryConfig names the directories reported to the core. An empty save
// directory falls back to the system directory.
type DirectoryConfig struct {
	System      string `yaml:"system" json:"system,omitempty" env:"SYSTEM"`
	Save        string `yaml:"save" json:"save,omitempty" env:"SAVE"`
	CoreAssets  string `yaml:"core_assets" json:"core_assets,omitempty" env:"CORE_ASSETS"`
	Playlist    string `yaml:"playlist" json:"playlist,omitempty" env:"PLAYLIST"`
	FileBrowser string `yaml:"file_browser" json:"file_browser,omitempty" env:"FILE_BROWSER"`
}

type UserConfig struct {
	Name     string `yaml:"name" json:"name,omitempty" env:"NAME"`
	Language string `yaml:"language" json:"language,omitempty" env:"LANGUAGE" jsonschema:"description=Language tag such as en or pt-BR"`
}

type AudioConfig struct {
	// Capacity is the number of interleaved samples buffered between drains.
	Capacity   int    `yaml:"capacity" json:"capacity,omitempty" env:"CAPACITY" validate:"gte=0"`
	SampleRate uint32 `yaml:"sample_rate" json:"sample_rate,omitempty" env:"SAMPLE_RATE" validate:"lte=384000"`
}

type VideoConfig struct {
	Refresh  float32 `yaml:"refresh" json:"refresh" env:"REFRESH" validate:"gt=0,lte=1000" jsonschema:"default=60"`
	Overscan bool    `yaml:"overscan" json:"overscan,omitempty" env:"OVERSCAN"`
}

type InputConfig struct {
	MaxUsers uint32 `yaml:"max_users" json:"max_users" env:"MAX_USERS" validate:"lte=16" jsonschema:"default=2"`
}

// VFSConfig controls the virtual filesystem offered to cores. Root confines
// every path below it.
type VFSConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled" env:"ENABLED" jsonschema:"default=true"`
	Root     string `yaml:"root" json:"root,omitempty" env:"ROOT"`
	ReadOnly bool   `yaml:"read_only" json:"read_only,omitempty" env:"READ_ONLY"`
}

type ContentConfig struct {
	TempRoot   string `yaml:"temp_root" json:"temp_root,omitempty" env:"TEMP_ROOT" jsonschema:"description=Directory archive entries are extracted below"`
	ArenaLimit int    `yaml:"arena_limit" json:"arena_limit,omitempty" env:"ARENA_LIMIT" validate:"gte=0" jsonschema:"description=Byte limit on memory pinned for the core. 0 is unlimited"`
}

// DeviceConfig enables the optional device interfaces.
type DeviceConfig struct {
	Rumble      bool           `yaml:"rumble" json:"rumble,omitempty" env:"RUMBLE"`
	Sensors     bool           `yaml:"sensors" json:"sensors,omitempty" env:"SENSORS"`
	LED         bool           `yaml:"led" json:"led,omitempty" env:"LED"`
	MIDI        bool           `yaml:"midi" json:"midi,omitempty" env:"MIDI"`
	Microphones int            `yaml:"microphones" json:"microphones,omitempty" env:"MICROPHONES" validate:"gte=0,lte=8"`
	JIT         bool           `yaml:"jit" json:"jit,omitempty" env:"JIT"`
	Location    LocationConfig `yaml:"location" json:"location" envPrefix:"LOCATION_"`
}

// LocationConfig is a fixed position served by the location interface.
type LocationConfig struct {
	Enabled bool    `yaml:"enabled" json:"enabled,omitempty" env:"ENABLED"`
	Lat     float64 `yaml:"lat" json:"lat,omitempty" env:"LAT" validate:"gte=-90,lte=90"`
	Lon     float64 `yaml:"lon" json:"lon,omitempty" env:"LON" validate:"gte=-180,lte=180"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log:   LogConfig{Level: "info", Format: "text"},
		Video: VideoConfig{Refresh: 60},
		Input: InputConfig{MaxUsers: 2},
		VFS:   VFSConfig{Enabled: true},
	}
}

type loadConfig struct {
	environ map[string]string
	prefix  string
}

// LoadOption configures Load and Parse.
type LoadOption func(*loadConfig)

// WithEnvironment replaces the process environment for the overlay.
func WithEnvironment(environ map[string]string) LoadOption {
	return func(c *loadConfig) {
		c.environ = environ
	}
}

// WithEnvPrefix replaces EnvPrefix.
func WithEnvPrefix(prefix string) LoadOption {
	return func(c *loadConfig) {
		c.prefix = prefix
	}
}

// Load reads the file at path. An empty path starts from Default.
func Load(path string, opts ...LoadOption) (*Config, error) {
	if path == "" {
		return Parse(nil, opts...)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &rherrors.ConfigError{Field: "path", Err: fmt.Errorf("read %s: %w", path, err)}
	}
	return Parse(data, opts...)
}

// Parse decodes YAML data over Default, applies the environment overlay and
// validates the result. Unknown keys are rejected.
func Parse(data []byte, opts ...LoadOption) (*Config, error) {
	lc := loadConfig{prefix: EnvPrefix}
	for _, opt := range opts {
		opt(&lc)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &rherrors.ConfigError{Err: fmt.Errorf("decode yaml: %w", err)}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: lc.prefix, Environment: lc.environ}); err != nil {
		return nil, &rherrors.ConfigError{Field: "env", Err: fmt.Errorf("parse env: %w", err)}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints plus the values only the host can
// interpret: the log level and the language tag.
func (c *Config) Validate() error {
	if res := entities.ValidateStruct(c); !res.Valid {
		field := ""
		if len(res.Errors) > 0 {
			field = res.Errors[0].Field
		}
		return &rherrors.ConfigError{Field: field, Err: res.Err()}
	}
	if _, err := rhlog.ParseLevel(c.Log.Level); err != nil {
		return &rherrors.ConfigError{Field: "log.level", Err: err}
	}
	if c.User.Language != "" {
		if _, ok := drivers.ParseLanguage(c.User.Language); !ok {
			return &rherrors.ConfigError{Field: "user.language", Err: fmt.Errorf("unknown language tag %q", c.User.Language)}
		}
	}
	return nil
}
