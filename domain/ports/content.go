package ports

import (
	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/entities"
)

// ContentDriver holds the core's content descriptors and answers the
// content-related environment commands. Loading itself is driven by the
// session through the concrete driver.
type ContentDriver interface {
	SystemInfo() (entities.SystemInfo, bool)
	SetSystemInfo(info entities.SystemInfo) error

	Subsystems() entities.Subsystems
	SetSubsystems(subs entities.Subsystems) error

	SupportNoGame() bool
	SetSupportNoGame(supported bool)

	Overrides() entities.ContentOverrides
	SetOverrides(overrides entities.ContentOverrides) error

	// GameInfoExt returns the extended descriptors of the most recent load,
	// one per content item, in memory that outlives the call.
	GameInfoExt() (*abi.GameInfoExt, bool)
}

// OptionDriver stores core options.
type OptionDriver interface {
	// Version is the highest core options API version supported.
	Version() uint32
	Variable(key string) (string, bool)
	SetDefinitions(defs []entities.OptionDefinition, categories []entities.OptionCategory) error
	// Updated reports whether any value changed since the last call, and
	// clears the flag.
	Updated() bool
	SetVariable(key, value string) bool
	SetVisible(key string, visible bool) bool
	// SetUpdateDisplayCallback stores the core's visibility refresh
	// callback. A zero callback unregisters.
	SetUpdateDisplayCallback(callback uintptr) bool
}

// DiskDriver accepts the disk control interfaces.
type DiskDriver interface {
	SetDiskControl(cb abi.DiskControlCallback) bool
	SetDiskControlExt(cb abi.DiskControlExtCallback) bool
}
