package drivers

import (
	"sync"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/entities"
)

// InputKey addresses one input of the state table.
type InputKey struct {
	Port   uint32
	Device uint32
	Index  uint32
	ID     uint32
}

// InputSource refreshes the state table on every poll.
type InputSource func(set func(key InputKey, value int16))

type stateInputConfig struct {
	source   InputSource
	maxUsers uint32
	devices  uint64
}

func defaultStateInputConfig() stateInputConfig {
	return stateInputConfig{
		maxUsers: 2,
		devices:  1<<abi.DeviceJoypad | 1<<abi.DeviceAnalog,
	}
}

// StateInputOption configures a StateInput.
type StateInputOption func(*stateInputConfig)

// WithInputSource sets the function that feeds the table on poll.
func WithInputSource(src InputSource) StateInputOption {
	return func(c *stateInputConfig) {
		c.source = src
	}
}

// WithMaxUsers sets the GET_INPUT_MAX_USERS answer.
func WithMaxUsers(n uint32) StateInputOption {
	return func(c *stateInputConfig) {
		c.maxUsers = n
	}
}

// WithDeviceCapabilities sets the device class bitmask reported to the core.
func WithDeviceCapabilities(mask uint64) StateInputOption {
	return func(c *stateInputConfig) {
		c.devices = mask
	}
}

// StateInput answers input queries from a table refreshed on every poll.
type StateInput struct {
	config stateInputConfig

	mu          sync.RWMutex
	state       map[InputKey]int16
	descriptors []entities.InputDescriptor
	controllers []entities.ControllerInfo
	keyboard    uintptr
	polls       uint64
}

// NewStateInput creates a StateInput.
func NewStateInput(opts ...StateInputOption) *StateInput {
	cfg := defaultStateInputConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &StateInput{config: cfg, state: map[InputKey]int16{}}
}

// Poll runs the input source against the table.
func (in *StateInput) Poll() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.polls++
	if in.config.source == nil {
		return
	}
	in.config.source(func(key InputKey, value int16) {
		key.Device = abi.DeviceBase(key.Device)
		in.state[key] = value
	})
}

// Set writes one entry directly, outside of a poll.
func (in *StateInput) Set(key InputKey, value int16) {
	key.Device = abi.DeviceBase(key.Device)
	in.mu.Lock()
	defer in.mu.Unlock()
	in.state[key] = value
}

// State returns a table entry. Device subclasses share their base class
// entry; the joypad mask id folds buttons 0 to 15 into one bitmask.
func (in *StateInput) State(port, device, index, id uint32) int16 {
	device = abi.DeviceBase(device)
	in.mu.RLock()
	defer in.mu.RUnlock()

	if device == abi.DeviceJoypad && id == abi.DeviceIDJoypadMask {
		var mask uint16
		for b := uint32(0); b < 16; b++ {
			if in.state[InputKey{Port: port, Device: device, Index: index, ID: b}] != 0 {
				mask |= 1 << b
			}
		}
		return int16(mask)
	}
	return in.state[InputKey{Port: port, Device: device, Index: index, ID: id}]
}

// Polls returns how many times the core polled.
func (in *StateInput) Polls() uint64 {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.polls
}

func (in *StateInput) SetInputDescriptors(descs []entities.InputDescriptor) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.descriptors = descs
	return true
}

// Descriptors returns the descriptors the core published.
func (in *StateInput) Descriptors() []entities.InputDescriptor {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return append([]entities.InputDescriptor(nil), in.descriptors...)
}

func (in *StateInput) SetControllerInfo(ports []entities.ControllerInfo) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.controllers = ports
	return true
}

// Controllers returns the per-port device types the core published.
func (in *StateInput) Controllers() []entities.ControllerInfo {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return append([]entities.ControllerInfo(nil), in.controllers...)
}

func (in *StateInput) SetKeyboardCallback(callback uintptr) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.keyboard = callback
	return true
}

// KeyboardCallback returns the core's keyboard event callback, zero if none.
func (in *StateInput) KeyboardCallback() uintptr {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.keyboard
}

func (in *StateInput) DeviceCapabilities() uint64 { return in.config.devices }
func (in *StateInput) MaxUsers() uint32           { return in.config.maxUsers }
func (in *StateInput) SupportsBitmasks() bool     { return true }
