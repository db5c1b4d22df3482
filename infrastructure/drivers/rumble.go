package drivers

import (
	"sync"

	"github.com/reglet-dev/retrohost/abi"
)

// MemoryRumble records the rumble strength of each port and effect.
type MemoryRumble struct {
	ports uint32

	mu    sync.Mutex
	state map[[2]uint32]uint16
}

// NewMemoryRumble creates a MemoryRumble accepting ports below ports.
func NewMemoryRumble(ports uint32) *MemoryRumble {
	return &MemoryRumble{ports: ports, state: map[[2]uint32]uint16{}}
}

func (r *MemoryRumble) SetRumbleState(port, effect uint32, strength uint16) bool {
	if port >= r.ports || effect > abi.RumbleWeak {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state[[2]uint32{port, effect}] = strength
	return true
}

// Strength returns the current strength of effect on port.
func (r *MemoryRumble) Strength(port, effect uint32) uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state[[2]uint32{port, effect}]
}
