package drivers

import (
	"sync"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/entities"
)

// StaticPower reports a host-set battery state.
type StaticPower struct {
	mu    sync.Mutex
	state entities.DevicePower
}

// NewStaticPower creates a StaticPower reporting mains power with no
// battery estimate.
func NewStaticPower() *StaticPower {
	return &StaticPower{state: entities.DevicePower{
		State:   int32(abi.PowerStatePluggedIn),
		Seconds: abi.PowerNoEstimate,
		Percent: -1,
	}}
}

func (p *StaticPower) DevicePower() entities.DevicePower {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Set replaces the reported state. Percent is clamped to -1..100.
func (p *StaticPower) Set(state abi.PowerState, seconds int32, percent int8) {
	percent = max(-1, min(percent, 100))
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = entities.DevicePower{State: int32(state), Seconds: seconds, Percent: percent}
}
