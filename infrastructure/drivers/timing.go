package drivers

import (
	"sync"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/entities"
)

// PacedTiming tracks the host's frame pacing and the core's pacing requests.
type PacedTiming struct {
	refresh float32

	mu          sync.Mutex
	fastForward bool
	override    *entities.FastForwardingOverride
	frameTime   abi.FrameTimeCallback
}

// NewPacedTiming creates a PacedTiming for a display running at refresh Hz.
func NewPacedTiming(refresh float32) *PacedTiming {
	return &PacedTiming{refresh: refresh}
}

// FastForwarding reports whether frames are being fast-forwarded, either by
// the host or at the core's request.
func (t *PacedTiming) FastForwarding() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.override != nil {
		return t.override.FastForward
	}
	return t.fastForward
}

// SetFastForward is the host side toggle. It is ignored while the core has
// inhibited toggling.
func (t *PacedTiming) SetFastForward(enabled bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.override != nil && t.override.InhibitToggle {
		return false
	}
	t.fastForward = enabled
	return true
}

// SetFastForwardingOverride installs the core's override. An override that
// neither forces fast-forward nor inhibits the toggle hands control back to
// the host.
func (t *PacedTiming) SetFastForwardingOverride(o entities.FastForwardingOverride) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !o.FastForward && !o.InhibitToggle {
		t.override = nil
		return true
	}
	t.override = &o
	return true
}

func (t *PacedTiming) TargetRefreshRate() float32 { return t.refresh }

// ThrottleState reports vsync pacing, or fast-forward with its effective
// rate.
func (t *PacedTiming) ThrottleState() entities.ThrottleState {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case t.override != nil && t.override.FastForward:
		ratio := t.override.Ratio
		if ratio <= 0 {
			return entities.ThrottleState{Mode: abi.ThrottleUnblocked}
		}
		return entities.ThrottleState{Mode: abi.ThrottleFastForward, Rate: t.refresh * ratio}
	case t.fastForward:
		return entities.ThrottleState{Mode: abi.ThrottleUnblocked}
	}
	return entities.ThrottleState{Mode: abi.ThrottleVSync, Rate: t.refresh}
}

func (t *PacedTiming) SetFrameTimeCallback(cb abi.FrameTimeCallback) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frameTime = cb
	return true
}

func (t *PacedTiming) FrameTimeCallback() (abi.FrameTimeCallback, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frameTime, t.frameTime.Callback != 0
}
