package drivers

import "sync"

// MemoryLED records LED states set by a core.
type MemoryLED struct {
	mu     sync.Mutex
	states map[int32]int32
}

func NewMemoryLED() *MemoryLED {
	return &MemoryLED{states: map[int32]int32{}}
}

func (l *MemoryLED) SetLEDState(led, state int32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states[led] = state
}

// State returns the last state of led, zero if never set.
func (l *MemoryLED) State(led int32) int32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.states[led]
}
