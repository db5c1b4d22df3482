package drivers

import (
	"sync"

	"github.com/reglet-dev/retrohost/domain/entities"
)

// StaticLocation reports a fixed position while started.
type StaticLocation struct {
	fix entities.Location

	mu       sync.Mutex
	running  bool
	interval [2]uint32
}

// NewStaticLocation creates a StaticLocation reporting fix.
func NewStaticLocation(fix entities.Location) *StaticLocation {
	return &StaticLocation{fix: fix}
}

func (l *StaticLocation) Start() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.running = true
	return true
}

func (l *StaticLocation) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.running = false
}

// Position returns the fix, or false while stopped.
func (l *StaticLocation) Position() (entities.Location, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fix, l.running
}

func (l *StaticLocation) SetInterval(intervalMs, intervalDistance uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.interval = [2]uint32{intervalMs, intervalDistance}
}

// Interval returns the update interval the core requested.
func (l *StaticLocation) Interval() (ms, distance uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.interval[0], l.interval[1]
}
