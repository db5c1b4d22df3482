package drivers

import (
	"sync"
	"sync/atomic"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/entities"
)

// understoodQuirks are the serialization quirks the host honours.
const understoodQuirks = abi.QuirkIncomplete | abi.QuirkMustInitialize |
	abi.QuirkCoreVariableSize | abi.QuirkFrontVariableSize | abi.QuirkSingleSession

// SessionState records what a core tells the host about the session.
type SessionState struct {
	shutdown atomic.Bool
	jit      bool

	mu           sync.Mutex
	level        uint32
	getProc      uintptr
	maps         []entities.MemoryDescriptor
	achievements bool
	quirks       uint64
	context      abi.SavestateContext
}

// NewSessionState creates a SessionState in the normal savestate context.
func NewSessionState(jitCapable bool) *SessionState {
	return &SessionState{jit: jitCapable, context: abi.SavestateContextNormal}
}

func (s *SessionState) Shutdown() { s.shutdown.Store(true) }

// ShutdownRequested reports whether the core asked to exit.
func (s *SessionState) ShutdownRequested() bool { return s.shutdown.Load() }

func (s *SessionState) SetPerformanceLevel(level uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = level
}

func (s *SessionState) SetProcAddressCallback(getProcAddress uintptr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getProc = getProcAddress
}

func (s *SessionState) SetMemoryMaps(descs []entities.MemoryDescriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maps = descs
}

func (s *SessionState) SetSupportAchievements(supported bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.achievements = supported
}

// SetSerializationQuirks keeps the core's quirks and returns the subset the
// host understands.
func (s *SessionState) SetSerializationQuirks(quirks uint64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quirks = quirks
	return quirks & understoodQuirks
}

func (s *SessionState) SavestateContext() abi.SavestateContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.context
}

// SetSavestateContext changes the context reported around the next
// serialize call.
func (s *SessionState) SetSavestateContext(c abi.SavestateContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.context = c
}

func (s *SessionState) JITCapable() bool { return s.jit }

// SessionSnapshot is a copy of the recorded session facts.
type SessionSnapshot struct {
	PerformanceLevel uint32
	ProcAddress      uintptr
	MemoryMaps       []entities.MemoryDescriptor
	Achievements     bool
	Quirks           uint64
}

// Snapshot returns what the core has reported so far.
func (s *SessionState) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionSnapshot{
		PerformanceLevel: s.level,
		ProcAddress:      s.getProc,
		MemoryMaps:       append([]entities.MemoryDescriptor(nil), s.maps...),
		Achievements:     s.achievements,
		Quirks:           s.quirks,
	}
}
