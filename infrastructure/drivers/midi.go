package drivers

import "sync"

// MIDIEvent is one byte written by the core with its delta time.
type MIDIEvent struct {
	Byte      byte
	DeltaTime uint32
}

type loopbackMIDIConfig struct {
	input  bool
	output bool
	limit  int
}

// LoopbackMIDIOption configures a LoopbackMIDI.
type LoopbackMIDIOption func(*loopbackMIDIConfig)

// WithMIDIInput enables or disables the input side.
func WithMIDIInput(enabled bool) LoopbackMIDIOption {
	return func(c *loopbackMIDIConfig) {
		c.input = enabled
	}
}

// WithMIDIOutput enables or disables the output side.
func WithMIDIOutput(enabled bool) LoopbackMIDIOption {
	return func(c *loopbackMIDIConfig) {
		c.output = enabled
	}
}

// LoopbackMIDI feeds every flushed output byte back to the input side.
type LoopbackMIDI struct {
	config loopbackMIDIConfig

	mu      sync.Mutex
	pending []MIDIEvent
	inbox   []byte
	flushed []MIDIEvent
}

// NewLoopbackMIDI creates a LoopbackMIDI with both sides enabled.
func NewLoopbackMIDI(opts ...LoopbackMIDIOption) *LoopbackMIDI {
	cfg := loopbackMIDIConfig{input: true, output: true, limit: 4096}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &LoopbackMIDI{config: cfg}
}

func (m *LoopbackMIDI) InputEnabled() bool  { return m.config.input }
func (m *LoopbackMIDI) OutputEnabled() bool { return m.config.output }

// Read returns the next looped-back byte.
func (m *LoopbackMIDI) Read() (byte, bool) {
	if !m.config.input {
		return 0, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.inbox) == 0 {
		return 0, false
	}
	b := m.inbox[0]
	m.inbox = m.inbox[1:]
	return b, true
}

// Write queues b until the next Flush. It fails once the queue is full.
func (m *LoopbackMIDI) Write(b byte, deltaTime uint32) bool {
	if !m.config.output {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) >= m.config.limit {
		return false
	}
	m.pending = append(m.pending, MIDIEvent{Byte: b, DeltaTime: deltaTime})
	return true
}

// Flush moves queued bytes to the input side.
func (m *LoopbackMIDI) Flush() bool {
	if !m.config.output {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range m.pending {
		if m.config.input && len(m.inbox) < m.config.limit {
			m.inbox = append(m.inbox, ev.Byte)
		}
	}
	m.flushed = append(m.flushed, m.pending...)
	m.pending = m.pending[:0]
	return true
}

// Flushed returns and clears every event flushed so far.
func (m *LoopbackMIDI) Flushed() []MIDIEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.flushed
	m.flushed = nil
	return out
}
