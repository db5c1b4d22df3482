package drivers

import (
	"sync"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/ports"
)

// SampleGenerator fills samples starting at the absolute sample position pos.
type SampleGenerator func(samples []int16, pos uint64)

// Silence is the default generator.
func Silence(samples []int16, _ uint64) {
	clear(samples)
}

type generatorMicConfig struct {
	generator SampleGenerator
	rate      uint32
	max       int
}

// GeneratorMicrophonesOption configures a GeneratorMicrophones.
type GeneratorMicrophonesOption func(*generatorMicConfig)

// WithGenerator sets the sample source of every opened microphone.
func WithGenerator(g SampleGenerator) GeneratorMicrophonesOption {
	return func(c *generatorMicConfig) {
		c.generator = g
	}
}

// WithMicrophoneRate sets the rate used when the core does not ask for one.
func WithMicrophoneRate(rate uint32) GeneratorMicrophonesOption {
	return func(c *generatorMicConfig) {
		c.rate = rate
	}
}

// WithMaxMicrophones limits how many microphones may be open at once.
func WithMaxMicrophones(n int) GeneratorMicrophonesOption {
	return func(c *generatorMicConfig) {
		c.max = n
	}
}

// GeneratorMicrophones opens microphones whose samples come from a
// generator function.
type GeneratorMicrophones struct {
	config generatorMicConfig

	mu   sync.Mutex
	open int
}

// NewGeneratorMicrophones creates a GeneratorMicrophones producing silence.
func NewGeneratorMicrophones(opts ...GeneratorMicrophonesOption) *GeneratorMicrophones {
	cfg := generatorMicConfig{generator: Silence, rate: 44100, max: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &GeneratorMicrophones{config: cfg}
}

// Open returns a new inactive microphone. A nil params or zero rate selects
// the configured default rate.
func (g *GeneratorMicrophones) Open(params *abi.MicrophoneParams) (ports.Microphone, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.config.max > 0 && g.open >= g.config.max {
		return nil, false
	}
	rate := g.config.rate
	if params != nil && params.Rate != 0 {
		rate = params.Rate
	}
	g.open++
	return &generatorMic{owner: g, rate: rate}, true
}

// Opened returns the number of microphones currently open.
func (g *GeneratorMicrophones) Opened() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.open
}

type generatorMic struct {
	owner *GeneratorMicrophones
	rate  uint32

	mu     sync.Mutex
	active bool
	closed bool
	pos    uint64
}

func (m *generatorMic) Params() abi.MicrophoneParams {
	return abi.MicrophoneParams{Rate: m.rate}
}

func (m *generatorMic) SetActive(active bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false
	}
	m.active = active
	return true
}

func (m *generatorMic) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active && !m.closed
}

// Read returns -1 once closed and 0 while inactive.
func (m *generatorMic) Read(samples []int16) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return -1
	}
	if !m.active {
		return 0
	}
	m.owner.config.generator(samples, m.pos)
	m.pos += uint64(len(samples))
	return len(samples)
}

func (m *generatorMic) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.owner.mu.Lock()
	m.owner.open--
	m.owner.mu.Unlock()
}
