package drivers

import (
	"sync"

	"github.com/reglet-dev/retrohost/abi"
)

type bufferAudioConfig struct {
	capacity   int    // Maximum interleaved samples kept
	sampleRate uint32 // Reported by GET_TARGET_SAMPLE_RATE, 0 for none
}

func defaultBufferAudioConfig() bufferAudioConfig {
	return bufferAudioConfig{
		capacity: 48000 * 2,
	}
}

// BufferAudioOption configures a BufferAudio.
type BufferAudioOption func(*bufferAudioConfig)

// WithCapacity bounds the number of interleaved samples kept. Samples beyond
// it are dropped until the buffer is drained.
func WithCapacity(samples int) BufferAudioOption {
	return func(c *bufferAudioConfig) {
		if samples > 0 {
			c.capacity = samples
		}
	}
}

// WithTargetSampleRate makes the driver answer GET_TARGET_SAMPLE_RATE.
func WithTargetSampleRate(rate uint32) BufferAudioOption {
	return func(c *bufferAudioConfig) {
		c.sampleRate = rate
	}
}

// BufferAudio collects the samples a core produces into a bounded buffer.
type BufferAudio struct {
	config bufferAudioConfig

	mu       sync.Mutex
	samples  []int16
	dropped  int
	callback abi.AudioCallback
	status   uintptr
	latency  uint32
}

// NewBufferAudio creates a BufferAudio.
func NewBufferAudio(opts ...BufferAudioOption) *BufferAudio {
	cfg := defaultBufferAudioConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &BufferAudio{config: cfg, samples: make([]int16, 0, cfg.capacity)}
}

// Sample appends one stereo frame.
func (a *BufferAudio) Sample(left, right int16) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.samples)+2 > a.config.capacity {
		a.dropped++
		return
	}
	a.samples = append(a.samples, left, right)
}

// SampleBatch appends as many whole frames of samples as fit and returns the
// number of frames it consumed. Frames that do not fit are counted as
// dropped but still reported consumed, so the core does not stall.
func (a *BufferAudio) SampleBatch(samples []int16) int {
	frames := len(samples) / 2
	a.mu.Lock()
	defer a.mu.Unlock()

	room := (a.config.capacity - len(a.samples)) / 2
	n := min(room, frames)
	a.samples = append(a.samples, samples[:n*2]...)
	a.dropped += frames - n
	return frames
}

// Drain returns the buffered samples and empties the buffer.
func (a *BufferAudio) Drain() []int16 {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]int16, len(a.samples))
	copy(out, a.samples)
	a.samples = a.samples[:0]
	return out
}

// Buffered returns the number of interleaved samples waiting.
func (a *BufferAudio) Buffered() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.samples)
}

// Dropped returns the number of frames that did not fit.
func (a *BufferAudio) Dropped() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dropped
}

// SetAudioCallback stores the core's asynchronous audio callback.
func (a *BufferAudio) SetAudioCallback(cb abi.AudioCallback) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.callback = cb
	return true
}

// AudioCallback returns the callback set by the core, if any.
func (a *BufferAudio) AudioCallback() (abi.AudioCallback, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.callback, a.callback.Callback != 0
}

// SetBufferStatusCallback stores the buffer status callback. Zero
// unregisters.
func (a *BufferAudio) SetBufferStatusCallback(callback uintptr) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = callback
	return true
}

// SetMinimumLatency records the latency the core asked for.
func (a *BufferAudio) SetMinimumLatency(ms uint32) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.latency = ms
	return true
}

// MinimumLatency returns the latency last requested by the core.
func (a *BufferAudio) MinimumLatency() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.latency
}

// TargetSampleRate answers GET_TARGET_SAMPLE_RATE.
func (a *BufferAudio) TargetSampleRate() (uint32, bool) {
	return a.config.sampleRate, a.config.sampleRate != 0
}
