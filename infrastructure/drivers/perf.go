package drivers

import (
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sys/cpu"

	"github.com/reglet-dev/retrohost/abi"
)

// ClockPerf backs the perf interface with the monotonic clock.
type ClockPerf struct {
	logger *slog.Logger
	epoch  time.Time

	mu       sync.Mutex
	counters []*abi.PerfCounter
}

// NewClockPerf creates a ClockPerf logging counter summaries to logger, or
// slog.Default() if nil.
func NewClockPerf(logger *slog.Logger) *ClockPerf {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClockPerf{logger: logger, epoch: time.Now()}
}

// TimeUsec returns microseconds since the perf interface was created.
func (p *ClockPerf) TimeUsec() int64 {
	return time.Since(p.epoch).Microseconds()
}

// Counter returns a monotonic tick count in nanoseconds.
func (p *ClockPerf) Counter() uint64 {
	return uint64(time.Since(p.epoch).Nanoseconds())
}

// CPUFeatures reports RETRO_SIMD_* bits for the running CPU.
func (p *ClockPerf) CPUFeatures() uint64 {
	return cpuFeatures()
}

// Register records counter for Log. Registering twice is a no-op.
func (p *ClockPerf) Register(counter *abi.PerfCounter) {
	if counter == nil || counter.Registered {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	counter.Registered = true
	p.counters = append(p.counters, counter)
}

func (p *ClockPerf) Start(counter *abi.PerfCounter) {
	if counter == nil || !counter.Registered {
		return
	}
	counter.CallCnt++
	counter.Start = p.Counter()
}

func (p *ClockPerf) Stop(counter *abi.PerfCounter) {
	if counter == nil || !counter.Registered {
		return
	}
	counter.Total += p.Counter() - counter.Start
}

// Log writes one record per registered counter.
func (p *ClockPerf) Log() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.counters {
		p.logger.Info("perf counter",
			"ident", abi.GoString(c.Ident),
			"calls", c.CallCnt,
			"total", time.Duration(c.Total),
		)
	}
}

func cpuFeatures() uint64 {
	var f uint64
	set := func(bit uint64, has bool) {
		if has {
			f |= bit
		}
	}

	switch runtime.GOARCH {
	case "amd64", "386":
		// MMX, SSE and CMOV predate SSE2, which Go requires on amd64.
		set(abi.SIMDMMX|abi.SIMDMMXEXT|abi.SIMDSSE|abi.SIMDCMOV, cpu.X86.HasSSE2)
		set(abi.SIMDSSE2, cpu.X86.HasSSE2)
		set(abi.SIMDSSE3, cpu.X86.HasSSE3)
		set(abi.SIMDSSSE3, cpu.X86.HasSSSE3)
		set(abi.SIMDSSE4, cpu.X86.HasSSE41)
		set(abi.SIMDSSE42, cpu.X86.HasSSE42)
		set(abi.SIMDAVX, cpu.X86.HasAVX)
		set(abi.SIMDAVX2, cpu.X86.HasAVX2)
		set(abi.SIMDAES, cpu.X86.HasAES)
		set(abi.SIMDPOPCNT, cpu.X86.HasPOPCNT)
	case "arm64":
		set(abi.SIMDASIMD|abi.SIMDNEON, cpu.ARM64.HasASIMD)
		set(abi.SIMDAES, cpu.ARM64.HasAES)
	case "arm":
		set(abi.SIMDNEON, cpu.ARM.HasNEON)
		set(abi.SIMDVFPV3, cpu.ARM.HasVFPv3)
		set(abi.SIMDVFPV4, cpu.ARM.HasVFPv4)
	}
	return f
}
