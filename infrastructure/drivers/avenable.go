package drivers

import (
	"sync/atomic"

	"github.com/reglet-dev/retrohost/abi"
)

// AVFlags reports which outputs the host consumes. The host flips bits, for
// example to run frames silently during run-ahead.
type AVFlags struct {
	bits atomic.Int32
}

// NewAVFlags creates AVFlags with audio and video enabled.
func NewAVFlags() *AVFlags {
	f := &AVFlags{}
	f.bits.Store(abi.AVEnableVideo | abi.AVEnableAudio)
	return f
}

func (f *AVFlags) AudioVideoEnable() int32 { return f.bits.Load() }

// Set turns bits on or off.
func (f *AVFlags) Set(bits int32, on bool) {
	for {
		old := f.bits.Load()
		next := old &^ bits
		if on {
			next = old | bits
		}
		if f.bits.CompareAndSwap(old, next) {
			return
		}
	}
}
