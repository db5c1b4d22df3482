package drivers

import (
	"sync"

	"github.com/reglet-dev/retrohost/abi"
)

// DiskControl keeps the disk control tables a core registers. The host
// calls through them with the core's Invoke.
type DiskControl struct {
	mu  sync.Mutex
	cb  abi.DiskControlExtCallback
	ext bool
	set bool
}

func NewDiskControl() *DiskControl { return &DiskControl{} }

func (d *DiskControl) SetDiskControl(cb abi.DiskControlCallback) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cb = abi.DiskControlExtCallback{DiskControlCallback: cb}
	d.ext, d.set = false, true
	return true
}

func (d *DiskControl) SetDiskControlExt(cb abi.DiskControlExtCallback) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cb = cb
	d.ext, d.set = true, true
	return true
}

// Callbacks returns the registered table. ext reports whether the core used
// the extended interface; the extension entries are zero otherwise.
func (d *DiskControl) Callbacks() (cb abi.DiskControlExtCallback, ext, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cb, d.ext, d.set
}
