package abi

import (
	"runtime"
	"sync"
	"unsafe"

	rherrors "github.com/reglet-dev/retrohost/domain/errors"
)

// MaxArenaBytes is the default cap on memory an Arena hands to a core.
const MaxArenaBytes = 64 * 1024 * 1024 // 64 MB

// Arena owns every piece of Go memory whose address is handed to a core.
// Allocations are pinned so the core may keep pointers to them after the
// call that produced them returns; all of them stay valid until Release.
type Arena struct {
	mu      sync.Mutex
	pinner  runtime.Pinner
	objects []any
	strings map[string]*byte
	total   int
	limit   int
	freed   bool
}

// ArenaOption configures an Arena.
type ArenaOption func(*Arena)

// WithLimit caps the total number of bytes the arena will hand out.
func WithLimit(limit int) ArenaOption {
	return func(a *Arena) {
		a.limit = limit
	}
}

// NewArena creates an empty arena.
func NewArena(opts ...ArenaOption) *Arena {
	a := &Arena{
		strings: make(map[string]*byte),
		limit:   MaxArenaBytes,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// reserve accounts size bytes against the limit. Caller holds mu.
func (a *Arena) reserve(size int) error {
	if a.freed {
		return rherrors.ErrArenaReleased
	}
	if a.total+size > a.limit {
		return &rherrors.MemoryError{Requested: size, Current: a.total, Limit: a.limit}
	}
	a.total += size
	return nil
}

// CString returns a pinned NUL-terminated copy of s. Equal strings share one
// allocation for the life of the arena.
func (a *Arena) CString(s string) (*byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if p, ok := a.strings[s]; ok {
		return p, nil
	}
	if err := a.reserve(len(s) + 1); err != nil {
		return nil, err
	}
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	a.pinner.Pin(&buf[0])
	a.objects = append(a.objects, buf)
	a.strings[s] = &buf[0]
	return &buf[0], nil
}

// Bytes returns a pinned copy of b.
func (a *Arena) Bytes(b []byte) (unsafe.Pointer, error) {
	if len(b) == 0 {
		return nil, nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.reserve(len(b)); err != nil {
		return nil, err
	}
	buf := make([]byte, len(b))
	copy(buf, b)
	a.pinner.Pin(&buf[0])
	a.objects = append(a.objects, buf)
	return unsafe.Pointer(&buf[0]), nil
}

// Pin keeps p valid and immovable until Release without copying it.
func (a *Arena) Pin(p unsafe.Pointer) error {
	if p == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.freed {
		return rherrors.ErrArenaReleased
	}
	a.pinner.Pin(p)
	return nil
}

// New returns a pinned copy of v.
func New[T any](a *Arena, v T) (*T, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.reserve(int(unsafe.Sizeof(v))); err != nil {
		return nil, err
	}
	p := new(T)
	*p = v
	a.pinner.Pin(p)
	a.objects = append(a.objects, p)
	return p, nil
}

// NewArray returns a pinned copy of vals followed by one zero terminator and
// a pointer to its first element.
func NewArray[T any](a *Arena, vals []T) (*T, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var zero T
	if err := a.reserve(int(unsafe.Sizeof(zero)) * (len(vals) + 1)); err != nil {
		return nil, err
	}
	arr := make([]T, len(vals)+1)
	copy(arr, vals)
	a.pinner.Pin(&arr[0])
	a.objects = append(a.objects, arr)
	return &arr[0], nil
}

// Allocated returns the number of bytes currently held.
func (a *Arena) Allocated() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.total
}

// Released reports whether Release has run.
func (a *Arena) Released() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.freed
}

// Release unpins and drops every allocation. Calls after the first are no-ops;
// later allocations fail with ErrArenaReleased.
func (a *Arena) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.freed {
		return
	}
	a.pinner.Unpin()
	a.objects = nil
	a.strings = nil
	a.total = 0
	a.freed = true
}
