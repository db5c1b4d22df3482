package content

import (
	"errors"
	"sync"
)

// Handle identifies a buffer held by a BufferRegistry.
type Handle uint64

// buffer is a staged byte region with an owner-specific release.
type buffer interface {
	Bytes() []byte
	Release() error
}

// ownedBuffer is Go memory owned by the stager.
type ownedBuffer struct {
	data []byte
}

func (b *ownedBuffer) Bytes() []byte { return b.data }

func (b *ownedBuffer) Release() error {
	b.data = nil
	return nil
}

// borrowedBuffer wraps memory the caller owns. Releasing it only drops the
// reference.
type borrowedBuffer struct {
	data []byte
}

func (b *borrowedBuffer) Bytes() []byte { return b.data }

func (b *borrowedBuffer) Release() error {
	b.data = nil
	return nil
}

// BufferRegistry holds the persistent buffers of one session. Buffers enter
// it when a load completes and leave it only when the registry is closed.
type BufferRegistry struct {
	mu      sync.Mutex
	buffers map[Handle]buffer
	next    Handle
	closed  bool
}

// NewBufferRegistry creates an empty registry.
func NewBufferRegistry() *BufferRegistry {
	return &BufferRegistry{buffers: make(map[Handle]buffer)}
}

// ErrRegistryClosed is returned when adding to a closed registry.
var ErrRegistryClosed = errors.New("buffer registry closed")

func (r *BufferRegistry) add(b buffer) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, ErrRegistryClosed
	}
	r.next++
	r.buffers[r.next] = b
	return r.next, nil
}

// Bytes returns the contents of the buffer behind h.
func (r *BufferRegistry) Bytes(h Handle) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buffers[h]
	if !ok {
		return nil, false
	}
	return b.Bytes(), true
}

// Len returns the number of live buffers.
func (r *BufferRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buffers)
}

// Close releases every buffer. Calls after the first are no-ops.
func (r *BufferRegistry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	for h, b := range r.buffers {
		if err := b.Release(); err != nil {
			errs = append(errs, err)
		}
		delete(r.buffers, h)
	}
	return errors.Join(errs...)
}
