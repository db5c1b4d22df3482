package native

import "sync"

// handleTable maps opaque non-zero handles handed to a core onto Go values.
type handleTable[T any] struct {
	mu    sync.Mutex
	next  uintptr
	items map[uintptr]T
}

func newHandleTable[T any]() *handleTable[T] {
	return &handleTable[T]{items: map[uintptr]T{}}
}

func (t *handleTable[T]) add(v T) uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.items[t.next] = v
	return t.next
}

func (t *handleTable[T]) get(h uintptr) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.items[h]
	return v, ok
}

func (t *handleTable[T]) remove(h uintptr) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.items[h]
	delete(t.items, h)
	return v, ok
}

func (t *handleTable[T]) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}

// drain empties the table and returns what it held.
func (t *handleTable[T]) drain() []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]T, 0, len(t.items))
	for h, v := range t.items {
		out = append(out, v)
		delete(t.items, h)
	}
	return out
}
