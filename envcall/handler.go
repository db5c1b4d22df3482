package envcall

import (
	"context"
	"unsafe"
)

// Handler answers one environment command. data is the caller's payload and
// may be nil where the command's policy allows it.
//
// A handler returns true once it has written its result. It returns false to
// decline; ErrUnsupported is the same as false. Any other error is a
// protocol violation by the core.
type Handler func(ctx context.Context, data unsafe.Pointer) (bool, error)

// Middleware wraps a Handler to add cross-cutting behavior. Middleware
// executes in FIFO order (first registered wraps outermost).
type Middleware func(next Handler) Handler

// Typed adapts a function over a typed payload pointer into a Handler.
func Typed[T any](fn func(ctx context.Context, payload *T) (bool, error)) Handler {
	return func(ctx context.Context, data unsafe.Pointer) (bool, error) {
		return fn(ctx, (*T)(data))
	}
}

// Query adapts an output-only command whose result is a single value. fn
// reports the value and whether it is available; the payload is written only
// then. A nil payload probes availability.
func Query[T any](fn func() (T, bool)) Handler {
	return func(_ context.Context, data unsafe.Pointer) (bool, error) {
		v, ok := fn()
		if !ok {
			return false, nil
		}
		if data != nil {
			*(*T)(data) = v
		}
		return true, nil
	}
}

// Set adapts an input-only command whose payload is a single value.
func Set[T any](fn func(v T) bool) Handler {
	return func(_ context.Context, data unsafe.Pointer) (bool, error) {
		return fn(*(*T)(data)), nil
	}
}
