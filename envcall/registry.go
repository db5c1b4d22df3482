package envcall

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"unsafe"

	"github.com/reglet-dev/retrohost/abi"
)

// Registry is an immutable table of environment command handlers.
// Once created via NewRegistry, handlers cannot be added or removed.
type Registry struct {
	handlers map[abi.EnvCmd]Handler
	cmds     []abi.EnvCmd // sorted for consistent iteration
}

// registryBuilder accumulates configuration during registry construction.
type registryBuilder struct {
	handlers   map[abi.EnvCmd]Handler
	middleware []Middleware
	errors     []error
}

// RegistryOption is a functional option for configuring a Registry.
type RegistryOption func(*registryBuilder)

// NewRegistry creates an immutable Registry with the given options.
// Returns an error if any command is registered twice or is not part of
// the environment command set.
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	b := &registryBuilder{handlers: make(map[abi.EnvCmd]Handler)}
	for _, opt := range opts {
		opt(b)
	}
	if len(b.errors) > 0 {
		return nil, errors.Join(b.errors...)
	}

	cmds := make([]abi.EnvCmd, 0, len(b.handlers))
	wrapped := make(map[abi.EnvCmd]Handler, len(b.handlers))
	for cmd, handler := range b.handlers {
		cmds = append(cmds, cmd)
		h := handler
		// Apply middleware in reverse order so first middleware wraps outermost.
		for i := len(b.middleware) - 1; i >= 0; i-- {
			h = b.middleware[i](h)
		}
		wrapped[cmd] = h
	}
	slices.Sort(cmds)

	return &Registry{handlers: wrapped, cmds: cmds}, nil
}

// Invoke runs the handler for cmd. ok is false when no handler exists.
func (r *Registry) Invoke(ctx context.Context, cmd abi.EnvCmd, data unsafe.Pointer) (handled bool, ok bool, err error) {
	h, ok := r.handlers[cmd]
	if !ok {
		return false, false, nil
	}
	handled, err = h(WithCommand(ctx, cmd), data)
	return handled, true, err
}

// Has reports whether cmd has a handler.
func (r *Registry) Has(cmd abi.EnvCmd) bool {
	_, ok := r.handlers[cmd]
	return ok
}

// Commands returns the handled commands in ascending order.
func (r *Registry) Commands() []abi.EnvCmd {
	return slices.Clone(r.cmds)
}

func (b *registryBuilder) add(cmd abi.EnvCmd, h Handler) {
	switch {
	case h == nil:
		b.errors = append(b.errors, fmt.Errorf("nil handler for %s", cmd))
	case !abi.Known(cmd):
		b.errors = append(b.errors, fmt.Errorf("unknown environment command %d", uint32(cmd)))
	default:
		if _, exists := b.handlers[cmd]; exists {
			b.errors = append(b.errors, fmt.Errorf("duplicate handler for %s", cmd))
			return
		}
		b.handlers[cmd] = h
	}
}

// WithHandler registers a single handler.
func WithHandler(cmd abi.EnvCmd, h Handler) RegistryOption {
	return func(b *registryBuilder) {
		b.add(cmd, h)
	}
}

// WithBundle registers all handlers of a bundle.
func WithBundle(bundle Bundle) RegistryOption {
	return func(b *registryBuilder) {
		for cmd, h := range bundle.Handlers() {
			b.add(cmd, h)
		}
	}
}

// WithMiddleware adds middleware to the registry.
// Middleware executes in FIFO order (first added wraps first).
func WithMiddleware(mw ...Middleware) RegistryOption {
	return func(b *registryBuilder) {
		b.middleware = append(b.middleware, mw...)
	}
}
