package envcall

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"unsafe"

	"github.com/reglet-dev/retrohost/abi"
	rherrors "github.com/reglet-dev/retrohost/domain/errors"
)

// Dispatcher is the single entry point of the environment call.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
	ctx      context.Context

	mu        sync.Mutex
	lastFault error
	faults    int
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger used for faults. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithContext sets the context handlers see when called through Call.
func WithContext(ctx context.Context) DispatcherOption {
	return func(d *Dispatcher) {
		d.ctx = ctx
	}
}

// NewDispatcher creates a dispatcher over registry.
func NewDispatcher(registry *Registry, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		logger:   slog.Default(),
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Environment answers one environment call.
//
// Commands outside the closed command set, and commands without a handler,
// return false with no side effects. A nil payload for a command whose
// policy forbids it is a ProtocolError. Handler errors other than
// ErrUnsupported are returned with false.
func (d *Dispatcher) Environment(ctx context.Context, cmd abi.EnvCmd, data unsafe.Pointer) (bool, error) {
	if !abi.Known(cmd) {
		return false, nil
	}
	if data == nil && PayloadPolicy(cmd) == NullForbidden {
		return false, &rherrors.ProtocolError{
			Cmd:    cmd.String(),
			Err:    rherrors.ErrNullPayload,
			Reason: "command does not accept a null payload",
		}
	}

	ok, found, err := d.registry.Invoke(ctx, cmd, data)
	if !found {
		return false, nil
	}
	if err != nil {
		if errors.Is(err, rherrors.ErrUnsupported) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

// Call is Environment for the C boundary. Failures are logged and recorded
// as the last fault; the core sees false for the failing call only.
func (d *Dispatcher) Call(cmd uint32, data unsafe.Pointer) bool {
	ok, err := d.Environment(d.ctx, abi.EnvCmd(cmd), data)
	if err != nil {
		d.record(err)
		d.logger.Error("environment call failed", "cmd", abi.EnvCmd(cmd).String(), "error", err)
		return false
	}
	return ok
}

func (d *Dispatcher) record(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastFault = err
	d.faults++
}

// Fault returns the most recent error Call swallowed, or nil.
func (d *Dispatcher) Fault() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastFault
}

// Faults returns how many calls have failed.
func (d *Dispatcher) Faults() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.faults
}

// Registry returns the dispatcher's command table.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}
