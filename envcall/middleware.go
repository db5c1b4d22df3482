package envcall

import (
	"context"
	"log/slog"
	"runtime/debug"
	"unsafe"

	rherrors "github.com/reglet-dev/retrohost/domain/errors"
)

// PanicRecoveryMiddleware returns a middleware that converts a panicking
// handler into a PanicError. The core sees false for that one call.
func PanicRecoveryMiddleware() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, data unsafe.Pointer) (ok bool, err error) {
			defer func() {
				if r := recover(); r != nil {
					name := "unknown"
					if cmd, found := CommandFrom(ctx); found {
						name = cmd.String()
					}
					ok = false
					err = &rherrors.PanicError{Value: r, Cmd: name, Stack: debug.Stack()}
				}
			}()
			return next(ctx, data)
		}
	}
}

// LoggingMiddleware returns a middleware that logs every environment call
// at debug level.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Handler) Handler {
		return func(ctx context.Context, data unsafe.Pointer) (bool, error) {
			cmd, _ := CommandFrom(ctx)
			ok, err := next(ctx, data)
			if err != nil {
				logger.DebugContext(ctx, "environment call failed", "cmd", cmd.String(), "error", err)
			} else {
				logger.DebugContext(ctx, "environment call", "cmd", cmd.String(), "ok", ok, "probe", data == nil)
			}
			return ok, err
		}
	}
}
