package host

import "errors"

var (
	ErrClosed         = errors.New("session is closed")
	ErrNotInitialized = errors.New("core is not initialized")
	ErrInitialized    = errors.New("core is already initialized")
	ErrNoContent      = errors.New("no content is loaded")
	ErrContentLoaded  = errors.New("content is already loaded")
	// ErrShutdown is returned by Run once the core has requested shutdown
	// through RETRO_ENVIRONMENT_SHUTDOWN.
	ErrShutdown = errors.New("core requested shutdown")
)
