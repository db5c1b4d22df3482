package host

import (
	"log/slog"

	"github.com/reglet-dev/retrohost/envcall"
)

// Interfaces supplies the host interface tables a core obtains through
// GET_*_INTERFACE and routes their callbacks to a session's providers.
type Interfaces interface {
	envcall.Thunks
	Attach(p *envcall.Providers)
	Detach()
}

type sessionConfig struct {
	logger     *slog.Logger
	providers  []envcall.ProviderOption
	middleware []envcall.Middleware
	interfaces Interfaces
	arenaLimit int
	tempRoot   string
}

func defaultSessionConfig() sessionConfig {
	return sessionConfig{
		logger: slog.Default(),
	}
}

// Option configures a Session.
type Option func(*sessionConfig)

// WithLogger sets the session logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *sessionConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithProviders adds capability providers. Audio, video and input are
// required. The content slot belongs to the session, and NewSession fails
// with a ConfigError if one is supplied here.
func WithProviders(opts ...envcall.ProviderOption) Option {
	return func(c *sessionConfig) {
		c.providers = append(c.providers, opts...)
	}
}

// WithMiddleware wraps every environment handler, inside the panic recovery
// and logging middleware the session installs.
func WithMiddleware(mw ...envcall.Middleware) Option {
	return func(c *sessionConfig) {
		c.middleware = append(c.middleware, mw...)
	}
}

// WithInterfaces enables the GET_*_INTERFACE commands.
func WithInterfaces(i Interfaces) Option {
	return func(c *sessionConfig) {
		c.interfaces = i
	}
}

// WithArenaLimit bounds the bytes the session may hand to the core.
func WithArenaLimit(limit int) Option {
	return func(c *sessionConfig) {
		c.arenaLimit = limit
	}
}

// WithTempRoot sets where archive content is extracted.
func WithTempRoot(dir string) Option {
	return func(c *sessionConfig) {
		c.tempRoot = dir
	}
}
