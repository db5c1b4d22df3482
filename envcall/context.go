package envcall

import (
	"context"

	"github.com/reglet-dev/retrohost/abi"
)

// CallContext wraps a standard context.Context with the environment command
// being answered, so middleware can see which call it is wrapping.
type CallContext interface {
	context.Context

	// Command returns the environment command being answered.
	Command() abi.EnvCmd
}

type callContext struct {
	context.Context
	cmd abi.EnvCmd
}

func (c *callContext) Command() abi.EnvCmd {
	return c.cmd
}

// WithCommand returns ctx annotated with cmd.
func WithCommand(ctx context.Context, cmd abi.EnvCmd) CallContext {
	return &callContext{Context: ctx, cmd: cmd}
}

// CommandFrom returns the command ctx was annotated with.
func CommandFrom(ctx context.Context) (abi.EnvCmd, bool) {
	if cc, ok := ctx.(CallContext); ok {
		return cc.Command(), true
	}
	return 0, false
}
