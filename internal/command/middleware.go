package command

import "context"

type Middleware func(Command) Command

// WrappedCommand runs Wrap instead of the inner command's Run; everything else is delegated.
type WrappedCommand struct {
	Command
	Wrap func(ctx context.Context, c *Context) error
}

func (w *WrappedCommand) Run(ctx context.Context, c *Context) error {
	if w.Wrap != nil {
		return w.Wrap(ctx, c)
	}
	return w.Command.Run(ctx, c)
}

// Unwrap returns the inner command.
func (w *WrappedCommand) Unwrap() Command { return w.Command }

// Wrap is the helper middlewares use to build a WrappedCommand.
func Wrap(cmd Command, run func(ctx context.Context, c *Context) error) Command {
	return &WrappedCommand{Command: cmd, Wrap: run}
}

// ApplyMiddlewares wraps cmd so that the first middleware in the list runs first.
func ApplyMiddlewares(cmd Command, mws ...Middleware) Command {
	for i := len(mws) - 1; i >= 0; i-- {
		cmd = mws[i](cmd)
	}
	return cmd
}

// Root unwraps a command until the underlying command is reached.
func Root(cmd Command) Command {
	for {
		w, ok := cmd.(interface{ Unwrap() Command })
		if !ok {
			return cmd
		}
		cmd = w.Unwrap()
	}
}
