package middleware

import (
	"context"
	"time"

	"github.com/keshon/sentinel/internal/command"
)

// WithCommandLogger logs every execution with its duration and outcome.
func WithCommandLogger() command.Middleware {
	return func(cmd command.Command) command.Command {
		return command.Wrap(cmd, func(ctx context.Context, c *command.Context) error {
			start := time.Now()
			err := cmd.Run(ctx, c)

			ev := c.Log.Info()
			if err != nil {
				ev = c.Log.Warn().Err(err)
			}
			ev.Strs("args", c.Args).Dur("took", time.Since(start)).Msg("Command executed")
			return err
		})
	}
}

// Defaults is the chain every chat command is registered with: the permission check runs
// first, so only authorized executions are logged.
func Defaults() []command.Middleware {
	return []command.Middleware{
		WithUserPermissionCheck(),
		WithCommandLogger(),
	}
}
