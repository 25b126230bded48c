package middleware

import (
	"context"

	"github.com/keshon/sentinel/internal/command"
)

// WithUserPermissionCheck runs the command only if the author holds its required permission.
// Denials are silent: nothing is sent back, the command just does not happen.
func WithUserPermissionCheck() command.Middleware {
	return func(cmd command.Command) command.Command {
		return command.Wrap(cmd, func(ctx context.Context, c *command.Context) error {
			required := cmd.Permission()
			if required == 0 {
				return cmd.Run(ctx, c)
			}

			msg := c.Message
			perms, err := c.Platform.MemberPermissions(ctx, msg.GuildID, msg.ChannelID, msg.Author.ID)
			if err != nil {
				c.Log.Warn().Err(err).Msg("Failed to get user permissions, denying")
				return nil
			}

			if !command.Authorize(perms, required) {
				c.Log.Info().
					Str("required", command.PermissionName(required)).
					Msg("Permission denied")
				return nil
			}
			return cmd.Run(ctx, c)
		})
	}
}
