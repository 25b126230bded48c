package moderation

import (
	"context"
	"fmt"

	"github.com/keshon/sentinel/internal/command"

	"github.com/bwmarrin/discordgo"
)

type KickCommand struct{}

func (c *KickCommand) Name() string        { return "kick" }
func (c *KickCommand) Description() string { return "Remove a member from the server" }
func (c *KickCommand) Usage() string       { return "@user" }
func (c *KickCommand) Category() string    { return "🛡️ Moderation" }
func (c *KickCommand) Permission() int64   { return discordgo.PermissionKickMembers }

func (c *KickCommand) Run(ctx context.Context, cc *command.Context) error {
	target, ok := cc.Message.FirstMention()
	if !ok {
		return nil
	}

	if err := cc.Platform.KickMember(ctx, cc.Message.GuildID, target.ID); err != nil {
		return fmt.Errorf("kick %s: %w", target.Username, err)
	}
	return cc.Reply(ctx, fmt.Sprintf("✅ Kicked %s", target.Username))
}
