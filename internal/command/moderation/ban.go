package moderation

import (
	"context"
	"fmt"

	"github.com/keshon/sentinel/internal/command"

	"github.com/bwmarrin/discordgo"
)

type BanCommand struct{}

func (c *BanCommand) Name() string        { return "ban" }
func (c *BanCommand) Description() string { return "Ban a member from the server" }
func (c *BanCommand) Usage() string       { return "@user" }
func (c *BanCommand) Category() string    { return "🛡️ Moderation" }
func (c *BanCommand) Permission() int64   { return discordgo.PermissionBanMembers }

func (c *BanCommand) Run(ctx context.Context, cc *command.Context) error {
	target, ok := cc.Message.FirstMention()
	if !ok {
		return nil
	}

	reason := fmt.Sprintf("Banned by %s", cc.Message.Author.Username)
	if err := cc.Platform.BanMember(ctx, cc.Message.GuildID, target.ID, reason); err != nil {
		return fmt.Errorf("ban %s: %w", target.Username, err)
	}
	return cc.Reply(ctx, fmt.Sprintf("✅ Banned %s", target.Username))
}
