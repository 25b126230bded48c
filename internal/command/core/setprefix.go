package core

import (
	"context"
	"fmt"

	"github.com/keshon/sentinel/internal/command"

	"github.com/bwmarrin/discordgo"
)

// PrefixStore is where guild prefixes are changed.
type PrefixStore interface {
	SetPrefix(guildID, prefix string) error
}

type SetPrefixCommand struct {
	Store PrefixStore
}

func (c *SetPrefixCommand) Name() string        { return "setprefix" }
func (c *SetPrefixCommand) Description() string { return "Change the command prefix for this server" }
func (c *SetPrefixCommand) Usage() string       { return "<newPrefix>" }
func (c *SetPrefixCommand) Category() string    { return "⚙️ Settings" }
func (c *SetPrefixCommand) Permission() int64   { return discordgo.PermissionAdministrator }

// Run stores the first argument as the new prefix. The change is acknowledged only after it
// has been persisted.
func (c *SetPrefixCommand) Run(ctx context.Context, cc *command.Context) error {
	if len(cc.Args) == 0 {
		return cc.Reply(ctx, "❗ Please provide a new prefix.")
	}

	prefix := cc.Args[0]
	if err := c.Store.SetPrefix(cc.Message.GuildID, prefix); err != nil {
		return err
	}

	cc.Log.Info().Str("prefix", prefix).Msg("Prefix changed")
	return cc.Reply(ctx, fmt.Sprintf("✅ Prefix changed to `%s`", prefix))
}
