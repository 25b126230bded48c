package moderation

import (
	"context"
	"fmt"
	"strings"

	"github.com/keshon/sentinel/internal/command"
)

type DMCommand struct{}

func (c *DMCommand) Name() string        { return "dm" }
func (c *DMCommand) Description() string { return "Send a direct message to a member" }
func (c *DMCommand) Usage() string       { return "@user message" }
func (c *DMCommand) Category() string    { return "💬 Messaging" }
func (c *DMCommand) Permission() int64   { return 0 }

// Run delivers everything after the first argument (the mention). A delivery failure is
// answered with a notice and is not an error.
func (c *DMCommand) Run(ctx context.Context, cc *command.Context) error {
	target, ok := cc.Message.FirstMention()
	if !ok {
		return nil
	}

	var body string
	if len(cc.Args) > 1 {
		body = strings.Join(cc.Args[1:], " ")
	}

	content := fmt.Sprintf("📩 **DM from %s:** %s", cc.Message.Author.Username, body)
	if err := cc.Platform.SendDirectMessage(ctx, target.ID, content); err != nil {
		cc.Log.Info().Err(err).Str("target", target.ID).Msg("Direct message not delivered")
		return cc.Reply(ctx, "❌ Failed to send DM.")
	}
	return cc.Reply(ctx, "✅ Message sent!")
}
