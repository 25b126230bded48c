package moderation

import (
	"context"
	"fmt"

	"github.com/keshon/sentinel/internal/command"
)

// WarnCommand only announces the warning; nothing is recorded.
type WarnCommand struct{}

func (c *WarnCommand) Name() string        { return "warn" }
func (c *WarnCommand) Description() string { return "Publicly warn a member" }
func (c *WarnCommand) Usage() string       { return "@user" }
func (c *WarnCommand) Category() string    { return "🛡️ Moderation" }
func (c *WarnCommand) Permission() int64   { return 0 }

func (c *WarnCommand) Run(ctx context.Context, cc *command.Context) error {
	target, ok := cc.Message.FirstMention()
	if !ok {
		return nil
	}
	return cc.Reply(ctx, fmt.Sprintf("⚠️ %s has been warned.", target.Username))
}
