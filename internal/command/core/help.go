package core

import (
	"context"
	"strings"

	"github.com/keshon/sentinel/internal/command"
)

// HelpCommand lists every registered command with the guild's current prefix.
type HelpCommand struct {
	Registry *command.Registry
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "Get a list of available commands" }
func (c *HelpCommand) Usage() string       { return "" }
func (c *HelpCommand) Category() string    { return "🕯️ Information" }
func (c *HelpCommand) Permission() int64   { return 0 }

func (c *HelpCommand) Run(ctx context.Context, cc *command.Context) error {
	return cc.Platform.Send(ctx, cc.Message.ChannelID, buildHelp(c.Registry.All(), cc.Prefix))
}

func buildHelp(cmds []command.Command, prefix string) string {
	var sb strings.Builder
	sb.WriteString("📘 **Available Commands:**\n```\n")
	for _, cmd := range cmds {
		sb.WriteString(prefix)
		sb.WriteString(cmd.Name())
		if usage := cmd.Usage(); usage != "" {
			sb.WriteString(" ")
			sb.WriteString(usage)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("```")
	return sb.String()
}
