package ticket

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/keshon/sentinel/internal/command"

	"github.com/bwmarrin/discordgo"
)

// TicketCommand opens a private support channel for the requester.
type TicketCommand struct {
	// CategoryName is the category tickets are nested under when it exists.
	CategoryName string
	// StaffRoleID, when set, is granted access to every ticket.
	StaffRoleID string
}

func (c *TicketCommand) Name() string        { return "ticket" }
func (c *TicketCommand) Description() string { return "Open a private support ticket" }
func (c *TicketCommand) Usage() string       { return "" }
func (c *TicketCommand) Category() string    { return "🎟️ Support" }
func (c *TicketCommand) Permission() int64   { return 0 }

func (c *TicketCommand) Run(ctx context.Context, cc *command.Context) error {
	msg := cc.Message

	var parentID string
	if c.CategoryName != "" {
		id, err := cc.Platform.FindCategory(ctx, msg.GuildID, c.CategoryName)
		if err != nil {
			cc.Log.Warn().Err(err).Str("category", c.CategoryName).Msg("Ticket category lookup failed")
		}
		parentID = id
	}

	spec := command.ChannelSpec{
		Name:       ChannelName(msg.Author.Username),
		ParentID:   parentID,
		Topic:      fmt.Sprintf("Support ticket for %s", msg.Author.Username),
		Overwrites: c.overwrites(msg),
	}

	channelID, err := cc.Platform.CreateChannel(ctx, msg.GuildID, spec)
	if err != nil {
		return fmt.Errorf("create ticket channel: %w", err)
	}

	greeting := fmt.Sprintf("🎟️ Hello <@%s>, support will be with you shortly.", msg.Author.ID)
	command.Go(cc.Log, "ticket-greeting", func() error {
		return cc.Platform.Send(context.WithoutCancel(ctx), channelID, greeting)
	})

	return cc.Reply(ctx, "✅ Ticket created!")
}

// overwrites hides the channel from @everyone (whose role id equals the guild id) and opens it
// to the requester and, optionally, the staff role.
func (c *TicketCommand) overwrites(msg command.Message) []command.Overwrite {
	out := []command.Overwrite{
		{ID: msg.GuildID, Type: command.OverwriteRole, Deny: discordgo.PermissionViewChannel},
		{
			ID:    msg.Author.ID,
			Type:  command.OverwriteMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
		},
	}
	if c.StaffRoleID != "" {
		out = append(out, command.Overwrite{
			ID:    c.StaffRoleID,
			Type:  command.OverwriteRole,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionManageMessages,
		})
	}
	return out
}

// ChannelName builds a valid text channel name for a ticket opened by username.
func ChannelName(username string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(username) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			sb.WriteRune(r)
			dash = false
		case !dash && sb.Len() > 0:
			sb.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimRight(sb.String(), "-")
	if name == "" {
		name = "user"
	}
	if r := []rune("ticket-" + name); len(r) > 100 {
		return string(r[:100])
	}
	return "ticket-" + name
}
