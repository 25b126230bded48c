package discord

import (
	"github.com/keshon/sentinel/internal/antinuke"
	"github.com/keshon/sentinel/internal/command"

	"github.com/bwmarrin/discordgo"
)

// discordgo runs every handler in its own goroutine; recover keeps one bad event from taking
// the process down.
func (b *Bot) recoverPanic(event string) {
	if r := recover(); r != nil {
		b.log.Error().Str("event", event).Interface("panic", r).Msg("Event handler panicked")
	}
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	defer b.recoverPanic("ready")

	b.correlator.SetSelfID(r.User.ID)
	b.log.Info().
		Str("user", r.User.Username).
		Int("guilds", len(r.Guilds)).
		Msg("✅ Discord bot is running")
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	defer b.recoverPanic("message_create")

	if m.Author == nil || m.Author.ID == b.selfID() {
		return
	}
	b.router.Route(b.ctx, toMessage(m.Message, b.selfID()))
}

func (b *Bot) onGuildBanAdd(s *discordgo.Session, e *discordgo.GuildBanAdd) {
	defer b.recoverPanic("guild_ban_add")

	ev := antinuke.Event{Kind: antinuke.BanAdded, GuildID: e.GuildID}
	if e.User != nil {
		ev.ObjectID = e.User.ID
	}
	b.correlator.Handle(b.ctx, ev)
}

func (b *Bot) onChannelDelete(s *discordgo.Session, e *discordgo.ChannelDelete) {
	defer b.recoverPanic("channel_delete")

	if e.Channel == nil || e.GuildID == "" {
		return
	}
	b.correlator.Handle(b.ctx, antinuke.Event{Kind: antinuke.ChannelDeleted, GuildID: e.GuildID, ObjectID: e.ID})
}

func (b *Bot) onGuildRoleDelete(s *discordgo.Session, e *discordgo.GuildRoleDelete) {
	defer b.recoverPanic("guild_role_delete")

	b.correlator.Handle(b.ctx, antinuke.Event{Kind: antinuke.RoleDeleted, GuildID: e.GuildID, ObjectID: e.RoleID})
}

func (b *Bot) onWebhooksUpdate(s *discordgo.Session, e *discordgo.WebhooksUpdate) {
	defer b.recoverPanic("webhooks_update")

	b.correlator.Handle(b.ctx, antinuke.Event{Kind: antinuke.WebhookUpdated, GuildID: e.GuildID, ObjectID: e.ChannelID})
}

// toMessage detaches the fields commands use from a gateway message.
func toMessage(m *discordgo.Message, selfID string) command.Message {
	msg := command.Message{
		ID:           m.ID,
		ChannelID:    m.ChannelID,
		GuildID:      m.GuildID,
		Content:      m.Content,
		MentionRoles: m.MentionRoles,
	}
	if m.Author != nil {
		msg.Author = toUser(m.Author)
	}
	for _, u := range m.Mentions {
		if u == nil {
			continue
		}
		if selfID != "" && u.ID == selfID {
			msg.MentionsBot = true
		}
		msg.Mentions = append(msg.Mentions, toUser(u))
	}
	return msg
}

func toUser(u *discordgo.User) command.User {
	return command.User{ID: u.ID, Username: u.Username, Bot: u.Bot}
}
