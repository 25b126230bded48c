package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/keshon/sentinel/internal/command"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) Reply(ctx context.Context, to command.Message, content string) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	ref := &discordgo.MessageReference{MessageID: to.ID, ChannelID: to.ChannelID, GuildID: to.GuildID}
	_, err := b.dg.ChannelMessageSendReply(to.ChannelID, content, ref, discordgo.WithContext(ctx))
	return err
}

func (b *Bot) Send(ctx context.Context, channelID, content string) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	_, err := b.dg.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	return err
}

func (b *Bot) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	return b.dg.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx))
}

func (b *Bot) KickMember(ctx context.Context, guildID, userID string) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	return b.dg.GuildMemberDelete(guildID, userID, discordgo.WithContext(ctx))
}

func (b *Bot) BanMember(ctx context.Context, guildID, userID, reason string) error {
	return b.Ban(ctx, guildID, userID, reason)
}

// Ban bans userID without deleting any of their messages.
func (b *Bot) Ban(ctx context.Context, guildID, userID, reason string) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	return b.dg.GuildBanCreateWithReason(guildID, userID, reason, 0, discordgo.WithContext(ctx))
}

func (b *Bot) SendDirectMessage(ctx context.Context, userID, content string) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	ch, err := b.dg.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("open DM channel: %w", err)
	}
	_, err = b.dg.ChannelMessageSend(ch.ID, content, discordgo.WithContext(ctx))
	return err
}

func (b *Bot) FindCategory(ctx context.Context, guildID, name string) (string, error) {
	channels, err := b.guildChannels(ctx, guildID)
	if err != nil {
		return "", err
	}
	return findCategory(channels, name), nil
}

func (b *Bot) guildChannels(ctx context.Context, guildID string) ([]*discordgo.Channel, error) {
	if g, err := b.dg.State.Guild(guildID); err == nil && len(g.Channels) > 0 {
		return g.Channels, nil
	}

	ctx, cancel := b.withTimeout(ctx)
	defer cancel()
	return b.dg.GuildChannels(guildID, discordgo.WithContext(ctx))
}

func findCategory(channels []*discordgo.Channel, name string) string {
	for _, ch := range channels {
		if ch != nil && ch.Type == discordgo.ChannelTypeGuildCategory && strings.EqualFold(ch.Name, name) {
			return ch.ID
		}
	}
	return ""
}

func (b *Bot) CreateChannel(ctx context.Context, guildID string, spec command.ChannelSpec) (string, error) {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	ch, err := b.dg.GuildChannelCreateComplex(guildID, channelCreateData(spec), discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return ch.ID, nil
}

func channelCreateData(spec command.ChannelSpec) discordgo.GuildChannelCreateData {
	data := discordgo.GuildChannelCreateData{
		Name:     spec.Name,
		Type:     discordgo.ChannelTypeGuildText,
		Topic:    spec.Topic,
		ParentID: spec.ParentID,
	}
	for _, o := range spec.Overwrites {
		t := discordgo.PermissionOverwriteTypeRole
		if o.Type == command.OverwriteMember {
			t = discordgo.PermissionOverwriteTypeMember
		}
		data.PermissionOverwrites = append(data.PermissionOverwrites, &discordgo.PermissionOverwrite{
			ID:    o.ID,
			Type:  t,
			Allow: o.Allow,
			Deny:  o.Deny,
		})
	}
	return data
}

func (b *Bot) VoiceChannel(ctx context.Context, guildID, userID string) (string, error) {
	vs, err := b.dg.State.VoiceState(guildID, userID)
	if errors.Is(err, discordgo.ErrStateNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return vs.ChannelID, nil
}

var _ command.Platform = (*Bot)(nil)
