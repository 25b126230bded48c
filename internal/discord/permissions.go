package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// MemberPermissions returns userID's guild-level permissions: the @everyone role plus every
// role the member holds, ignoring channel overwrites. channelID is unused.
func (b *Bot) MemberPermissions(ctx context.Context, guildID, channelID, userID string) (int64, error) {
	guild, err := b.guild(ctx, guildID)
	if err != nil {
		return 0, fmt.Errorf("resolve guild: %w", err)
	}
	member, err := b.member(ctx, guildID, userID)
	if err != nil {
		return 0, fmt.Errorf("resolve member: %w", err)
	}
	roles, err := b.roles(ctx, guild)
	if err != nil {
		return 0, fmt.Errorf("resolve roles: %w", err)
	}
	return guildPermissions(guild, userID, member, roles), nil
}

// guildPermissions is everything for the owner and for administrators.
func guildPermissions(guild *discordgo.Guild, userID string, m *discordgo.Member, roles []*discordgo.Role) int64 {
	if userID == guild.OwnerID {
		return discordgo.PermissionAll
	}

	held := make(map[string]bool, len(m.Roles)+1)
	held[guild.ID] = true
	for _, id := range m.Roles {
		held[id] = true
	}

	var perms int64
	for _, r := range roles {
		if r != nil && held[r.ID] {
			perms |= r.Permissions
		}
	}
	if perms&discordgo.PermissionAdministrator != 0 {
		return discordgo.PermissionAll
	}
	return perms
}

// Bannable reports whether this bot can ban userID: the target is neither the guild owner nor
// the bot itself, is still a member, and its highest role sits strictly below the bot's.
func (b *Bot) Bannable(ctx context.Context, guildID, userID string) (bool, error) {
	self := b.selfID()
	if userID == self {
		return false, nil
	}

	guild, err := b.guild(ctx, guildID)
	if err != nil {
		return false, fmt.Errorf("resolve guild: %w", err)
	}
	if userID == guild.OwnerID {
		return false, nil
	}

	target, err := b.member(ctx, guildID, userID)
	if err != nil {
		return false, fmt.Errorf("resolve member: %w", err)
	}
	me, err := b.member(ctx, guildID, self)
	if err != nil {
		return false, fmt.Errorf("resolve bot member: %w", err)
	}

	roles, err := b.roles(ctx, guild)
	if err != nil {
		return false, fmt.Errorf("resolve roles: %w", err)
	}
	return outranks(me, target, roles), nil
}

func (b *Bot) guild(ctx context.Context, guildID string) (*discordgo.Guild, error) {
	if g, err := b.dg.State.Guild(guildID); err == nil {
		return g, nil
	}
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()
	return b.dg.Guild(guildID, discordgo.WithContext(ctx))
}

func (b *Bot) member(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	if m, err := b.dg.State.Member(guildID, userID); err == nil {
		return m, nil
	}
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()
	return b.dg.GuildMember(guildID, userID, discordgo.WithContext(ctx))
}

func (b *Bot) roles(ctx context.Context, guild *discordgo.Guild) ([]*discordgo.Role, error) {
	if len(guild.Roles) > 0 {
		return guild.Roles, nil
	}
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()
	return b.dg.GuildRoles(guild.ID, discordgo.WithContext(ctx))
}

// outranks reports whether actor's highest role is strictly above target's.
func outranks(actor, target *discordgo.Member, roles []*discordgo.Role) bool {
	return highestRolePosition(actor, roles) > highestRolePosition(target, roles)
}

// highestRolePosition is 0 (the @everyone position) for a member without roles.
func highestRolePosition(m *discordgo.Member, roles []*discordgo.Role) int {
	byID := make(map[string]int, len(roles))
	for _, r := range roles {
		if r != nil {
			byID[r.ID] = r.Position
		}
	}

	highest := 0
	for _, id := range m.Roles {
		if pos, ok := byID[id]; ok && pos > highest {
			highest = pos
		}
	}
	return highest
}
