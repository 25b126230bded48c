package command

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

var PermissionNames = map[int64]string{
	discordgo.PermissionKickMembers:     "Kick Members",
	discordgo.PermissionBanMembers:      "Ban Members",
	discordgo.PermissionAdministrator:   "Administrator",
	discordgo.PermissionManageChannels:  "Manage Channels",
	discordgo.PermissionManageGuild:     "Manage Server",
	discordgo.PermissionAddReactions:    "Add Reactions",
	discordgo.PermissionViewAuditLogs:   "View Audit Logs",
	discordgo.PermissionViewChannel:     "View Channel",
	discordgo.PermissionSendMessages:    "Send Messages",
	discordgo.PermissionManageMessages:  "Manage Messages",
	discordgo.PermissionVoiceConnect:    "Connect to Voice Channel",
	discordgo.PermissionVoiceSpeak:      "Speak",
	discordgo.PermissionManageRoles:     "Manage Roles",
	discordgo.PermissionManageWebhooks:  "Manage Webhooks",
	discordgo.PermissionModerateMembers: "Moderate Members",
}

// PermissionName returns a readable name for a single permission bit.
func PermissionName(p int64) string {
	if name, ok := PermissionNames[p]; ok {
		return name
	}
	return fmt.Sprintf("0x%x", p)
}

// Authorize reports whether an actor holding perms may run a command requiring required.
// A zero requirement is open to everyone; administrators satisfy any requirement.
func Authorize(perms, required int64) bool {
	if required == 0 {
		return true
	}
	if perms&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return perms&required == required
}
