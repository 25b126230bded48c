package command

import "context"

// Platform is every outbound call a command can make. All methods may block on the network
// and may fail.
type Platform interface {
	Reply(ctx context.Context, to Message, content string) error
	Send(ctx context.Context, channelID, content string) error
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error

	MemberPermissions(ctx context.Context, guildID, channelID, userID string) (int64, error)
	KickMember(ctx context.Context, guildID, userID string) error
	BanMember(ctx context.Context, guildID, userID, reason string) error
	SendDirectMessage(ctx context.Context, userID, content string) error

	// FindCategory returns the id of the category with the given name, or "" if none exists.
	FindCategory(ctx context.Context, guildID, name string) (string, error)
	CreateChannel(ctx context.Context, guildID string, spec ChannelSpec) (string, error)

	// VoiceChannel returns the voice channel the user is connected to, or "".
	VoiceChannel(ctx context.Context, guildID, userID string) (string, error)
}

type OverwriteType int

const (
	OverwriteRole OverwriteType = iota
	OverwriteMember
)

// Overwrite grants or denies permissions on a channel to one role or member.
type Overwrite struct {
	ID    string
	Type  OverwriteType
	Allow int64
	Deny  int64
}

// ChannelSpec describes a text channel to create.
type ChannelSpec struct {
	Name       string
	ParentID   string
	Topic      string
	Overwrites []Overwrite
}
