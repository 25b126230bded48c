package music

import (
	"context"
	"fmt"

	"github.com/keshon/sentinel/internal/command"
	"github.com/keshon/sentinel/internal/music"
)

// Player starts playback of a media URL in a voice channel.
type Player interface {
	Play(ctx context.Context, guildID, channelID, url string) error
}

type PlayCommand struct {
	Player Player
}

func (c *PlayCommand) Name() string        { return "play" }
func (c *PlayCommand) Description() string { return "Play a YouTube video in your voice channel" }
func (c *PlayCommand) Usage() string       { return "<url>" }
func (c *PlayCommand) Category() string    { return "🎵 Music" }
func (c *PlayCommand) Permission() int64   { return 0 }

func (c *PlayCommand) Run(ctx context.Context, cc *command.Context) error {
	if len(cc.Args) == 0 {
		return cc.Reply(ctx, "❌ Provide a valid YouTube URL.")
	}
	url := cc.Args[0]
	if _, err := music.ValidateURL(url); err != nil {
		return cc.Reply(ctx, "❌ Provide a valid YouTube URL.")
	}

	msg := cc.Message
	channelID, err := cc.Platform.VoiceChannel(ctx, msg.GuildID, msg.Author.ID)
	if err != nil {
		return fmt.Errorf("find voice channel: %w", err)
	}
	if channelID == "" {
		return cc.Reply(ctx, "🔊 You need to be in a voice channel first.")
	}

	if err := c.Player.Play(ctx, msg.GuildID, channelID, url); err != nil {
		return err
	}
	return cc.Reply(ctx, "🎶 Now playing!")
}
