package discord

import (
	"context"
	"fmt"
	"io"

	"github.com/keshon/sentinel/internal/music"

	"github.com/bwmarrin/discordgo"
)

// Connect joins channelID deafened. Joining another channel of the same guild moves the
// existing connection.
func (b *Bot) Connect(ctx context.Context, guildID, channelID string) (music.Session, error) {
	type joined struct {
		vc  *discordgo.VoiceConnection
		err error
	}
	done := make(chan joined, 1)
	go func() {
		vc, err := b.dg.ChannelVoiceJoin(guildID, channelID, false, true)
		done <- joined{vc, err}
	}()

	select {
	case j := <-done:
		if j.err != nil {
			return nil, fmt.Errorf("voice join: %w", j.err)
		}
		return &voiceSession{vc: j.vc}, nil
	case <-ctx.Done():
		// ChannelVoiceJoin has no context; a late connection is torn down once it arrives
		go func() {
			if j := <-done; j.err == nil && j.vc != nil {
				_ = j.vc.Disconnect()
			}
		}()
		return nil, ctx.Err()
	}
}

type voiceSession struct {
	vc *discordgo.VoiceConnection
}

func (s *voiceSession) Play(ctx context.Context, pcm io.Reader) error {
	if err := s.vc.Speaking(true); err != nil {
		return fmt.Errorf("speaking: %w", err)
	}
	defer s.vc.Speaking(false)

	return music.EncodeOpus(ctx, pcm, s.vc.OpusSend)
}

func (s *voiceSession) Disconnect() error {
	return s.vc.Disconnect()
}

var _ music.Voice = (*Bot)(nil)
