// Package reaction adds fixed emoji reactions to ordinary chat messages.
package reaction

import (
	"context"
	"strings"

	"github.com/keshon/sentinel/internal/command"

	"github.com/rs/zerolog"
)

var (
	watchedMarkers = []string{"☠️", "🥶"}
	mentionMarkers = []string{"👀", "✅"}
)

// Reactor adds a reaction to a message.
type Reactor interface {
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
}

// Trigger reacts to messages that mention the watched handle or the bot itself.
type Trigger struct {
	reactor Reactor
	handle  string // "@name", lowercased; empty disables the check
	log     zerolog.Logger
}

func NewTrigger(reactor Reactor, watchedHandle string, log zerolog.Logger) *Trigger {
	handle := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(watchedHandle), "@"))
	if handle != "" {
		handle = "@" + handle
	}
	return &Trigger{
		reactor: reactor,
		handle:  handle,
		log:     log.With().Str("component", "reaction").Logger(),
	}
}

// Check never blocks on the network and never fails; reactions are added in the background.
func (t *Trigger) Check(ctx context.Context, msg command.Message) {
	if t.handle != "" && strings.Contains(strings.ToLower(msg.Content), t.handle) {
		t.react(ctx, msg, "watched-handle", watchedMarkers)
	}
	if msg.MentionsBot {
		t.react(ctx, msg, "bot-mention", mentionMarkers)
	}
}

func (t *Trigger) react(ctx context.Context, msg command.Message, name string, emojis []string) {
	ctx = context.WithoutCancel(ctx)
	log := t.log.With().Str("guild", msg.GuildID).Str("message", msg.ID).Logger()
	command.Go(log, name, func() error {
		for _, emoji := range emojis {
			if err := t.reactor.AddReaction(ctx, msg.ChannelID, msg.ID, emoji); err != nil {
				return err
			}
		}
		return nil
	})
}

var _ command.Passive = (*Trigger)(nil)
