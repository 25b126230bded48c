package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/keshon/sentinel/internal/antinuke"
	"github.com/keshon/sentinel/internal/command"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsMessageContent |
	discordgo.IntentGuildModeration |
	discordgo.IntentsGuildWebhooks |
	discordgo.IntentsGuildVoiceStates |
	discordgo.IntentsDirectMessages

// Router receives every incoming message.
type Router interface {
	Route(ctx context.Context, msg command.Message)
}

// Correlator receives every destructive event.
type Correlator interface {
	SetSelfID(id string)
	Handle(ctx context.Context, ev antinuke.Event) antinuke.Result
}

type Options struct {
	Token     string
	IOTimeout time.Duration
	Logger    zerolog.Logger
}

// Bot owns the gateway session. It is also the REST client every other component talks to.
type Bot struct {
	dg      *discordgo.Session
	timeout time.Duration
	log     zerolog.Logger

	router     Router
	correlator Correlator

	// ctx is the lifetime of the gateway connection; handlers derive from it.
	ctx context.Context
}

func New(opts Options) (*Bot, error) {
	dg, err := discordgo.New("Bot " + opts.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = intents

	return &Bot{
		dg:      dg,
		timeout: opts.IOTimeout,
		log:     opts.Logger.With().Str("component", "discord").Logger(),
		ctx:     context.Background(),
	}, nil
}

// Run connects to the gateway and dispatches events to router and correlator until ctx is done.
func (b *Bot) Run(ctx context.Context, router Router, correlator Correlator) error {
	b.ctx = ctx
	b.router = router
	b.correlator = correlator

	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onMessageCreate)
	b.dg.AddHandler(b.onGuildBanAdd)
	b.dg.AddHandler(b.onChannelDelete)
	b.dg.AddHandler(b.onGuildRoleDelete)
	b.dg.AddHandler(b.onWebhooksUpdate)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	b.log.Info().Msg("❎ Shutdown signal received. Cleaning up...")
	return nil
}

// withTimeout bounds a single REST call.
func (b *Bot) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.timeout)
}

func (b *Bot) selfID() string {
	if b.dg.State != nil && b.dg.State.User != nil {
		return b.dg.State.User.ID
	}
	return ""
}
