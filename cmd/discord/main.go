// cmd/discord/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/keshon/sentinel/datastore"
	"github.com/keshon/sentinel/internal/allowlist"
	"github.com/keshon/sentinel/internal/antinuke"
	"github.com/keshon/sentinel/internal/command"
	"github.com/keshon/sentinel/internal/command/core"
	"github.com/keshon/sentinel/internal/command/moderation"
	"github.com/keshon/sentinel/internal/command/music"
	"github.com/keshon/sentinel/internal/command/ticket"
	"github.com/keshon/sentinel/internal/config"
	"github.com/keshon/sentinel/internal/discord"
	"github.com/keshon/sentinel/internal/logging"
	"github.com/keshon/sentinel/internal/middleware"
	player "github.com/keshon/sentinel/internal/music"
	"github.com/keshon/sentinel/internal/reaction"
	"github.com/keshon/sentinel/internal/storage"

	"github.com/rs/zerolog"
)

const appName = "Sentinel"

func main() {
	cfg, err := config.New()
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("Invalid configuration")
	}

	log, closeLog := logging.New(cfg.Log)
	defer closeLog.Close()

	log.Info().Bool("dotenv", cfg.DotEnvLoaded).Msgf("Starting %s bot...", appName)

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("Discord bot error")
		closeLog.Close()
		os.Exit(1)
	}
	log.Info().Msg("Discord bot exited cleanly")
}

func run(cfg *config.Config, log zerolog.Logger) error {
	dsCfg := datastore.DefaultConfig(cfg.StoragePath)
	dsCfg.BackupCount = cfg.StorageBackups
	dsCfg.Logger = log.With().Str("component", "datastore").Logger()
	ds, err := datastore.NewWithConfig(dsCfg)
	if err != nil {
		return err
	}

	store, err := storage.New(ds, cfg.DefaultPrefix)
	if err != nil {
		return err
	}
	log.Info().Int("guilds", len(store.Guilds())).Str("file", ds.Path()).Msg("Guild configuration loaded")

	trusted := allowlist.New(cfg.Allowlist...)
	log.Info().Int("actors", trusted.Len()).Msg("Anti-nuke allow-list seeded")

	bot, err := discord.New(discord.Options{
		Token:     cfg.DiscordToken,
		IOTimeout: cfg.IOTimeout,
		Logger:    log,
	})
	if err != nil {
		return err
	}

	players := player.NewPlayer(bot, player.NewYouTubeSource(), cfg.IOTimeout, log)
	defer players.Close()

	registry := command.NewRegistry()
	for _, cmd := range []command.Command{
		&moderation.KickCommand{},
		&moderation.BanCommand{},
		&moderation.WarnCommand{},
		&moderation.DMCommand{},
		&ticket.TicketCommand{CategoryName: cfg.TicketCategory, StaffRoleID: cfg.TicketStaffRole},
		&music.PlayCommand{Player: players},
		&core.SetPrefixCommand{Store: store},
		&core.HelpCommand{Registry: registry},
	} {
		registry.Register(cmd, middleware.Defaults()...)
	}

	router := command.NewRouter(command.RouterOptions{
		Registry: registry,
		Prefixes: store,
		Platform: bot,
		Passive:  reaction.NewTrigger(bot, cfg.WatchedHandle, log),
		Throttle: command.NewThrottle(cfg.CommandRate, cfg.CommandBurst),
		Logger:   log.With().Str("component", "router").Logger(),
	})

	correlator := antinuke.NewCorrelator(bot, bot, trusted, antinuke.Options{
		Timeout:       cfg.IOTimeout,
		AuditAttempts: cfg.AuditAttempts,
		AuditDelay:    cfg.AuditDelay,
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return bot.Run(ctx, router, correlator)
}
