package command

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// PrefixResolver returns the trigger prefix for a guild ("" guild means no guild context).
type PrefixResolver interface {
	Prefix(guildID string) string
}

// Passive is consulted for every message that is not a command.
type Passive interface {
	Check(ctx context.Context, msg Message)
}

type RouterOptions struct {
	Registry *Registry
	Prefixes PrefixResolver
	Platform Platform
	Passive  Passive   // optional
	Throttle *Throttle // optional
	Logger   zerolog.Logger
}

// Router turns incoming messages into command invocations.
type Router struct {
	registry *Registry
	prefixes PrefixResolver
	platform Platform
	passive  Passive
	throttle *Throttle
	log      zerolog.Logger
}

func NewRouter(opts RouterOptions) *Router {
	return &Router{
		registry: opts.Registry,
		prefixes: opts.Prefixes,
		platform: opts.Platform,
		passive:  opts.Passive,
		throttle: opts.Throttle,
		log:      opts.Logger,
	}
}

// Parse splits content into a lowercased command name and its arguments. ok is false when
// content does not start with prefix. A prefix followed by whitespace or nothing yields an
// empty name.
func Parse(content, prefix string) (name string, args []string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	rest := content[len(prefix):]
	if r, _ := utf8.DecodeRuneInString(rest); rest == "" || unicode.IsSpace(r) {
		return "", nil, true
	}
	fields := strings.Fields(rest)
	return strings.ToLower(fields[0]), fields[1:], true
}

// Route handles one message. It never panics and never returns an error: command failures
// are reported back to the requester.
func (r *Router) Route(ctx context.Context, msg Message) {
	if msg.Author.Bot {
		return
	}

	prefix := r.prefixes.Prefix(msg.GuildID)
	name, args, isCommand := Parse(msg.Content, prefix)
	if !isCommand {
		if r.passive != nil {
			r.passive.Check(ctx, msg)
		}
		return
	}

	// direct messages resolve the default prefix but never dispatch
	if msg.GuildID == "" || name == "" {
		return
	}

	cmd, ok := r.registry.Get(name)
	if !ok {
		r.log.Debug().Str("guild", msg.GuildID).Str("command", name).Msg("Unknown command ignored")
		return
	}

	log := r.log.With().
		Str("guild", msg.GuildID).
		Str("channel", msg.ChannelID).
		Str("user", msg.Author.ID).
		Str("command", name).
		Logger()

	if r.throttle != nil && !r.throttle.Allow(msg.Author.ID) {
		log.Warn().Msg("Command throttled")
		return
	}

	c := &Context{
		Message:  msg,
		Name:     name,
		Args:     args,
		Prefix:   prefix,
		Platform: r.platform,
		Log:      log,
	}

	start := time.Now()
	err := Safe(func() error { return cmd.Run(ctx, c) })
	if err == nil {
		return
	}

	log.Error().Err(err).Dur("took", time.Since(start)).Msg("Error running command")
	if rerr := r.platform.Reply(ctx, msg, fmt.Sprintf("❌ Command `%s` failed: %v", name, err)); rerr != nil {
		log.Warn().Err(rerr).Msg("Failed to report command failure")
	}
}
