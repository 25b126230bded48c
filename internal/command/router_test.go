package command_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/keshon/sentinel/internal/command"
	"github.com/keshon/sentinel/internal/command/commandtest"
	"github.com/keshon/sentinel/internal/command/core"
	"github.com/keshon/sentinel/internal/command/moderation"
	"github.com/keshon/sentinel/internal/middleware"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prefixes map[string]string

func (p prefixes) Prefix(guildID string) string {
	if prefix, ok := p[guildID]; ok {
		return prefix
	}
	return "!"
}

type passiveRecorder struct {
	seen []string
}

func (r *passiveRecorder) Check(ctx context.Context, msg command.Message) {
	r.seen = append(r.seen, msg.Content)
}

type funcCommand struct {
	name string
	run  func(ctx context.Context, c *command.Context) error
}

func (f *funcCommand) Name() string        { return f.name }
func (f *funcCommand) Description() string { return f.name }
func (f *funcCommand) Usage() string       { return "" }
func (f *funcCommand) Category() string    { return "test" }
func (f *funcCommand) Permission() int64   { return 0 }
func (f *funcCommand) Run(ctx context.Context, c *command.Context) error {
	return f.run(ctx, c)
}

type fixture struct {
	router   *command.Router
	platform *commandtest.Platform
	passive  *passiveRecorder
	registry *command.Registry
}

func newFixture(t *testing.T, throttle *command.Throttle) *fixture {
	t.Helper()
	reg := command.NewRegistry()
	for _, cmd := range []command.Command{
		&moderation.KickCommand{},
		&moderation.BanCommand{},
		&moderation.WarnCommand{},
		&moderation.DMCommand{},
		&core.HelpCommand{Registry: reg},
	} {
		reg.Register(cmd, middleware.Defaults()...)
	}

	f := &fixture{
		platform: commandtest.NewPlatform(),
		passive:  &passiveRecorder{},
		registry: reg,
	}
	f.router = command.NewRouter(command.RouterOptions{
		Registry: reg,
		Prefixes: prefixes{"guild-2": "$$"},
		Platform: f.platform,
		Passive:  f.passive,
		Throttle: throttle,
		Logger:   zerolog.Nop(),
	})
	return f
}

var mallory = command.User{ID: "u-42", Username: "mallory"}

func TestRouteIsCaseInsensitive(t *testing.T) {
	f := newFixture(t, nil)

	f.router.Route(context.Background(), commandtest.Message("!WaRn <@u-42>", mallory))

	assert.Equal(t, []string{"⚠️ mallory has been warned."}, f.platform.Replies())
	assert.Empty(t, f.passive.seen)
}

func TestRouteUsesGuildPrefix(t *testing.T) {
	f := newFixture(t, nil)

	msg := commandtest.Message("$$warn <@u-42>", mallory)
	msg.GuildID = "guild-2"
	f.router.Route(context.Background(), msg)

	other := commandtest.Message("!warn <@u-42>", mallory)
	other.GuildID = "guild-2"
	f.router.Route(context.Background(), other)

	assert.Equal(t, []string{"⚠️ mallory has been warned."}, f.platform.Replies())
	assert.Equal(t, []string{"!warn <@u-42>"}, f.passive.seen)
}

func TestUnknownCommandIsSilent(t *testing.T) {
	f := newFixture(t, nil)

	f.router.Route(context.Background(), commandtest.Message("!frobnicate now"))
	f.router.Route(context.Background(), commandtest.Message("! warn"))
	f.router.Route(context.Background(), commandtest.Message("!"))

	assert.Empty(t, f.platform.Calls())
	assert.Empty(t, f.passive.seen)
}

func TestNonCommandGoesToPassiveCheck(t *testing.T) {
	f := newFixture(t, nil)

	f.router.Route(context.Background(), commandtest.Message("hello there"))

	assert.Equal(t, []string{"hello there"}, f.passive.seen)
	assert.Empty(t, f.platform.Calls())
}

func TestBotAuthorsAreIgnored(t *testing.T) {
	f := newFixture(t, nil)

	msg := commandtest.Message("!warn <@u-42>", mallory)
	msg.Author.Bot = true
	f.router.Route(context.Background(), msg)

	assert.Empty(t, f.platform.Calls())
	assert.Empty(t, f.passive.seen)
}

func TestDirectMessagesNeverDispatch(t *testing.T) {
	f := newFixture(t, nil)

	msg := commandtest.Message("!warn <@u-42>", mallory)
	msg.GuildID = ""
	f.router.Route(context.Background(), msg)

	assert.Empty(t, f.platform.Calls())
}

func TestPermissionDenialHasNoSideEffects(t *testing.T) {
	f := newFixture(t, nil)
	f.platform.Permissions["author"] = discordgo.PermissionKickMembers

	f.router.Route(context.Background(), commandtest.Message("!ban <@u-42>", mallory))

	assert.Empty(t, f.platform.SideEffects())
	assert.Len(t, f.platform.CallsTo("MemberPermissions"), 1)
}

func TestPermittedModeration(t *testing.T) {
	f := newFixture(t, nil)
	f.platform.Permissions["author"] = discordgo.PermissionAdministrator

	f.router.Route(context.Background(), commandtest.Message("!ban <@u-42>", mallory))

	assert.Len(t, f.platform.CallsTo("BanMember"), 1)
	assert.Equal(t, []string{"✅ Banned mallory"}, f.platform.Replies())
}

func TestDMFailureGetsDistinctReply(t *testing.T) {
	f := newFixture(t, nil)
	f.platform.Errors["SendDirectMessage"] = errors.New("cannot send messages to this user")

	f.router.Route(context.Background(), commandtest.Message("!dm <@u-42> hi", mallory))

	assert.Equal(t, []string{"❌ Failed to send DM."}, f.platform.Replies())
}

func TestHandlerErrorIsReported(t *testing.T) {
	f := newFixture(t, nil)
	f.platform.Permissions["author"] = discordgo.PermissionKickMembers
	f.platform.Errors["KickMember"] = errors.New("missing access")

	f.router.Route(context.Background(), commandtest.Message("!kick <@u-42>", mallory))

	replies := f.platform.Replies()
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "❌ Command `kick` failed")
	assert.Contains(t, replies[0], "missing access")
}

func TestHandlerPanicIsReported(t *testing.T) {
	f := newFixture(t, nil)
	f.registry.Register(&funcCommand{name: "explode", run: func(ctx context.Context, c *command.Context) error {
		panic("kaboom")
	}})

	require.NotPanics(t, func() {
		f.router.Route(context.Background(), commandtest.Message("!explode"))
	})

	replies := f.platform.Replies()
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "kaboom")
}

func TestArgumentsAreSplitOnWhitespaceRuns(t *testing.T) {
	f := newFixture(t, nil)
	var got []string
	f.registry.Register(&funcCommand{name: "echo", run: func(ctx context.Context, c *command.Context) error {
		got = c.Args
		return nil
	}})

	f.router.Route(context.Background(), commandtest.Message("!echo  a \t b   c"))

	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestThrottleDropsExcessCommands(t *testing.T) {
	f := newFixture(t, command.NewThrottle(0.001, 2))

	for i := 0; i < 4; i++ {
		f.router.Route(context.Background(), commandtest.Message("!warn <@u-42>", mallory))
	}

	assert.Len(t, f.platform.Replies(), 2)
}

func TestConcurrentRoutesStayIndependent(t *testing.T) {
	f := newFixture(t, nil)
	release := make(chan struct{})
	f.registry.Register(&funcCommand{name: "stall", run: func(ctx context.Context, c *command.Context) error {
		<-release
		return nil
	}})

	go f.router.Route(context.Background(), commandtest.Message("!stall"))
	f.router.Route(context.Background(), commandtest.Message("!warn <@u-42>", mallory))

	assert.Equal(t, []string{"⚠️ mallory has been warned."}, f.platform.Replies())
	close(release)

	// help is sent, not replied
	f.router.Route(context.Background(), commandtest.Message("!help"))
	assert.Eventually(t, func() bool { return len(f.platform.CallsTo("Send")) == 1 }, time.Second, 5*time.Millisecond)
}
