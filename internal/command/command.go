package command

import (
	"context"

	"github.com/rs/zerolog"
)

type Command interface {
	Name() string
	Description() string
	// Usage is the argument synopsis shown by help, without prefix or name.
	Usage() string
	Category() string
	// Permission is the capability required to run the command; 0 means anyone.
	Permission() int64
	Run(ctx context.Context, c *Context) error
}

// User is the subset of an account the commands care about.
type User struct {
	ID       string
	Username string
	Bot      bool
}

// Message is an incoming text message, already detached from the platform event.
type Message struct {
	ID        string
	ChannelID string
	GuildID   string // empty for direct messages
	Author    User
	Content   string

	Mentions     []User // in the order the platform reports them
	MentionRoles []string
	MentionsBot  bool
}

// FirstMention returns the first mentioned user.
func (m Message) FirstMention() (User, bool) {
	if len(m.Mentions) == 0 {
		return User{}, false
	}
	return m.Mentions[0], true
}

// Context is what a command receives when it runs.
type Context struct {
	Message  Message
	Name     string
	Args     []string
	Prefix   string
	Platform Platform
	Log      zerolog.Logger
}

// Reply answers the invoking message.
func (c *Context) Reply(ctx context.Context, content string) error {
	return c.Platform.Reply(ctx, c.Message, content)
}
