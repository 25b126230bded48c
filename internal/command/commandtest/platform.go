// Package commandtest provides an in-memory command.Platform for tests.
package commandtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/keshon/sentinel/internal/command"
)

// Call is one recorded platform call.
type Call struct {
	Method string
	Args   []string
}

func (c Call) String() string { return c.Method + "(" + strings.Join(c.Args, ", ") + ")" }

// Platform records every call. Errors and lookups are configured through the exported fields
// before use.
type Platform struct {
	mu    sync.Mutex
	calls []Call

	Permissions map[string]int64  // userID -> permission bits
	Voice       map[string]string // userID -> voice channel
	Categories  map[string]string // lowercased name -> id

	Errors map[string]error // method name -> error to return

	channelSeq int
}

func NewPlatform() *Platform {
	return &Platform{
		Permissions: make(map[string]int64),
		Voice:       make(map[string]string),
		Categories:  make(map[string]string),
		Errors:      make(map[string]error),
	}
}

func (p *Platform) record(method string, args ...string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, Call{Method: method, Args: args})
	return p.Errors[method]
}

// Calls returns a copy of every recorded call.
func (p *Platform) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

// CallsTo returns the recorded calls to one method.
func (p *Platform) CallsTo(method string) []Call {
	var out []Call
	for _, c := range p.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// SideEffects returns recorded calls excluding read-only lookups.
func (p *Platform) SideEffects() []Call {
	var out []Call
	for _, c := range p.Calls() {
		switch c.Method {
		case "MemberPermissions", "FindCategory", "VoiceChannel":
			continue
		}
		out = append(out, c)
	}
	return out
}

// Replies returns the content of every Reply call.
func (p *Platform) Replies() []string {
	var out []string
	for _, c := range p.CallsTo("Reply") {
		out = append(out, c.Args[1])
	}
	return out
}

func (p *Platform) Reply(ctx context.Context, to command.Message, content string) error {
	return p.record("Reply", to.ID, content)
}

func (p *Platform) Send(ctx context.Context, channelID, content string) error {
	return p.record("Send", channelID, content)
}

func (p *Platform) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	return p.record("AddReaction", channelID, messageID, emoji)
}

func (p *Platform) MemberPermissions(ctx context.Context, guildID, channelID, userID string) (int64, error) {
	if err := p.record("MemberPermissions", guildID, channelID, userID); err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Permissions[userID], nil
}

func (p *Platform) KickMember(ctx context.Context, guildID, userID string) error {
	return p.record("KickMember", guildID, userID)
}

func (p *Platform) BanMember(ctx context.Context, guildID, userID, reason string) error {
	return p.record("BanMember", guildID, userID, reason)
}

func (p *Platform) SendDirectMessage(ctx context.Context, userID, content string) error {
	return p.record("SendDirectMessage", userID, content)
}

func (p *Platform) FindCategory(ctx context.Context, guildID, name string) (string, error) {
	if err := p.record("FindCategory", guildID, name); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Categories[strings.ToLower(name)], nil
}

func (p *Platform) CreateChannel(ctx context.Context, guildID string, spec command.ChannelSpec) (string, error) {
	args := []string{guildID, spec.Name, spec.ParentID}
	for _, o := range spec.Overwrites {
		args = append(args, fmt.Sprintf("%s:%d:%d:%d", o.ID, o.Type, o.Allow, o.Deny))
	}
	if err := p.record("CreateChannel", args...); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channelSeq++
	return fmt.Sprintf("channel-%d", p.channelSeq), nil
}

func (p *Platform) VoiceChannel(ctx context.Context, guildID, userID string) (string, error) {
	if err := p.record("VoiceChannel", guildID, userID); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Voice[userID], nil
}

// Message builds a guild message from author "author" with the given content and mentions.
func Message(content string, mentions ...command.User) command.Message {
	return command.Message{
		ID:        "msg-1",
		ChannelID: "chan-1",
		GuildID:   "guild-1",
		Author:    command.User{ID: "author", Username: "author"},
		Content:   content,
		Mentions:  mentions,
	}
}

var _ command.Platform = (*Platform)(nil)
