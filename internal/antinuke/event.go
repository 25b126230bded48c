package antinuke

import (
	"fmt"
	"time"
)

// Kind is a destructive administrative action the correlator watches.
type Kind int

const (
	BanAdded Kind = iota + 1
	ChannelDeleted
	RoleDeleted
	WebhookUpdated
)

var kindNames = map[Kind]string{
	BanAdded:       "ban_added",
	ChannelDeleted: "channel_deleted",
	RoleDeleted:    "role_deleted",
	WebhookUpdated: "webhook_updated",
}

var kindReasons = map[Kind]string{
	BanAdded:       "Unauthorized ban action (anti-nuke)",
	ChannelDeleted: "Unauthorized channel deletion (anti-nuke)",
	RoleDeleted:    "Unauthorized role deletion (anti-nuke)",
	WebhookUpdated: "Unauthorized webhook update (anti-nuke)",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Reason is the audit reason attached to a ban issued in response to k.
func (k Kind) Reason() string {
	if reason, ok := kindReasons[k]; ok {
		return reason
	}
	return "Unauthorized action (anti-nuke)"
}

// Event is one destructive action as reported by the gateway. It carries no executor; that
// comes from the audit trail.
type Event struct {
	Kind     Kind
	GuildID  string
	ObjectID string // banned user, deleted channel or role, or the channel whose webhooks changed
}

// mismatched reports whether entry provably targets a different object than ev. Webhook audit
// entries target the webhook while the event only names its channel, so they never compare.
func (ev Event) mismatched(entry AuditEntry) bool {
	if ev.Kind == WebhookUpdated || ev.ObjectID == "" || entry.TargetID == "" {
		return false
	}
	return entry.TargetID != ev.ObjectID
}

// AuditEntry is one audit trail record.
type AuditEntry struct {
	ExecutorID string
	Kind       Kind
	TargetID   string
	Timestamp  time.Time
}

// State is where handling of an event ended.
type State int

const (
	Abandoned State = iota
	Cleared
	Enforced
)

func (s State) String() string {
	switch s {
	case Abandoned:
		return "abandoned"
	case Cleared:
		return "cleared"
	case Enforced:
		return "enforced"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Result is the outcome of one event.
type Result struct {
	State      State
	ExecutorID string // empty when no audit entry was found
	Err        error  // why the event was abandoned, if it was
}
