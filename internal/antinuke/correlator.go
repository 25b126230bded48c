// Package antinuke attributes destructive actions to their executor through the audit trail
// and bans executors that are not trusted.
package antinuke

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/keshon/sentinel/pkg/retry"

	"github.com/rs/zerolog"
)

var (
	ErrNoAuditEntry = errors.New("no matching audit entry")
	ErrNotBannable  = errors.New("executor cannot be banned")
)

// AuditTrail returns the newest audit entries of one kind, most recent first.
type AuditTrail interface {
	RecentAuditEntries(ctx context.Context, guildID string, kind Kind, limit int) ([]AuditEntry, error)
}

// Members resolves and bans guild members.
type Members interface {
	// Bannable reports whether the member exists and ranks below this bot.
	Bannable(ctx context.Context, guildID, userID string) (bool, error)
	Ban(ctx context.Context, guildID, userID, reason string) error
}

// Allowlist holds the trusted executors.
type Allowlist interface {
	Contains(userID string) bool
}

type Options struct {
	// Timeout bounds every single platform call.
	Timeout time.Duration
	// AuditAttempts is how often an empty audit trail is queried before giving up. The
	// audit entry can land shortly after the gateway event.
	AuditAttempts int
	AuditDelay    time.Duration
}

type Correlator struct {
	audit   AuditTrail
	members Members
	allow   Allowlist
	opts    Options
	log     zerolog.Logger

	selfID atomic.Pointer[string]
}

func NewCorrelator(audit AuditTrail, members Members, allow Allowlist, opts Options, log zerolog.Logger) *Correlator {
	return &Correlator{
		audit:   audit,
		members: members,
		allow:   allow,
		opts:    opts,
		log:     log.With().Str("component", "antinuke").Logger(),
	}
}

// SetSelfID records the bot's own user id. Actions the bot performs itself are always cleared.
func (c *Correlator) SetSelfID(id string) {
	c.selfID.Store(&id)
}

func (c *Correlator) self() string {
	if id := c.selfID.Load(); id != nil {
		return *id
	}
	return ""
}

// Handle runs one event to a terminal state. It only reads the single most recent audit entry
// of the event's kind, so two events of the same kind in quick succession may both be
// attributed to whichever entry is newest when each query runs.
func (c *Correlator) Handle(ctx context.Context, ev Event) (res Result) {
	log := c.log.With().Str("guild", ev.GuildID).Stringer("kind", ev.Kind).Str("object", ev.ObjectID).Logger()

	defer func() {
		if r := recover(); r != nil {
			res = Result{State: Abandoned, ExecutorID: res.ExecutorID, Err: fmt.Errorf("panic: %v", r)}
			log.Error().Interface("panic", r).Msg("Audit correlation panicked")
		}
	}()

	entry, err := c.latest(ctx, ev)
	if err != nil {
		log.Info().Err(err).Msg("Audit correlation abandoned")
		return Result{State: Abandoned, Err: err}
	}

	log = log.With().Str("executor", entry.ExecutorID).Logger()
	if ev.mismatched(entry) {
		log.Debug().Str("target", entry.TargetID).Msg("Newest audit entry targets a different object")
	}

	if entry.ExecutorID == c.self() || c.allow.Contains(entry.ExecutorID) {
		log.Debug().Msg("Executor is trusted")
		return Result{State: Cleared, ExecutorID: entry.ExecutorID}
	}

	if err := c.enforce(ctx, ev, entry.ExecutorID); err != nil {
		log.Warn().Err(err).Msg("Unauthorized action not enforced")
		return Result{State: Abandoned, ExecutorID: entry.ExecutorID, Err: err}
	}

	log.Warn().Str("reason", ev.Kind.Reason()).Msg("Executor banned")
	return Result{State: Enforced, ExecutorID: entry.ExecutorID}
}

func (c *Correlator) latest(ctx context.Context, ev Event) (AuditEntry, error) {
	var entry AuditEntry
	cfg := retry.Config{
		Attempts:  c.opts.AuditAttempts,
		Delay:     c.opts.AuditDelay,
		Retryable: func(err error) bool { return errors.Is(err, ErrNoAuditEntry) },
	}
	err := retry.Do(ctx, cfg, func() error {
		queryCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()

		entries, err := c.audit.RecentAuditEntries(queryCtx, ev.GuildID, ev.Kind, 1)
		if err != nil {
			return fmt.Errorf("query audit trail: %w", err)
		}
		if len(entries) == 0 || entries[0].ExecutorID == "" {
			return ErrNoAuditEntry
		}
		entry = entries[0]
		return nil
	})
	return entry, err
}

func (c *Correlator) enforce(ctx context.Context, ev Event, executorID string) error {
	lookupCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	ok, err := c.members.Bannable(lookupCtx, ev.GuildID, executorID)
	cancel()
	if err != nil {
		return fmt.Errorf("resolve executor: %w", err)
	}
	if !ok {
		return ErrNotBannable
	}

	banCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()
	if err := c.members.Ban(banCtx, ev.GuildID, executorID, ev.Kind.Reason()); err != nil {
		return fmt.Errorf("ban executor: %w", err)
	}
	return nil
}
