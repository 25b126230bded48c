package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/keshon/sentinel/internal/antinuke"
	"github.com/keshon/sentinel/pkg/retry"

	"github.com/bwmarrin/discordgo"
)

var auditActions = map[antinuke.Kind]discordgo.AuditLogAction{
	antinuke.BanAdded:       discordgo.AuditLogActionMemberBanAdd,
	antinuke.ChannelDeleted: discordgo.AuditLogActionChannelDelete,
	antinuke.RoleDeleted:    discordgo.AuditLogActionRoleDelete,
	antinuke.WebhookUpdated: discordgo.AuditLogActionWebhookUpdate,
}

// RecentAuditEntries returns up to limit audit log entries of kind, newest first.
func (b *Bot) RecentAuditEntries(ctx context.Context, guildID string, kind antinuke.Kind, limit int) ([]antinuke.AuditEntry, error) {
	action, ok := auditActions[kind]
	if !ok {
		return nil, fmt.Errorf("no audit action for %s", kind)
	}

	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	var log *discordgo.GuildAuditLog
	cfg := retry.Config{
		Attempts:  3,
		Delay:     250 * time.Millisecond,
		Jitter:    true,
		Retryable: isServerError,
		OnRetry: func(attempt int, err error, wait time.Duration) {
			b.log.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Str("guild", guildID).Msg("Audit log request failed, retrying")
		},
	}
	err := retry.Do(ctx, cfg, func() (err error) {
		log, err = b.dg.GuildAuditLog(guildID, "", "", int(action), limit, discordgo.WithContext(ctx))
		return err
	})
	if err != nil {
		return nil, err
	}
	return auditEntries(log, kind), nil
}

// isServerError reports a 5xx response from the REST API.
func isServerError(err error) bool {
	var rest *discordgo.RESTError
	return errors.As(err, &rest) && rest.Response != nil && rest.Response.StatusCode >= http.StatusInternalServerError
}

func auditEntries(log *discordgo.GuildAuditLog, kind antinuke.Kind) []antinuke.AuditEntry {
	if log == nil {
		return nil
	}
	out := make([]antinuke.AuditEntry, 0, len(log.AuditLogEntries))
	for _, e := range log.AuditLogEntries {
		if e == nil {
			continue
		}
		entry := antinuke.AuditEntry{ExecutorID: e.UserID, Kind: kind, TargetID: e.TargetID}
		if ts, err := discordgo.SnowflakeTimestamp(e.ID); err == nil {
			entry.Timestamp = ts
		}
		out = append(out, entry)
	}
	return out
}

var (
	_ antinuke.AuditTrail = (*Bot)(nil)
	_ antinuke.Members    = (*Bot)(nil)
)
