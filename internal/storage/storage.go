// /internal/storage/storage.go
package storage

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"
)

var (
	// ErrEmptyPrefix is returned when a prefix is empty after trimming.
	ErrEmptyPrefix = errors.New("prefix must not be empty")
	// ErrPersist wraps any failure to rewrite the persisted document.
	ErrPersist = errors.New("failed to persist configuration")
)

// Persister loads and rewrites the full configuration document.
type Persister interface {
	Load(v any) error
	Save(v any) error
}

// GuildConfig is the per-guild record as it appears in the persisted document.
type GuildConfig struct {
	Prefix string `json:"prefix"`
}

// Storage holds per-guild settings. Reads are served from memory; every mutation rewrites
// the whole document before it becomes visible.
type Storage struct {
	writeMu sync.Mutex // one writer at a time: mutate, snapshot, persist

	mu     sync.RWMutex
	guilds map[string]GuildConfig

	ds            Persister
	defaultPrefix string
}

func New(ds Persister, defaultPrefix string) (*Storage, error) {
	defaultPrefix = strings.TrimSpace(defaultPrefix)
	if defaultPrefix == "" {
		return nil, ErrEmptyPrefix
	}

	guilds := make(map[string]GuildConfig)
	if err := ds.Load(&guilds); err != nil {
		return nil, fmt.Errorf("load guild configs: %w", err)
	}
	if guilds == nil {
		guilds = make(map[string]GuildConfig)
	}

	return &Storage{ds: ds, guilds: guilds, defaultPrefix: defaultPrefix}, nil
}

// DefaultPrefix is the prefix used by guilds without an explicit one and by direct messages.
func (s *Storage) DefaultPrefix() string { return s.defaultPrefix }

// Prefix returns the configured prefix for the guild, or the default if unset.
func (s *Storage) Prefix(guildID string) string {
	if guildID == "" {
		return s.defaultPrefix
	}

	s.mu.RLock()
	record, ok := s.guilds[guildID]
	s.mu.RUnlock()

	if !ok || record.Prefix == "" {
		return s.defaultPrefix
	}
	return record.Prefix
}

// SetPrefix stores a new prefix for the guild. It returns nil only after the full
// document containing the change has been written.
func (s *Storage) SetPrefix(guildID, prefix string) error {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return ErrEmptyPrefix
	}
	if guildID == "" {
		return errors.New("guild id must not be empty")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	next := maps.Clone(s.guilds)
	s.mu.RUnlock()

	record := next[guildID]
	record.Prefix = prefix
	next[guildID] = record

	if err := s.ds.Save(next); err != nil {
		return fmt.Errorf("%w: guild %s: %w", ErrPersist, guildID, err)
	}

	s.mu.Lock()
	s.guilds = next
	s.mu.Unlock()
	return nil
}

// Guilds returns a copy of every stored guild record.
func (s *Storage) Guilds() map[string]GuildConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.guilds)
}
