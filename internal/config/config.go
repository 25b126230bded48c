// /internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN"`

	StoragePath    string `env:"STORAGE_PATH" envDefault:"configs.json"`
	StorageBackups int    `env:"STORAGE_BACKUPS" envDefault:"3"`

	DefaultPrefix string `env:"DEFAULT_PREFIX" envDefault:"!"`
	WatchedHandle string `env:"WATCHED_HANDLE" envDefault:"abhishek_da_goat"`

	// Actors exempt from anti-nuke enforcement.
	Allowlist     []string      `env:"ANTINUKE_ALLOWLIST" envSeparator:","`
	AuditAttempts int           `env:"ANTINUKE_AUDIT_ATTEMPTS" envDefault:"3"`
	AuditDelay    time.Duration `env:"ANTINUKE_AUDIT_DELAY" envDefault:"500ms"`

	TicketCategory  string `env:"TICKET_CATEGORY" envDefault:"tickets"`
	TicketStaffRole string `env:"TICKET_STAFF_ROLE"`

	IOTimeout    time.Duration `env:"IO_TIMEOUT" envDefault:"10s"`
	CommandRate  float64       `env:"COMMAND_RATE" envDefault:"1"`
	CommandBurst int           `env:"COMMAND_BURST" envDefault:"5"`

	Log LogConfig `envPrefix:"LOG_"`

	// DotEnvLoaded reports whether a .env file was found by New.
	DotEnvLoaded bool
}

type LogConfig struct {
	Level      string `env:"LEVEL" envDefault:"info"`
	File       string `env:"FILE"`
	MaxSizeMB  int    `env:"MAX_SIZE_MB" envDefault:"20"`
	MaxBackups int    `env:"MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int    `env:"MAX_AGE_DAYS" envDefault:"14"`
}

// New loads .env (if present) and then the process environment.
func New() (*Config, error) {
	loaded := godotenv.Load() == nil
	cfg, err := parse(env.Options{})
	if err != nil {
		return nil, err
	}
	cfg.DotEnvLoaded = loaded
	return cfg, nil
}

// Parse builds a Config from an explicit environment map instead of the process environment.
func Parse(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.DiscordToken) == "" {
		return errors.New("DISCORD_TOKEN is not set")
	}
	c.DefaultPrefix = strings.TrimSpace(c.DefaultPrefix)
	if c.DefaultPrefix == "" {
		return errors.New("DEFAULT_PREFIX must not be empty")
	}
	if c.IOTimeout <= 0 {
		return fmt.Errorf("IO_TIMEOUT must be positive, got %s", c.IOTimeout)
	}
	if c.CommandRate <= 0 || c.CommandBurst <= 0 {
		return errors.New("COMMAND_RATE and COMMAND_BURST must be positive")
	}
	if c.AuditAttempts < 1 || c.AuditDelay < 0 {
		return errors.New("ANTINUKE_AUDIT_ATTEMPTS must be at least 1 and ANTINUKE_AUDIT_DELAY not negative")
	}

	ids := c.Allowlist[:0]
	for _, id := range c.Allowlist {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	c.Allowlist = ids
	return nil
}
