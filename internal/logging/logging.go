// Package logging builds the process logger: human-readable console output plus an
// optional rotating JSON file.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/keshon/sentinel/internal/config"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns the root logger and a closer for the rotating file, if one was configured.
func New(cfg config.LogConfig) (zerolog.Logger, io.Closer) {
	return build(cfg, os.Stderr)
}

func build(cfg config.LogConfig, console io.Writer) (zerolog.Logger, io.Closer) {
	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.DateTime}}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		writers = append(writers, rotator)
		closer = rotator
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
	return logger, closer
}

// ParseLevel falls back to info for unknown names.
func ParseLevel(name string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
