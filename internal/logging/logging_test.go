package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/keshon/sentinel/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("chatty"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}

func TestBuildWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")
	var console bytes.Buffer

	logger, closer := build(config.LogConfig{Level: "info", File: path, MaxSizeMB: 1}, &console)
	logger.Info().Str("guild", "g1").Msg("hello")
	logger.Debug().Msg("filtered")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"guild":"g1"`)
	assert.NotContains(t, string(data), "filtered")
	assert.Contains(t, console.String(), "hello")
}
