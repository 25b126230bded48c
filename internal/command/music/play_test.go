package music

import (
	"context"
	"errors"
	"testing"

	"github.com/keshon/sentinel/internal/command"
	"github.com/keshon/sentinel/internal/command/commandtest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const videoURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

type fakePlayer struct {
	calls [][3]string
	err   error
}

func (f *fakePlayer) Play(ctx context.Context, guildID, channelID, url string) error {
	f.calls = append(f.calls, [3]string{guildID, channelID, url})
	return f.err
}

func runPlay(t *testing.T, player *fakePlayer, p *commandtest.Platform, content string) error {
	t.Helper()
	name, args, ok := command.Parse(content, "!")
	require.True(t, ok)
	return (&PlayCommand{Player: player}).Run(context.Background(), &command.Context{
		Message:  commandtest.Message(content),
		Name:     name,
		Args:     args,
		Prefix:   "!",
		Platform: p,
		Log:      zerolog.Nop(),
	})
}

func TestPlay(t *testing.T) {
	player := &fakePlayer{}
	p := commandtest.NewPlatform()
	p.Voice["author"] = "vc-7"

	require.NoError(t, runPlay(t, player, p, "!play "+videoURL))

	assert.Equal(t, [][3]string{{"guild-1", "vc-7", videoURL}}, player.calls)
	assert.Equal(t, []string{"🎶 Now playing!"}, p.Replies())
}

func TestPlayInvalidURL(t *testing.T) {
	for _, content := range []string{"!play", "!play https://example.com/song.mp3", "!play never gonna"} {
		player := &fakePlayer{}
		p := commandtest.NewPlatform()
		p.Voice["author"] = "vc-7"

		require.NoError(t, runPlay(t, player, p, content))
		assert.Empty(t, player.calls, content)
		assert.Empty(t, p.CallsTo("VoiceChannel"), content)
		assert.Equal(t, []string{"❌ Provide a valid YouTube URL."}, p.Replies(), content)
	}
}

func TestPlayRequiresVoiceChannel(t *testing.T) {
	player := &fakePlayer{}
	p := commandtest.NewPlatform()

	require.NoError(t, runPlay(t, player, p, "!play "+videoURL))
	assert.Empty(t, player.calls)
	assert.Equal(t, []string{"🔊 You need to be in a voice channel first."}, p.Replies())
}

func TestPlayFailureIsReturned(t *testing.T) {
	player := &fakePlayer{err: errors.New("video unavailable")}
	p := commandtest.NewPlatform()
	p.Voice["author"] = "vc-7"

	assert.ErrorContains(t, runPlay(t, player, p, "!play "+videoURL), "video unavailable")
	assert.Empty(t, p.Replies())
}
