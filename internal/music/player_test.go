package music

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackedStream struct {
	io.Reader
	closed atomic.Bool
}

func (s *trackedStream) Close() error {
	s.closed.Store(true)
	return nil
}

type fakeSource struct {
	mu      sync.Mutex
	err     error
	streams []*trackedStream
}

func (f *fakeSource) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s := &trackedStream{Reader: strings.NewReader(url)}
	f.streams = append(f.streams, s)
	return s, nil
}

type fakeSession struct {
	finish       chan struct{}
	cancelled    atomic.Bool
	disconnected atomic.Int32
}

func (s *fakeSession) Play(ctx context.Context, pcm io.Reader) error {
	select {
	case <-ctx.Done():
		s.cancelled.Store(true)
	case <-s.finish:
	}
	return nil
}

func (s *fakeSession) Disconnect() error {
	s.disconnected.Add(1)
	return nil
}

type fakeVoice struct {
	mu       sync.Mutex
	err      error
	delay    time.Duration
	sessions []*fakeSession
}

func (v *fakeVoice) Connect(ctx context.Context, guildID, channelID string) (Session, error) {
	time.Sleep(v.delay)
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.err != nil {
		return nil, v.err
	}
	s := &fakeSession{finish: make(chan struct{})}
	v.sessions = append(v.sessions, s)
	return s, nil
}

func newTestPlayer() (*Player, *fakeVoice, *fakeSource) {
	v, src := &fakeVoice{}, &fakeSource{}
	return NewPlayer(v, src, time.Second, zerolog.Nop()), v, src
}

func TestPlayerPlaysUntilStreamEnds(t *testing.T) {
	p, v, src := newTestPlayer()

	require.NoError(t, p.Play(context.Background(), "g1", "vc1", "https://youtu.be/dQw4w9WgXcQ"))
	assert.True(t, p.Playing("g1"))

	close(v.sessions[0].finish)

	assert.Eventually(t, func() bool { return !p.Playing("g1") }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return v.sessions[0].disconnected.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, src.streams[0].closed.Load())
}

func TestPlayerReplacesCurrentPlayback(t *testing.T) {
	p, v, src := newTestPlayer()

	require.NoError(t, p.Play(context.Background(), "g1", "vc1", "first"))
	require.NoError(t, p.Play(context.Background(), "g1", "vc1", "second"))

	require.Len(t, v.sessions, 2)
	assert.True(t, v.sessions[0].cancelled.Load())
	assert.True(t, src.streams[0].closed.Load())
	assert.Zero(t, v.sessions[0].disconnected.Load(), "the replacement keeps the connection")
	assert.True(t, p.Playing("g1"))
	assert.False(t, src.streams[1].closed.Load())

	p.Close()
}

func TestPlayerConcurrentPlaysKeepOneStream(t *testing.T) {
	p, v, _ := newTestPlayer()
	v.delay = 20 * time.Millisecond

	var wg sync.WaitGroup
	for _, url := range []string{"first", "second"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, p.Play(context.Background(), "g1", "vc1", url))
		}()
	}
	wg.Wait()

	v.mu.Lock()
	sessions := append([]*fakeSession(nil), v.sessions...)
	v.mu.Unlock()
	require.Len(t, sessions, 2)

	live := 0
	for _, s := range sessions {
		if !s.cancelled.Load() {
			live++
		}
	}
	assert.Equal(t, 1, live, "only the latest playback streams")
	assert.True(t, p.Playing("g1"))

	p.Close()
	for _, s := range sessions {
		assert.True(t, s.cancelled.Load())
	}
}

func TestPlayerGuildsAreIndependent(t *testing.T) {
	p, v, _ := newTestPlayer()

	require.NoError(t, p.Play(context.Background(), "g1", "vc1", "a"))
	require.NoError(t, p.Play(context.Background(), "g2", "vc2", "b"))

	assert.False(t, v.sessions[0].cancelled.Load())
	assert.True(t, p.Playing("g1"))
	assert.True(t, p.Playing("g2"))

	p.Close()
	assert.False(t, p.Playing("g1"))
	assert.EqualValues(t, 1, v.sessions[0].disconnected.Load())
	assert.EqualValues(t, 1, v.sessions[1].disconnected.Load())
}

func TestPlayerSourceFailure(t *testing.T) {
	p, v, src := newTestPlayer()
	src.err = errors.New("video unavailable")

	err := p.Play(context.Background(), "g1", "vc1", "x")
	assert.ErrorContains(t, err, "video unavailable")
	assert.Empty(t, v.sessions)
	assert.False(t, p.Playing("g1"))
}

func TestPlayerConnectFailureClosesStream(t *testing.T) {
	p, v, src := newTestPlayer()
	v.err = errors.New("voice timeout")

	err := p.Play(context.Background(), "g1", "vc1", "x")
	assert.ErrorContains(t, err, "voice timeout")
	require.Len(t, src.streams, 1)
	assert.True(t, src.streams[0].closed.Load())
	assert.False(t, p.Playing("g1"))
}

func TestPlayerRejectsAfterClose(t *testing.T) {
	p, v, _ := newTestPlayer()
	p.Close()

	assert.Error(t, p.Play(context.Background(), "g1", "vc1", "x"))
	require.Len(t, v.sessions, 1)
	assert.EqualValues(t, 1, v.sessions[0].disconnected.Load())
}
