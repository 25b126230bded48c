package music

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Voice connects to voice channels.
type Voice interface {
	Connect(ctx context.Context, guildID, channelID string) (Session, error)
}

// Session is one live voice connection.
type Session interface {
	// Play streams PCM until it ends or ctx is done.
	Play(ctx context.Context, pcm io.Reader) error
	Disconnect() error
}

type playback struct {
	id      uint64
	cancel  context.CancelFunc
	done    chan struct{}
	session Session
}

// Player keeps at most one playback per guild. Starting a new one replaces the current one.
type Player struct {
	voice   Voice
	source  Source
	timeout time.Duration
	log     zerolog.Logger

	mu        sync.Mutex
	seq       uint64
	playbacks map[string]*playback
	setup     map[string]*sync.Mutex // serializes stop, connect and install per guild
	closed    bool
}

func NewPlayer(voice Voice, source Source, timeout time.Duration, log zerolog.Logger) *Player {
	return &Player{
		voice:     voice,
		source:    source,
		timeout:   timeout,
		log:       log.With().Str("component", "player").Logger(),
		playbacks: make(map[string]*playback),
		setup:     make(map[string]*sync.Mutex),
	}
}

func (p *Player) guildLock(guildID string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.setup[guildID]
	if !ok {
		l = &sync.Mutex{}
		p.setup[guildID] = l
	}
	return l
}

// Play resolves url and connects to channelID, then streams in the background. Resolution and
// connection errors are returned; streaming errors are only logged.
func (p *Player) Play(ctx context.Context, guildID, channelID, url string) error {
	setupCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	stream, err := p.source.Open(setupCtx, url)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}

	lock := p.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	p.stop(guildID)

	session, err := p.voice.Connect(setupCtx, guildID, channelID)
	if err != nil {
		stream.Close()
		return fmt.Errorf("join voice: %w", err)
	}

	playCtx, playCancel := context.WithCancel(context.WithoutCancel(ctx))
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		playCancel()
		stream.Close()
		_ = session.Disconnect()
		return fmt.Errorf("player is closed")
	}
	p.seq++
	pb := &playback{id: p.seq, cancel: playCancel, done: make(chan struct{}), session: session}
	p.playbacks[guildID] = pb
	p.mu.Unlock()

	log := p.log.With().Str("guild", guildID).Str("channel", channelID).Str("url", url).Logger()
	log.Info().Msg("Playback started")

	go p.run(playCtx, guildID, pb, stream, log)
	return nil
}

func (p *Player) run(ctx context.Context, guildID string, pb *playback, stream io.ReadCloser, log zerolog.Logger) {
	defer close(pb.done)
	defer stream.Close()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Playback panicked")
		}
	}()

	if err := pb.session.Play(ctx, stream); err != nil {
		log.Warn().Err(err).Msg("Playback failed")
	} else {
		log.Info().Msg("Playback finished")
	}

	p.mu.Lock()
	current := p.playbacks[guildID]
	if current != nil && current.id == pb.id {
		delete(p.playbacks, guildID)
	}
	p.mu.Unlock()

	// after a replace or Close the connection belongs to someone else
	if current != nil && current.id == pb.id {
		if err := pb.session.Disconnect(); err != nil {
			log.Warn().Err(err).Msg("Failed to leave voice channel")
		}
	}
}

// Playing reports whether guildID has an active playback.
func (p *Player) Playing(guildID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.playbacks[guildID]
	return ok
}

// stop cancels the guild's playback and waits for it to release the stream.
func (p *Player) stop(guildID string) {
	p.mu.Lock()
	pb := p.playbacks[guildID]
	delete(p.playbacks, guildID)
	p.mu.Unlock()

	if pb == nil {
		return
	}
	pb.cancel()
	<-pb.done
}

// Close stops every playback and leaves all voice channels.
func (p *Player) Close() {
	p.mu.Lock()
	p.closed = true
	all := p.playbacks
	p.playbacks = make(map[string]*playback)
	p.mu.Unlock()

	for _, pb := range all {
		pb.cancel()
		<-pb.done
		_ = pb.session.Disconnect()
	}
}
