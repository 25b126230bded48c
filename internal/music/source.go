package music

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"

	youtube "github.com/kkdai/youtube/v2"
)

const (
	channels   = 2
	sampleRate = 48000
	frameSize  = 960 // 20ms at 48kHz
)

// Source turns a media URL into raw PCM: s16le, 48kHz, stereo.
type Source interface {
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

// YouTubeSource resolves the audio stream with kkdai/youtube and decodes it with ffmpeg.
type YouTubeSource struct {
	Client     *youtube.Client
	FFmpegPath string
}

func NewYouTubeSource() *YouTubeSource {
	return &YouTubeSource{Client: &youtube.Client{}, FFmpegPath: "ffmpeg"}
}

// Open resolves url under ctx. The returned stream outlives ctx and must be closed.
func (s *YouTubeSource) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	id, err := ValidateURL(url)
	if err != nil {
		return nil, err
	}

	video, err := s.Client.GetVideoContext(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("youtube client error: %w", err)
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return nil, errors.New("no audio formats found for video")
	}

	streamURL, err := s.Client.GetStreamURLContext(ctx, video, &formats[0])
	if err != nil {
		return nil, fmt.Errorf("get stream url: %w", err)
	}

	return s.decode(streamURL)
}

func (s *YouTubeSource) decode(streamURL string) (io.ReadCloser, error) {
	cmd := exec.Command(s.FFmpegPath,
		"-reconnect", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", "5",
		"-i", streamURL,
		"-f", "s16le",
		"-ar", strconv.Itoa(sampleRate),
		"-ac", strconv.Itoa(channels),
		"-loglevel", "warning",
		"pipe:1",
	)

	reader, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start: %w", err)
	}
	return &processStream{ReadCloser: reader, cmd: cmd}, nil
}

// processStream kills the decoder when the reader is closed.
type processStream struct {
	io.ReadCloser
	cmd *exec.Cmd
}

func (p *processStream) Close() error {
	_ = p.cmd.Process.Kill()
	err := p.ReadCloser.Close()
	_ = p.cmd.Wait()
	return err
}
