package music

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"layeh.com/gopus"
)

// EncodeOpus reads 20ms PCM frames from pcm and sends one opus packet per frame to out until
// the stream ends or ctx is done. A clean end of stream returns nil.
func EncodeOpus(ctx context.Context, pcm io.Reader, out chan<- []byte) error {
	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		return fmt.Errorf("encoder error: %w", err)
	}

	pcmBuf := make([]byte, frameSize*channels*2)
	intBuf := make([]int16, frameSize*channels)

	for {
		if _, err := io.ReadFull(pcm, pcmBuf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return fmt.Errorf("read error: %w", err)
		}

		for i := range intBuf {
			intBuf[i] = int16(binary.LittleEndian.Uint16(pcmBuf[i*2 : i*2+2]))
		}

		packet, err := encoder.Encode(intBuf, frameSize, len(pcmBuf))
		if err != nil {
			return fmt.Errorf("encode error: %w", err)
		}

		select {
		case out <- packet:
		case <-ctx.Done():
			return nil
		}
	}
}
