package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/go-mp3"

	"github.com/d1nch8g/office/sound"
)

// go-mp3 always decodes to 16-bit stereo, so one chunk holds
// pumpChunkBytes/4 frames.
const pumpChunkBytes = 4096

// MP3Engine decodes an MP3 file and renders it through a PCM player.
type MP3Engine struct {
	file    *os.File
	decoder *mp3.Decoder
	player  sound.Player

	status  atomic.Int32
	cancel  context.CancelFunc
	done    chan struct{}
	release sync.Once
}

func NewMP3Engine() *MP3Engine {
	return &MP3Engine{}
}

func (e *MP3Engine) Attach(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open media file: %w", err)
	}

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to decode media file: %w", err)
	}

	player := sound.NewPortaudioPlayer(sound.PlayerConfig{
		SampleRate:      float64(decoder.SampleRate()),
		OutputChannels:  2,
		FramesPerBuffer: pumpChunkBytes / 4,
	})
	if err := player.Initialize(); err != nil {
		f.Close()
		return fmt.Errorf("failed to initialize sound player: %w", err)
	}
	if err := player.Open(); err != nil {
		player.Terminate()
		f.Close()
		return fmt.Errorf("failed to open output stream: %w", err)
	}

	e.file = f
	e.decoder = decoder
	e.player = player
	return nil
}

func (e *MP3Engine) Play() error {
	if e.player == nil {
		return fmt.Errorf("no media attached")
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.done = make(chan struct{})
	pcm := make(chan []byte, 4)

	// Decode stage: file -> PCM chunks.
	go func() {
		defer close(pcm)
		for {
			chunk := make([]byte, pumpChunkBytes)
			n, err := e.decoder.Read(chunk)
			if n > 0 {
				select {
				case pcm <- chunk[:n]:
				case <-ctx.Done():
					return
				}
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				e.status.Store(int32(StatusError))
				return
			}
		}
	}()

	// Render stage: PCM chunks -> output device.
	go func() {
		defer close(e.done)
		if err := e.player.PlayStream(ctx, pcm); err != nil && ctx.Err() == nil {
			e.status.Store(int32(StatusError))
			return
		}
		// Leave an error set by the decode stage in place.
		e.status.CompareAndSwap(int32(StatusPlaying), int32(StatusEnded))
	}()

	return nil
}

func (e *MP3Engine) Status() Status {
	return Status(e.status.Load())
}

func (e *MP3Engine) Release() {
	e.release.Do(func() {
		if e.cancel != nil {
			e.cancel()
			<-e.done
		}
		if e.player != nil {
			e.player.Close()
			e.player.Terminate()
		}
		if e.file != nil {
			e.file.Close()
		}
	})
}
